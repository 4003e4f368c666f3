package handlers

import (
	"net/http"

	"project-management-app/backend/domain"
	"project-management-app/backend/services"
)

type DiscussionHandler struct {
	discussions *services.DiscussionService
}

func NewDiscussionHandler(discussions *services.DiscussionService) DiscussionHandler {
	return DiscussionHandler{discussions: discussions}
}

func (h DiscussionHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	q, err := parseList(r, discussionSpec)
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	discussions, total, err := h.discussions.List(r.Context(), actorFrom(r), q)
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	writeList(w, r, discussions, len(discussions), total, q)
}

func (h DiscussionHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	discussion, err := h.discussions.Get(r.Context(), actorFrom(r), id)
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	writeResp(w, r, http.StatusOK, discussion)
}

func (h DiscussionHandler) Create(w http.ResponseWriter, r *http.Request) {
	discussion := &domain.Discussion{}
	if err := readReq(discussion, r); err != nil {
		writeErrorResp(err, w, r)
		return
	}
	created, err := h.discussions.Create(r.Context(), actorFrom(r), discussion)
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	writeResp(w, r, http.StatusCreated, created)
}

func (h DiscussionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	discussion, err := h.discussions.Update(r.Context(), actorFrom(r), id, bodyPatch[*domain.Discussion](r))
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	writeResp(w, r, http.StatusOK, discussion)
}

func (h DiscussionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	if err := h.discussions.Delete(r.Context(), actorFrom(r), id); err != nil {
		writeErrorResp(err, w, r)
		return
	}
	writeMessage(w, r, http.StatusOK, "Discussion supprimée")
}

func (h DiscussionHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	userID, err := readMemberID(r)
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	if err := h.discussions.AddMember(r.Context(), actorFrom(r), id, userID); err != nil {
		writeErrorResp(err, w, r)
		return
	}
	writeMessage(w, r, http.StatusOK, "Membre ajouté")
}

func (h DiscussionHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	userID, err := parseID(r, "userId")
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	if err := h.discussions.RemoveMember(r.Context(), actorFrom(r), id, userID); err != nil {
		writeErrorResp(err, w, r)
		return
	}
	writeMessage(w, r, http.StatusOK, "Membre retiré")
}

func (h DiscussionHandler) AddMessage(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	var req services.MessageInput
	if err := readReq(&req, r); err != nil {
		writeErrorResp(err, w, r)
		return
	}
	message, err := h.discussions.AddMessage(r.Context(), actorFrom(r), id, req)
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	writeResp(w, r, http.StatusCreated, message)
}

func (h DiscussionHandler) AddReply(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	messageID, err := parseID(r, "messageId")
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	var req services.MessageInput
	if err := readReq(&req, r); err != nil {
		writeErrorResp(err, w, r)
		return
	}
	reply, err := h.discussions.AddReply(r.Context(), actorFrom(r), id, messageID, req)
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	writeResp(w, r, http.StatusCreated, reply)
}

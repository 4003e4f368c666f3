package handlers

import (
	"net/http"

	"project-management-app/backend/domain"
	"project-management-app/backend/services"
)

type EventHandler struct {
	events *services.EventService
}

func NewEventHandler(events *services.EventService) EventHandler {
	return EventHandler{events: events}
}

func (h EventHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	q, err := parseList(r, eventSpec)
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	events, total, err := h.events.List(r.Context(), q)
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	writeList(w, r, events, len(events), total, q)
}

func (h EventHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	event, err := h.events.Get(r.Context(), id)
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	writeResp(w, r, http.StatusOK, event)
}

func (h EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	event := &domain.Evenement{}
	if err := readReq(event, r); err != nil {
		writeErrorResp(err, w, r)
		return
	}
	created, err := h.events.Create(r.Context(), actorFrom(r), event)
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	writeResp(w, r, http.StatusCreated, created)
}

func (h EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	event, err := h.events.Update(r.Context(), actorFrom(r), id, bodyPatch[*domain.Evenement](r))
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	writeResp(w, r, http.StatusOK, event)
}

func (h EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	if err := h.events.Delete(r.Context(), actorFrom(r), id); err != nil {
		writeErrorResp(err, w, r)
		return
	}
	writeMessage(w, r, http.StatusOK, "Événement supprimé")
}

func (h EventHandler) AddParticipant(w http.ResponseWriter, r *http.Request) {
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
	if err := h.events.AddParticipant(r.Context(), actorFrom(r), id, userID); err != nil {
		writeErrorResp(err, w, r)
		return
	}
	writeMessage(w, r, http.StatusOK, "Participant ajouté")
}

func (h EventHandler) RemoveParticipant(w http.ResponseWriter, r *http.Request) {
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
	if err := h.events.RemoveParticipant(r.Context(), actorFrom(r), id, userID); err != nil {
		writeErrorResp(err, w, r)
		return
	}
	writeMessage(w, r, http.StatusOK, "Participant retiré")
}

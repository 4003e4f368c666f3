package handlers

import (
	"net/http"

	"project-management-app/backend/domain"
	"project-management-app/backend/services"
)

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) UserHandler {
	return UserHandler{users: users}
}

func (h UserHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	q, err := parseList(r, userSpec)
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	users, total, err := h.users.List(r.Context(), q)
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	writeList(w, r, users, len(users), total, q)
}

func (h UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	user, err := h.users.Get(r.Context(), id)
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	writeResp(w, r, http.StatusOK, user)
}

func (h UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req services.CreateUserInput
	if err := readReq(&req, r); err != nil {
		writeErrorResp(err, w, r)
		return
	}
	user, err := h.users.Create(r.Context(), req)
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	writeResp(w, r, http.StatusCreated, user)
}

func (h UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	user, err := h.users.Update(r.Context(), actorFrom(r), id, bodyPatch[*domain.User](r))
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	writeResp(w, r, http.StatusOK, user)
}

func (h UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	if err := h.users.Delete(r.Context(), actorFrom(r), id); err != nil {
		writeErrorResp(err, w, r)
		return
	}
	writeMessage(w, r, http.StatusOK, "Utilisateur supprimé")
}

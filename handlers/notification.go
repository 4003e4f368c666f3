package handlers

import (
	"net/http"

	"project-management-app/backend/domain"
	"project-management-app/backend/services"

	"github.com/gorilla/mux"
)

type NotificationHandler struct {
	notifications *services.NotificationService
}

func NewNotificationHandler(notifications *services.NotificationService) NotificationHandler {
	return NotificationHandler{notifications: notifications}
}

// GetAll lists the caller's notifications.
func (h NotificationHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	q, err := parseList(r, notificationSpec)
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	notifications, total, err := h.notifications.List(r.Context(), actorFrom(r), q)
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	writeList(w, r, notifications, len(notifications), total, q)
}

func (h NotificationHandler) CountUnread(w http.ResponseWriter, r *http.Request) {
	n, err := h.notifications.CountUnread(r.Context(), actorFrom(r))
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	count := int(n)
	writeJSON(w, r, http.StatusOK, envelope{Success: true, Count: &count})
}

func (h NotificationHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	n, err := h.notifications.Get(r.Context(), actorFrom(r), id)
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	writeResp(w, r, http.StatusOK, n)
}

// GetReference loads the entity the notification points at.
func (h NotificationHandler) GetReference(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	ref, doc, err := h.notifications.Reference(r.Context(), actorFrom(r), id)
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	writeResp(w, r, http.StatusOK, struct {
		Reference domain.Reference `json:"reference"`
		Document  interface{}      `json:"document"`
	}{ref, doc})
}

func (h NotificationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req services.CreateNotificationInput
	if err := readReq(&req, r); err != nil {
		writeErrorResp(err, w, r)
		return
	}
	n, err := h.notifications.Create(r.Context(), req)
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	writeResp(w, r, http.StatusCreated, n)
}

func (h NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	n, err := h.notifications.MarkRead(r.Context(), actorFrom(r), id)
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	writeResp(w, r, http.StatusOK, n)
}

func (h NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	n, err := h.notifications.MarkAllRead(r.Context(), actorFrom(r))
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	count := int(n)
	writeJSON(w, r, http.StatusOK, envelope{Success: true, Count: &count, Message: "Notifications marquées comme lues"})
}

func (h NotificationHandler) Archive(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	n, err := h.notifications.Archive(r.Context(), actorFrom(r), id)
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	writeResp(w, r, http.StatusOK, n)
}

func (h NotificationHandler) AddAction(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	var req services.ActionInput
	if err := readReq(&req, r); err != nil {
		writeErrorResp(err, w, r)
		return
	}
	n, err := h.notifications.AddAction(r.Context(), actorFrom(r), id, req)
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	writeResp(w, r, http.StatusCreated, n)
}

func (h NotificationHandler) PerformAction(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	kind := domain.ActionType(mux.Vars(r)["type"])
	n, err := h.notifications.PerformAction(r.Context(), actorFrom(r), id, kind)
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	writeResp(w, r, http.StatusOK, n)
}

package handlers

import (
	"context"
	"net/http"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	store Pinger
}

func NewHealthHandler(store Pinger) HealthHandler {
	return HealthHandler{store: store}
}

func (h HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		loggerFrom(r).WithError(err).Warn("health check failed")
		writeJSON(w, r, http.StatusServiceUnavailable, envelope{Error: "Base de données indisponible"})
		return
	}
	writeMessage(w, r, http.StatusOK, "ok")
}

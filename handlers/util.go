package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"project-management-app/backend/domain"
	"project-management-app/backend/query"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const maxBodyBytes = 1 << 20

type KeyUser struct{}

type keyLogger struct{}

// envelope is the body of every JSON response.
type envelope struct {
	Success    bool              `json:"success"`
	Data       interface{}       `json:"data,omitempty"`
	Count      *int              `json:"count,omitempty"`
	Total      *int64            `json:"total,omitempty"`
	Pagination *query.Pagination `json:"pagination,omitempty"`
	Message    string            `json:"message,omitempty"`
	Error      string            `json:"error,omitempty"`
	Errors     map[string]string `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		loggerFrom(r).WithError(err).Error("response encoding failed")
	}
}

func writeResp(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	writeJSON(w, r, status, envelope{Success: true, Data: data})
}

func writeMessage(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, r, status, envelope{Success: true, Message: message})
}

// writeList answers a list endpoint with the page, its size, the total of the
// filtered set and the adjacent pages.
func writeList(w http.ResponseWriter, r *http.Request, data interface{}, count int, total int64, q query.ListQuery) {
	p := q.Pagination(total)
	writeJSON(w, r, http.StatusOK, envelope{
		Success:    true,
		Data:       data,
		Count:      &count,
		Total:      &total,
		Pagination: &p,
	})
}

func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation, domain.KindConflict:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindAuthorization:
		return http.StatusForbidden
	case domain.KindAuthentication:
		return http.StatusUnauthorized
	case domain.KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeErrorResp maps classified errors to their status. Internal errors are
// logged and answered with a generic message.
func writeErrorResp(err error, w http.ResponseWriter, r *http.Request) {
	if err == nil {
		return
	}

	kind := domain.KindOf(err)
	status := statusFor(kind)
	logger := loggerFrom(r).WithError(err).WithField("status", status)

	var e *domain.Error
	if kind == domain.KindInternal || !errors.As(err, &e) {
		logger.Error("request failed")
		writeJSON(w, r, status, envelope{Error: "Erreur interne du serveur"})
		return
	}
	if kind == domain.KindUnavailable {
		logger.Warn("store unavailable")
	} else {
		logger.Debug("request rejected")
	}
	writeJSON(w, r, status, envelope{Error: e.Message, Errors: e.Fields})
}

// readReq decodes the JSON body into req.
func readReq(req interface{}, r *http.Request) error {
	if r.Body == nil {
		return domain.NewValidationError("Corps de requête manquant", nil)
	}
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(req)
	if errors.Is(err, io.EOF) {
		return domain.NewValidationError("Corps de requête manquant", nil)
	}
	if err != nil {
		return domain.NewValidationError("Corps de requête invalide", map[string]string{"body": err.Error()})
	}
	return nil
}

// bodyPatch decodes the request body onto an already loaded document.
func bodyPatch[PT any](r *http.Request) func(PT) error {
	return func(doc PT) error {
		return readReq(doc, r)
	}
}

func parseID(r *http.Request, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)[name])
	if err != nil {
		return primitive.NilObjectID, domain.ErrInvalidID()
	}
	return id, nil
}

func parseList(r *http.Request, spec query.Spec) (query.ListQuery, error) {
	return query.Parse(r.URL.Query(), spec)
}

func actorFrom(r *http.Request) *domain.User {
	u, _ := r.Context().Value(KeyUser{}).(*domain.User)
	return u
}

func loggerFrom(r *http.Request) *logrus.Entry {
	if l, ok := r.Context().Value(keyLogger{}).(*logrus.Entry); ok {
		return l
	}
	return logrus.NewEntry(logrus.StandardLogger())
}

// readMemberID reads the {"userId": "..."} body of membership routes.
func readMemberID(r *http.Request) (primitive.ObjectID, error) {
	req := &struct {
		UserID string `json:"userId"`
	}{}
	if err := readReq(req, r); err != nil {
		return primitive.NilObjectID, err
	}
	id, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		return primitive.NilObjectID, domain.NewValidationError("Identifiant invalide", map[string]string{"userId": "Identifiant d'utilisateur invalide"})
	}
	return id, nil
}

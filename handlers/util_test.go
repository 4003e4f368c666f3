package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"project-management-app/backend/domain"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestWriteErrorResp_StatusByKind(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{domain.NewValidationError("Données invalides", map[string]string{"titre": "Le titre est requis"}), http.StatusBadRequest},
		{domain.NewConflictError("existe déjà"), http.StatusBadRequest},
		{domain.NewNotFoundError("Projet non trouvé"), http.StatusNotFound},
		{domain.ErrForbidden(), http.StatusForbidden},
		{domain.ErrInvalidToken(), http.StatusUnauthorized},
		{domain.NewUnavailableError("Base de données indisponible", errors.New("open")), http.StatusServiceUnavailable},
		{errors.New("socket closed"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		writeErrorResp(tc.err, rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, tc.status, rec.Code, tc.err.Error())

		body := decodeEnvelope(t, rec)
		assert.Equal(t, false, body["success"])
	}
}

func TestWriteErrorResp_HidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	writeErrorResp(errors.New("mongo: connection refused 10.0.0.3"), rec, httptest.NewRequest(http.MethodGet, "/", nil))

	body := decodeEnvelope(t, rec)
	assert.Equal(t, "Erreur interne du serveur", body["error"])
}

func TestWriteErrorResp_FieldErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	err := domain.NewValidationError("Données invalides", map[string]string{"titre": "Le titre est requis"})
	writeErrorResp(err, rec, httptest.NewRequest(http.MethodPost, "/", nil))

	body := decodeEnvelope(t, rec)
	assert.Equal(t, "Données invalides", body["error"])
	assert.Equal(t, map[string]interface{}{"titre": "Le titre est requis"}, body["errors"])
}

func TestReadReq(t *testing.T) {
	var dst struct {
		Titre string `json:"titre"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	err := readReq(&dst, r)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"titre":`))
	err = readReq(&dst, r)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"titre":"Refonte"}`))
	require.NoError(t, readReq(&dst, r))
	assert.Equal(t, "Refonte", dst.Titre)
}

func TestParseID(t *testing.T) {
	r := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": "pas-un-id"})
	_, err := parseID(r, "id")
	assert.Equal(t, domain.ErrInvalidID(), err)

	r = mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": "65f1c0a2b3c4d5e6f7a8b9c0"})
	id, err := parseID(r, "id")
	require.NoError(t, err)
	assert.Equal(t, "65f1c0a2b3c4d5e6f7a8b9c0", id.Hex())
}

func TestWriteJSON_EncodingFailureLogsWithRequestLogger(t *testing.T) {
	logger, hook := test.NewNullLogger()
	entry := logger.WithField("request_id", "req-42")
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(context.WithValue(r.Context(), keyLogger{}, entry))

	writeResp(httptest.NewRecorder(), r, http.StatusOK, make(chan int))

	last := hook.LastEntry()
	require.NotNil(t, last)
	assert.Equal(t, logrus.ErrorLevel, last.Level)
	assert.Equal(t, "req-42", last.Data["request_id"])
}

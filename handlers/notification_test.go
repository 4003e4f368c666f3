package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"project-management-app/backend/domain"
	"project-management-app/backend/query"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memNotifications struct {
	docs map[primitive.ObjectID]*domain.Notification
}

func (m *memNotifications) Insert(_ context.Context, n *domain.Notification) error {
	if n.Id.IsZero() {
		n.Id = primitive.NewObjectID()
	}
	n.BeforeSave(time.Now())
	cp := *n
	m.docs[n.Id] = &cp
	return nil
}

func (m *memNotifications) FindByID(_ context.Context, id primitive.ObjectID) (*domain.Notification, error) {
	n, ok := m.docs[id]
	if !ok {
		return nil, domain.NewNotFoundError("Notification non trouvée")
	}
	cp := *n
	return &cp, nil
}

func (m *memNotifications) Replace(_ context.Context, n *domain.Notification) error {
	if _, ok := m.docs[n.Id]; !ok {
		return domain.NewNotFoundError("Notification non trouvée")
	}
	n.BeforeSave(time.Now())
	cp := *n
	m.docs[n.Id] = &cp
	return nil
}

func (m *memNotifications) DeleteByID(_ context.Context, id primitive.ObjectID) error {
	delete(m.docs, id)
	return nil
}

func (m *memNotifications) List(_ context.Context, q query.ListQuery) ([]*domain.Notification, int64, error) {
	var recipient primitive.ObjectID
	for _, e := range q.Scope {
		if e.Key == "destinataire" {
			recipient = e.Value.(primitive.ObjectID)
		}
	}
	out := []*domain.Notification{}
	for _, n := range m.docs {
		if n.Destinataire == recipient && n.IsActive {
			out = append(out, n)
		}
	}
	return out, int64(len(out)), nil
}

func (m *memNotifications) FindForRecipient(ctx context.Context, id, recipient primitive.ObjectID) (*domain.Notification, error) {
	n, err := m.FindByID(ctx, id)
	if err != nil || n.Destinataire != recipient {
		return nil, domain.NewNotFoundError("Notification non trouvée")
	}
	return n, nil
}

func (m *memNotifications) CountUnread(_ context.Context, recipient primitive.ObjectID) (int64, error) {
	var count int64
	for _, n := range m.docs {
		if n.Destinataire == recipient && n.Statut == domain.StatusNonLu && n.IsActive {
			count++
		}
	}
	return count, nil
}

func (m *memNotifications) MarkAllRead(_ context.Context, recipient primitive.ObjectID, now time.Time) (int64, error) {
	var count int64
	for _, n := range m.docs {
		if n.Destinataire == recipient && n.Statut == domain.StatusNonLu {
			n.MarkRead(now)
			count++
		}
	}
	return count, nil
}

func (m *memNotifications) DeactivateExpired(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func (f *fixture) seedNotification(t *testing.T, recipient primitive.ObjectID) *domain.Notification {
	t.Helper()
	n, err := domain.NewTaskNotification(recipient, primitive.NewObjectID(), "assignation", "Une tâche vous a été assignée")
	require.NoError(t, err)
	require.NoError(t, f.notifications.Insert(context.Background(), n))
	return n
}

func TestNotifications_OwnOnly(t *testing.T) {
	f := newFixture(t, nil)
	own := f.seedNotification(t, f.employe.Id)
	other := f.seedNotification(t, primitive.NewObjectID())

	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/notifications/"+own.Id.Hex(), "employe", "").Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/api/notifications/"+other.Id.Hex(), "employe", "").Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/notifications/"+other.Id.Hex(), "admin", "").Code)

	rec := f.do(http.MethodGet, "/api/notifications", "employe", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1.0, decodeEnvelope(t, rec)["count"])
}

func TestNotifications_ReadLifecycle(t *testing.T) {
	f := newFixture(t, nil)
	n := f.seedNotification(t, f.employe.Id)
	f.seedNotification(t, f.employe.Id)

	rec := f.do(http.MethodGet, "/api/notifications/non-lues/count", "employe", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2.0, decodeEnvelope(t, rec)["count"])

	rec = f.do(http.MethodPatch, "/api/notifications/"+n.Id.Hex()+"/lu", "employe", "")
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeEnvelope(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, "lu", data["statut"])
	assert.NotEmpty(t, data["dateLecture"])

	rec = f.do(http.MethodPatch, "/api/notifications/lu", "employe", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1.0, decodeEnvelope(t, rec)["count"])

	rec = f.do(http.MethodGet, "/api/notifications/non-lues/count", "employe", "")
	assert.Equal(t, 0.0, decodeEnvelope(t, rec)["count"])
}

func TestNotifications_Actions(t *testing.T) {
	f := newFixture(t, nil)
	n := f.seedNotification(t, f.employe.Id)
	path := "/api/notifications/" + n.Id.Hex() + "/actions"

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodPost, path+"/voir", "employe", "").Code)

	rec := f.do(http.MethodPost, path, "employe", `{"type":"voir","label":"Voir la tâche"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(http.MethodPost, path+"/voir", "employe", "")
	require.Equal(t, http.StatusOK, rec.Code)
	actions := decodeEnvelope(t, rec)["data"].(map[string]interface{})["actions"].([]interface{})
	assert.Equal(t, true, actions[0].(map[string]interface{})["completed"])

	rec = f.do(http.MethodPost, path, "employe", `{"type":"danser","label":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNotifications_CreateIsAdminOnly(t *testing.T) {
	f := newFixture(t, nil)
	body := `{"destinataire":"` + f.employe.Id.Hex() + `","type":"systeme","reference":"` + primitive.NewObjectID().Hex() + `","titre":"Maintenance","message":"Coupure ce soir"}`

	assert.Equal(t, http.StatusForbidden, f.do(http.MethodPost, "/api/notifications", "employe", body).Code)

	rec := f.do(http.MethodPost, "/api/notifications", "admin", body)
	require.Equal(t, http.StatusCreated, rec.Code)
	data := decodeEnvelope(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, "non_lu", data["statut"])
	assert.Equal(t, "normale", data["priorite"])
	assert.Equal(t, true, data["isActive"])
}

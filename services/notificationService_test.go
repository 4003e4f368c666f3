package services

import (
	"context"
	"testing"
	"time"

	"project-management-app/backend/domain"
	"project-management-app/backend/query"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubResolver struct {
	got domain.Reference
}

func (r *stubResolver) Resolve(_ context.Context, ref domain.Reference) (interface{}, error) {
	r.got = ref
	if ref.Kind == domain.ReferenceNone {
		return nil, domain.NewNotFoundError("Référence non résolue")
	}
	return map[string]string{"id": ref.ID.Hex()}, nil
}

func newNotificationFixture() (*NotificationService, *memNotifications, *stubResolver) {
	store := newMemNotifications()
	resolver := &stubResolver{}
	s := NewNotificationService(store, resolver, testTracer(), testLogger())
	s.SetClock(clock)
	return s, store, resolver
}

func seedNotification(store *memNotifications, recipient primitive.ObjectID, status domain.NotificationStatus, updated time.Time) *domain.Notification {
	n, err := domain.NewTaskNotification(recipient, primitive.NewObjectID(), "assignation", "Nouvelle tâche")
	if err != nil {
		panic(err)
	}
	n.Statut = status
	n.CreatedAt = updated.Add(-time.Hour)
	n.UpdatedAt = updated
	return store.seed(n)
}

func TestNotificationService_MarkRead(t *testing.T) {
	s, store, _ := newNotificationFixture()
	user := newUser(domain.EMPLOYE)
	n := seedNotification(store, user.Id, domain.StatusNonLu, testNow.Add(-time.Hour))

	got, err := s.MarkRead(context.Background(), user, n.Id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusLu, got.Statut)
	require.NotNil(t, got.DateLecture)
	assert.False(t, got.DateLecture.Before(got.CreatedAt))

	stored, _ := store.get(n.Id)
	assert.Equal(t, domain.StatusLu, stored.Statut)
	assert.Equal(t, testNow, stored.UpdatedAt)
}

func TestNotificationService_OtherRecipientIsNotFound(t *testing.T) {
	s, store, _ := newNotificationFixture()
	owner := newUser(domain.EMPLOYE)
	n := seedNotification(store, owner.Id, domain.StatusNonLu, testNow)

	_, err := s.MarkRead(context.Background(), newUser(domain.EMPLOYE), n.Id)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))

	_, err = s.Get(context.Background(), newUser(domain.ADMIN), n.Id)
	assert.NoError(t, err)
}

func TestNotificationService_LazyDeactivationOnSave(t *testing.T) {
	tests := []struct {
		name   string
		age    time.Duration
		active bool
	}{
		{"archived 31 days ago", 31 * 24 * time.Hour, false},
		{"archived 29 days ago", 29 * 24 * time.Hour, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, store, _ := newNotificationFixture()
			user := newUser(domain.EMPLOYE)
			n := seedNotification(store, user.Id, domain.StatusArchive, testNow.Add(-tt.age))
			require.NoError(t, n.AddAction(domain.ActionVoir, "Voir", "/taches"))
			store.put(n)

			got, err := s.PerformAction(context.Background(), user, n.Id, domain.ActionVoir)
			require.NoError(t, err)
			assert.Equal(t, tt.active, got.IsActive)
			assert.True(t, got.Actions[0].Completed)
		})
	}
}

func TestNotificationService_PerformActionNotFound(t *testing.T) {
	s, store, _ := newNotificationFixture()
	user := newUser(domain.EMPLOYE)
	n := seedNotification(store, user.Id, domain.StatusNonLu, testNow)

	_, err := s.PerformAction(context.Background(), user, n.Id, domain.ActionValider)
	require.Error(t, err)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	assert.Equal(t, "Action non trouvée", err.Error())
}

func TestNotificationService_AddActionValidates(t *testing.T) {
	s, store, _ := newNotificationFixture()
	user := newUser(domain.EMPLOYE)
	n := seedNotification(store, user.Id, domain.StatusNonLu, testNow)

	_, err := s.AddAction(context.Background(), user, n.Id, ActionInput{Type: "supprimer", Label: "X"})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	got, err := s.AddAction(context.Background(), user, n.Id, ActionInput{Type: domain.ActionAccepter, Label: "Accepter"})
	require.NoError(t, err)
	require.Len(t, got.Actions, 1)
	assert.False(t, got.Actions[0].Completed)
}

func TestNotificationService_ListScopesToRecipient(t *testing.T) {
	s, _, _ := newNotificationFixture()
	user := newUser(domain.EMPLOYE)
	store := s.notifications.(*memNotifications)

	_, _, err := s.List(context.Background(), user, query.ListQuery{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, bson.D{
		{Key: "destinataire", Value: user.Id},
		{Key: "isActive", Value: true},
	}, store.lastQuery.Scope)

	q := query.ListQuery{Page: 1, Limit: 10, Filters: bson.D{{Key: "isActive", Value: false}}}
	_, _, err = s.List(context.Background(), user, q)
	require.NoError(t, err)
	assert.Equal(t, bson.D{{Key: "destinataire", Value: user.Id}}, store.lastQuery.Scope)
}

func TestNotificationService_MarkAllReadAndCount(t *testing.T) {
	s, store, _ := newNotificationFixture()
	user := newUser(domain.EMPLOYE)
	seedNotification(store, user.Id, domain.StatusNonLu, testNow)
	seedNotification(store, user.Id, domain.StatusNonLu, testNow)
	seedNotification(store, newUser(domain.EMPLOYE).Id, domain.StatusNonLu, testNow)

	count, err := s.CountUnread(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	changed, err := s.MarkAllRead(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, int64(2), changed)

	count, _ = s.CountUnread(context.Background(), user)
	assert.Zero(t, count)
}

func TestNotificationService_Sweep(t *testing.T) {
	s, store, _ := newNotificationFixture()
	user := newUser(domain.EMPLOYE)
	old := seedNotification(store, user.Id, domain.StatusArchive, testNow.Add(-31*24*time.Hour))
	recent := seedNotification(store, user.Id, domain.StatusArchive, testNow.Add(-2*24*time.Hour))
	unread := seedNotification(store, user.Id, domain.StatusNonLu, testNow.Add(-60*24*time.Hour))

	n, err := s.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, _ := store.get(old.Id)
	assert.False(t, got.IsActive)
	got, _ = store.get(recent.Id)
	assert.True(t, got.IsActive)
	got, _ = store.get(unread.Id)
	assert.True(t, got.IsActive)
}

func TestNotificationService_PeriodicSweepStopsWithContext(t *testing.T) {
	s, _, _ := newNotificationFixture()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.PeriodicSweep(ctx, time.Millisecond)
		close(done)
	}()
	time.Sleep(5 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweep did not stop")
	}
}

func TestNotificationService_Reference(t *testing.T) {
	s, store, resolver := newNotificationFixture()
	user := newUser(domain.EMPLOYE)
	n := seedNotification(store, user.Id, domain.StatusNonLu, testNow)

	ref, doc, err := s.Reference(context.Background(), user, n.Id)
	require.NoError(t, err)
	assert.Equal(t, domain.ReferenceTask, ref.Kind)
	assert.Equal(t, n.Reference, resolver.got.ID)
	assert.NotNil(t, doc)
}

func TestNotificationService_CreateValidates(t *testing.T) {
	s, _, _ := newNotificationFixture()

	_, err := s.Create(context.Background(), CreateNotificationInput{Titre: "x"})
	require.Error(t, err)
	fields := domain.FieldsOf(err)
	assert.Contains(t, fields, "destinataire")
	assert.Contains(t, fields, "reference")

	n, err := s.Create(context.Background(), CreateNotificationInput{
		Destinataire: primitive.NewObjectID(),
		Type:         domain.NotificationSysteme,
		Reference:    primitive.NewObjectID(),
		Titre:        "Maintenance",
		Message:      "Arrêt prévu samedi",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PrioriteNormale, n.Priorite)
	assert.Equal(t, testNow, n.CreatedAt)
}

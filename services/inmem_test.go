package services

import (
	"context"
	"strings"
	"time"

	"project-management-app/backend/domain"
	"project-management-app/backend/logging"
	"project-management-app/backend/query"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return testNow }

func testTracer() trace.Tracer { return noop.NewTracerProvider().Tracer("test") }

func testLogger() *logrus.Entry { return logging.Discard().WithField("component", "test") }

type entityPtr[T any] interface {
	*T
	domain.Entity
}

// memStore keeps copies so services only see their writes after a save.
type memStore[T any, PT entityPtr[T]] struct {
	docs      map[primitive.ObjectID]PT
	order     []primitive.ObjectID
	lastQuery query.ListQuery
	notFound  string
}

func newMemStore[T any, PT entityPtr[T]](notFound string) *memStore[T, PT] {
	return &memStore[T, PT]{docs: map[primitive.ObjectID]PT{}, notFound: notFound}
}

func (m *memStore[T, PT]) stamp(doc PT) {
	if h, ok := any(doc).(interface{ BeforeSave(time.Time) }); ok {
		h.BeforeSave(testNow)
		return
	}
	doc.Touch(testNow)
}

func (m *memStore[T, PT]) put(doc PT) {
	v := *doc
	if _, ok := m.docs[doc.GetID()]; !ok {
		m.order = append(m.order, doc.GetID())
	}
	m.docs[doc.GetID()] = PT(&v)
}

// seed stores doc as is, without stamping.
func (m *memStore[T, PT]) seed(doc PT) PT {
	if doc.GetID().IsZero() {
		doc.SetID(primitive.NewObjectID())
	}
	m.put(doc)
	return doc
}

func (m *memStore[T, PT]) get(id primitive.ObjectID) (PT, bool) {
	d, ok := m.docs[id]
	if !ok {
		return nil, false
	}
	v := *d
	return PT(&v), true
}

func (m *memStore[T, PT]) Insert(_ context.Context, doc PT) error {
	if doc.GetID().IsZero() {
		doc.SetID(primitive.NewObjectID())
	}
	m.stamp(doc)
	m.put(doc)
	return nil
}

func (m *memStore[T, PT]) FindByID(_ context.Context, id primitive.ObjectID) (PT, error) {
	d, ok := m.get(id)
	if !ok {
		return nil, domain.NewNotFoundError(m.notFound)
	}
	return d, nil
}

func (m *memStore[T, PT]) Replace(_ context.Context, doc PT) error {
	if _, ok := m.docs[doc.GetID()]; !ok {
		return domain.NewNotFoundError(m.notFound)
	}
	m.stamp(doc)
	m.put(doc)
	return nil
}

func (m *memStore[T, PT]) DeleteByID(_ context.Context, id primitive.ObjectID) error {
	if _, ok := m.docs[id]; !ok {
		return domain.NewNotFoundError(m.notFound)
	}
	delete(m.docs, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// List applies the page window only; filters are recorded for assertions.
func (m *memStore[T, PT]) List(_ context.Context, q query.ListQuery) ([]PT, int64, error) {
	m.lastQuery = q
	out := []PT{}
	skip := int(q.Skip())
	for i, id := range m.order {
		if i < skip || len(out) >= q.Limit {
			continue
		}
		d, _ := m.get(id)
		out = append(out, d)
	}
	return out, int64(len(m.order)), nil
}

func (m *memStore[T, PT]) all() []PT {
	out := []PT{}
	for _, id := range m.order {
		d, _ := m.get(id)
		out = append(out, d)
	}
	return out
}

type memUsers struct {
	*memStore[domain.User, *domain.User]
}

func newMemUsers() *memUsers {
	return &memUsers{newMemStore[domain.User]("Utilisateur non trouvé")}
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range m.all() {
		if u.Email == strings.ToLower(email) {
			return u, nil
		}
	}
	return nil, domain.NewNotFoundError(m.notFound)
}

func (m *memUsers) UpdatePassword(_ context.Context, id primitive.ObjectID, hash string) error {
	u, ok := m.get(id)
	if !ok {
		return domain.NewNotFoundError(m.notFound)
	}
	u.Password = hash
	m.put(u)
	return nil
}

type memProjects struct {
	*memStore[domain.Projet, *domain.Projet]
}

func newMemProjects() *memProjects {
	return &memProjects{newMemStore[domain.Projet]("Projet non trouvé")}
}

func (m *memProjects) AddMember(_ context.Context, projectID, userID primitive.ObjectID) error {
	p, ok := m.get(projectID)
	if !ok {
		return domain.NewNotFoundError(m.notFound)
	}
	p.Membres = append(append([]primitive.ObjectID{}, p.Membres...), userID)
	m.put(p)
	return nil
}

func (m *memProjects) RemoveMember(_ context.Context, projectID, userID primitive.ObjectID) error {
	p, ok := m.get(projectID)
	if !ok {
		return domain.NewNotFoundError(m.notFound)
	}
	members := []primitive.ObjectID{}
	for _, id := range p.Membres {
		if id != userID {
			members = append(members, id)
		}
	}
	p.Membres = members
	m.put(p)
	return nil
}

type memTasks struct {
	*memStore[domain.Tache, *domain.Tache]
}

func newMemTasks() *memTasks {
	return &memTasks{newMemStore[domain.Tache]("Tâche non trouvée")}
}

func (m *memTasks) AddComment(_ context.Context, taskID primitive.ObjectID, c domain.Commentaire) error {
	t, ok := m.get(taskID)
	if !ok {
		return domain.NewNotFoundError(m.notFound)
	}
	t.Commentaires = append(append([]domain.Commentaire{}, t.Commentaires...), c)
	m.put(t)
	return nil
}

func (m *memTasks) RemoveComment(_ context.Context, taskID, commentID primitive.ObjectID) error {
	t, ok := m.get(taskID)
	if !ok {
		return domain.NewNotFoundError(m.notFound)
	}
	kept := []domain.Commentaire{}
	for _, c := range t.Commentaires {
		if c.Id != commentID {
			kept = append(kept, c)
		}
	}
	t.Commentaires = kept
	m.put(t)
	return nil
}

func (m *memTasks) UpdateStatus(_ context.Context, taskID primitive.ObjectID, status domain.TaskStatus) error {
	t, ok := m.get(taskID)
	if !ok {
		return domain.NewNotFoundError(m.notFound)
	}
	t.Statut = status
	m.put(t)
	return nil
}

func (m *memTasks) DeleteByProject(_ context.Context, projectID primitive.ObjectID) (int64, error) {
	var n int64
	for _, t := range m.all() {
		if t.Projet == projectID {
			_ = m.DeleteByID(context.Background(), t.Id)
			n++
		}
	}
	return n, nil
}

type memNotifications struct {
	*memStore[domain.Notification, *domain.Notification]
}

func newMemNotifications() *memNotifications {
	return &memNotifications{newMemStore[domain.Notification]("Notification non trouvée")}
}

func (m *memNotifications) FindForRecipient(_ context.Context, id, recipient primitive.ObjectID) (*domain.Notification, error) {
	n, ok := m.get(id)
	if !ok || n.Destinataire != recipient {
		return nil, domain.NewNotFoundError(m.notFound)
	}
	return n, nil
}

func (m *memNotifications) CountUnread(_ context.Context, recipient primitive.ObjectID) (int64, error) {
	var c int64
	for _, n := range m.all() {
		if n.Destinataire == recipient && n.Statut == domain.StatusNonLu && n.IsActive {
			c++
		}
	}
	return c, nil
}

func (m *memNotifications) MarkAllRead(_ context.Context, recipient primitive.ObjectID, now time.Time) (int64, error) {
	var c int64
	for _, n := range m.all() {
		if n.Destinataire == recipient && n.Statut == domain.StatusNonLu {
			n.MarkRead(now)
			n.UpdatedAt = now
			m.put(n)
			c++
		}
	}
	return c, nil
}

func (m *memNotifications) DeactivateExpired(_ context.Context, now time.Time) (int64, error) {
	var c int64
	for _, n := range m.all() {
		if n.IsActive && domain.ShouldDeactivate(n.Statut, n.UpdatedAt, now) {
			n.IsActive = false
			n.UpdatedAt = now
			m.put(n)
			c++
		}
	}
	return c, nil
}

// recordingNotifier captures emitted notifications.
type recordingNotifier struct {
	sent []*domain.Notification
}

func (r *recordingNotifier) Notify(_ context.Context, n *domain.Notification) error {
	r.sent = append(r.sent, n)
	return nil
}

func newUser(role domain.Role) *domain.User {
	u := &domain.User{Nom: "Traoré", Prenom: "Awa", Email: "awa@example.com", Role: role, IsActive: true}
	u.Id = primitive.NewObjectID()
	return u
}

type memDiscussions struct {
	*memStore[domain.Discussion, *domain.Discussion]
}

func newMemDiscussions() *memDiscussions {
	return &memDiscussions{newMemStore[domain.Discussion]("Discussion non trouvée")}
}

func (m *memDiscussions) AddMember(_ context.Context, id, userID primitive.ObjectID) error {
	d, ok := m.get(id)
	if !ok {
		return domain.NewNotFoundError(m.notFound)
	}
	d.Membres = append(append([]primitive.ObjectID{}, d.Membres...), userID)
	m.put(d)
	return nil
}

func (m *memDiscussions) RemoveMember(_ context.Context, id, userID primitive.ObjectID) error {
	d, ok := m.get(id)
	if !ok {
		return domain.NewNotFoundError(m.notFound)
	}
	kept := []primitive.ObjectID{}
	for _, member := range d.Membres {
		if member != userID {
			kept = append(kept, member)
		}
	}
	d.Membres = kept
	m.put(d)
	return nil
}

func (m *memDiscussions) AddMessage(_ context.Context, id primitive.ObjectID, msg domain.Message) error {
	d, ok := m.get(id)
	if !ok {
		return domain.NewNotFoundError(m.notFound)
	}
	d.Messages = append(append([]domain.Message{}, d.Messages...), msg)
	m.put(d)
	return nil
}

func (m *memDiscussions) AddReply(_ context.Context, id, messageID primitive.ObjectID, reply domain.Reponse) error {
	d, ok := m.get(id)
	if !ok {
		return domain.NewNotFoundError(m.notFound)
	}
	messages := append([]domain.Message{}, d.Messages...)
	for i := range messages {
		if messages[i].Id == messageID {
			messages[i].Reponses = append(append([]domain.Reponse{}, messages[i].Reponses...), reply)
			d.Messages = messages
			m.put(d)
			return nil
		}
	}
	return domain.NewNotFoundError(m.notFound)
}

type memEvents struct {
	*memStore[domain.Evenement, *domain.Evenement]
}

func newMemEvents() *memEvents {
	return &memEvents{newMemStore[domain.Evenement]("Événement non trouvé")}
}

func (m *memEvents) AddParticipant(_ context.Context, eventID, userID primitive.ObjectID) error {
	e, ok := m.get(eventID)
	if !ok {
		return domain.NewNotFoundError(m.notFound)
	}
	e.Participants = append(append([]primitive.ObjectID{}, e.Participants...), userID)
	m.put(e)
	return nil
}

func (m *memEvents) RemoveParticipant(_ context.Context, eventID, userID primitive.ObjectID) error {
	e, ok := m.get(eventID)
	if !ok {
		return domain.NewNotFoundError(m.notFound)
	}
	participants := []primitive.ObjectID{}
	for _, id := range e.Participants {
		if id != userID {
			participants = append(participants, id)
		}
	}
	e.Participants = participants
	m.put(e)
	return nil
}

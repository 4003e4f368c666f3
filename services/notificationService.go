package services

import (
	"context"
	"time"

	"project-management-app/backend/domain"
	"project-management-app/backend/query"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/trace"
)

type NotificationStore interface {
	store[*domain.Notification]
	FindForRecipient(ctx context.Context, id, recipient primitive.ObjectID) (*domain.Notification, error)
	CountUnread(ctx context.Context, recipient primitive.ObjectID) (int64, error)
	MarkAllRead(ctx context.Context, recipient primitive.ObjectID, now time.Time) (int64, error)
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}

type ReferenceResolver interface {
	Resolve(ctx context.Context, ref domain.Reference) (interface{}, error)
}

type CreateNotificationInput struct {
	Destinataire primitive.ObjectID      `json:"destinataire"`
	Type         domain.NotificationType `json:"type"`
	Reference    primitive.ObjectID      `json:"reference"`
	Titre        string                  `json:"titre"`
	Message      string                  `json:"message"`
	Priorite     domain.Priority         `json:"priorite"`
	Lien         string                  `json:"lien"`
	Metadata     map[string]interface{}  `json:"metadata"`
}

type ActionInput struct {
	Type  domain.ActionType `json:"type" validate:"required"`
	Label string            `json:"label" validate:"required,max=100"`
	Lien  string            `json:"lien"`
}

type NotificationService struct {
	base
	notifications NotificationStore
	resolver      ReferenceResolver
}

func NewNotificationService(notifications NotificationStore, resolver ReferenceResolver, tracer trace.Tracer, logger *logrus.Entry) *NotificationService {
	return &NotificationService{
		base:          newBase(tracer, logger),
		notifications: notifications,
		resolver:      resolver,
	}
}

// Notify stores a notification built by one of the domain factories.
func (s *NotificationService) Notify(ctx context.Context, n *domain.Notification) error {
	ctx, span := s.start(ctx, "NotificationService.Notify")
	defer span.End()

	if err := n.Validate(); err != nil {
		return err
	}
	return fail(span, s.notifications.Insert(ctx, n))
}

func (s *NotificationService) Create(ctx context.Context, in CreateNotificationInput) (*domain.Notification, error) {
	ctx, span := s.start(ctx, "NotificationService.Create")
	defer span.End()

	n, err := domain.NewNotification(domain.NotificationParams{
		Destinataire: in.Destinataire,
		Type:         in.Type,
		Reference:    in.Reference,
		Titre:        in.Titre,
		Message:      in.Message,
		Priorite:     in.Priorite,
		Lien:         in.Lien,
		Metadata:     in.Metadata,
	})
	if err != nil {
		return nil, err
	}
	if err := s.notifications.Insert(ctx, n); err != nil {
		return nil, fail(span, err)
	}
	return n, nil
}

// List returns the actor's own notifications. Deactivated ones are hidden
// unless the isActive filter asks for them.
func (s *NotificationService) List(ctx context.Context, actor *domain.User, q query.ListQuery) (domain.Notifications, int64, error) {
	ctx, span := s.start(ctx, "NotificationService.List")
	defer span.End()

	q = q.WithScope(bson.E{Key: "destinataire", Value: actor.Id})
	if !hasFilter(q, "isActive") {
		q = q.WithScope(bson.E{Key: "isActive", Value: true})
	}
	notifications, total, err := s.notifications.List(ctx, q)
	return notifications, total, fail(span, err)
}

func (s *NotificationService) CountUnread(ctx context.Context, actor *domain.User) (int64, error) {
	ctx, span := s.start(ctx, "NotificationService.CountUnread")
	defer span.End()

	n, err := s.notifications.CountUnread(ctx, actor.Id)
	return n, fail(span, err)
}

func (s *NotificationService) Get(ctx context.Context, actor *domain.User, id primitive.ObjectID) (*domain.Notification, error) {
	ctx, span := s.start(ctx, "NotificationService.Get")
	defer span.End()

	var (
		n   *domain.Notification
		err error
	)
	if actor.IsAdmin() {
		n, err = s.notifications.FindByID(ctx, id)
	} else {
		n, err = s.notifications.FindForRecipient(ctx, id, actor.Id)
	}
	return n, fail(span, err)
}

// Reference loads the document the notification points at.
func (s *NotificationService) Reference(ctx context.Context, actor *domain.User, id primitive.ObjectID) (domain.Reference, interface{}, error) {
	ctx, span := s.start(ctx, "NotificationService.Reference")
	defer span.End()

	n, err := s.Get(ctx, actor, id)
	if err != nil {
		return domain.Reference{}, nil, err
	}
	ref := n.Target()
	doc, err := s.resolver.Resolve(ctx, ref)
	return ref, doc, fail(span, err)
}

func (s *NotificationService) MarkRead(ctx context.Context, actor *domain.User, id primitive.ObjectID) (*domain.Notification, error) {
	return s.mutate(ctx, actor, id, "NotificationService.MarkRead", func(n *domain.Notification) error {
		n.MarkRead(s.now())
		return nil
	})
}

func (s *NotificationService) Archive(ctx context.Context, actor *domain.User, id primitive.ObjectID) (*domain.Notification, error) {
	return s.mutate(ctx, actor, id, "NotificationService.Archive", func(n *domain.Notification) error {
		n.Archive()
		return nil
	})
}

func (s *NotificationService) AddAction(ctx context.Context, actor *domain.User, id primitive.ObjectID, in ActionInput) (*domain.Notification, error) {
	if err := domain.Validate(in); err != nil {
		return nil, err
	}
	return s.mutate(ctx, actor, id, "NotificationService.AddAction", func(n *domain.Notification) error {
		return n.AddAction(in.Type, in.Label, in.Lien)
	})
}

func (s *NotificationService) PerformAction(ctx context.Context, actor *domain.User, id primitive.ObjectID, kind domain.ActionType) (*domain.Notification, error) {
	return s.mutate(ctx, actor, id, "NotificationService.PerformAction", func(n *domain.Notification) error {
		return n.PerformAction(kind, s.now())
	})
}

func (s *NotificationService) MarkAllRead(ctx context.Context, actor *domain.User) (int64, error) {
	ctx, span := s.start(ctx, "NotificationService.MarkAllRead")
	defer span.End()

	n, err := s.notifications.MarkAllRead(ctx, actor.Id, s.now())
	return n, fail(span, err)
}

// Sweep deactivates every archived notification past retention in one
// bulk update.
func (s *NotificationService) Sweep(ctx context.Context) (int64, error) {
	ctx, span := s.start(ctx, "NotificationService.Sweep")
	defer span.End()

	n, err := s.notifications.DeactivateExpired(ctx, s.now())
	return n, fail(span, err)
}

// PeriodicSweep runs Sweep every interval until ctx is done.
func (s *NotificationService) PeriodicSweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("notification sweep stopped")
			return
		case <-ticker.C:
			n, err := s.Sweep(ctx)
			if err != nil {
				s.logger.WithError(err).Error("notification sweep failed")
				continue
			}
			s.logger.WithField("deactivated", n).Debug("notification sweep done")
		}
	}
}

// mutate loads, changes and saves one notification. The save runs the lazy
// deactivation check against the stored updatedAt.
func (s *NotificationService) mutate(ctx context.Context, actor *domain.User, id primitive.ObjectID, name string, change func(*domain.Notification) error) (*domain.Notification, error) {
	ctx, span := s.start(ctx, name)
	defer span.End()

	n, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := change(n); err != nil {
		return nil, err
	}
	if err := s.notifications.Replace(ctx, n); err != nil {
		return nil, fail(span, err)
	}
	return n, nil
}

func hasFilter(q query.ListQuery, key string) bool {
	for _, e := range q.Filters {
		if e.Key == key {
			return true
		}
	}
	return false
}

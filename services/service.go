package services

import (
	"context"
	"time"

	"project-management-app/backend/domain"
	"project-management-app/backend/query"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// store is the document contract shared by every repository.
type store[PT any] interface {
	Insert(ctx context.Context, doc PT) error
	FindByID(ctx context.Context, id primitive.ObjectID) (PT, error)
	Replace(ctx context.Context, doc PT) error
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, q query.ListQuery) ([]PT, int64, error)
}

// Patch mutates a loaded document with caller supplied fields, typically by
// decoding a request body onto it.
type Patch[PT any] func(PT) error

// Notifier persists notifications emitted by other services.
type Notifier interface {
	Notify(ctx context.Context, n *domain.Notification) error
}

// UserLookup resolves user references.
type UserLookup interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// base carries the dependencies every service shares.
type base struct {
	tracer trace.Tracer
	logger *logrus.Entry
	now    func() time.Time
}

func newBase(tracer trace.Tracer, logger *logrus.Entry) base {
	return base{tracer: tracer, logger: logger, now: time.Now}
}

// SetClock replaces the time source.
func (b *base) SetClock(now func() time.Time) {
	b.now = now
}

func (b base) start(ctx context.Context, name string) (context.Context, trace.Span) {
	return b.tracer.Start(ctx, name)
}

// fail marks the span as failed and passes err through.
func fail(span trace.Span, err error) error {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

// applyPatch runs patch on doc and restores its identity and timestamps.
func applyPatch[PT domain.Entity](doc PT, patch Patch[PT]) error {
	meta := doc.Meta()
	if err := patch(doc); err != nil {
		return err
	}
	doc.SetMeta(meta)
	return nil
}

// authorizeOwner allows admins and the owner of a resource.
func authorizeOwner(actor *domain.User, owner primitive.ObjectID) error {
	if actor != nil && (actor.IsAdmin() || actor.Id == owner) {
		return nil
	}
	return domain.ErrForbidden()
}

// emitter stores notifications on behalf of a service. A failed emission is
// logged and never fails the operation that triggered it.
type emitter struct {
	notifier Notifier
	log      *logrus.Entry
}

func (e emitter) emit(ctx context.Context, actor *domain.User, n *domain.Notification, err error) {
	if e.notifier == nil {
		return
	}
	if err == nil && actor != nil && n.Destinataire == actor.Id {
		return
	}
	if err == nil {
		err = e.notifier.Notify(ctx, n)
	}
	if err != nil {
		e.log.WithError(err).Warn("notification not created")
		return
	}
	e.log.WithFields(logrus.Fields{
		"destinataire": n.Destinataire.Hex(),
		"type":         n.Type,
	}).Debug("notification emitted")
}

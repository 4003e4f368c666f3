package services

import (
	"context"

	"project-management-app/backend/domain"
	"project-management-app/backend/query"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/trace"
)

type EventStore interface {
	store[*domain.Evenement]
	AddParticipant(ctx context.Context, eventID, userID primitive.ObjectID) error
	RemoveParticipant(ctx context.Context, eventID, userID primitive.ObjectID) error
}

type EventService struct {
	base
	events EventStore
	users  UserLookup
}

func NewEventService(events EventStore, users UserLookup, tracer trace.Tracer, logger *logrus.Entry) *EventService {
	return &EventService{base: newBase(tracer, logger), events: events, users: users}
}

func (s *EventService) List(ctx context.Context, q query.ListQuery) (domain.Evenements, int64, error) {
	ctx, span := s.start(ctx, "EventService.List")
	defer span.End()

	events, total, err := s.events.List(ctx, q)
	return events, total, fail(span, err)
}

func (s *EventService) Get(ctx context.Context, id primitive.ObjectID) (*domain.Evenement, error) {
	ctx, span := s.start(ctx, "EventService.Get")
	defer span.End()

	e, err := s.events.FindByID(ctx, id)
	return e, fail(span, err)
}

func (s *EventService) Create(ctx context.Context, actor *domain.User, e *domain.Evenement) (*domain.Evenement, error) {
	ctx, span := s.start(ctx, "EventService.Create")
	defer span.End()

	e.SetMeta(domain.Model{})
	e.Organisateur = actor.Id
	e.SetDefaults()
	if err := e.Validate(); err != nil {
		return nil, err
	}
	if err := s.events.Insert(ctx, e); err != nil {
		return nil, fail(span, err)
	}
	return e, nil
}

func (s *EventService) Update(ctx context.Context, actor *domain.User, id primitive.ObjectID, patch Patch[*domain.Evenement]) (*domain.Evenement, error) {
	ctx, span := s.start(ctx, "EventService.Update")
	defer span.End()

	e, err := s.events.FindByID(ctx, id)
	if err != nil {
		return nil, fail(span, err)
	}
	if err := authorizeOwner(actor, e.Organisateur); err != nil {
		return nil, err
	}
	organizer, participants := e.Organisateur, e.Participants
	if err := applyPatch(e, patch); err != nil {
		return nil, err
	}
	e.Organisateur, e.Participants = organizer, participants

	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, fail(span, s.events.Replace(ctx, e))
}

func (s *EventService) Delete(ctx context.Context, actor *domain.User, id primitive.ObjectID) error {
	ctx, span := s.start(ctx, "EventService.Delete")
	defer span.End()

	e, err := s.events.FindByID(ctx, id)
	if err != nil {
		return fail(span, err)
	}
	if err := authorizeOwner(actor, e.Organisateur); err != nil {
		return err
	}
	return fail(span, s.events.DeleteByID(ctx, id))
}

func (s *EventService) AddParticipant(ctx context.Context, actor *domain.User, id, userID primitive.ObjectID) error {
	ctx, span := s.start(ctx, "EventService.AddParticipant")
	defer span.End()

	e, err := s.events.FindByID(ctx, id)
	if err != nil {
		return fail(span, err)
	}
	if err := authorizeOwner(actor, e.Organisateur); err != nil {
		return err
	}
	if e.HasParticipant(userID) {
		return domain.NewConflictError("L'utilisateur participe déjà à l'événement")
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return fail(span, err)
	}
	return fail(span, s.events.AddParticipant(ctx, id, userID))
}

func (s *EventService) RemoveParticipant(ctx context.Context, actor *domain.User, id, userID primitive.ObjectID) error {
	ctx, span := s.start(ctx, "EventService.RemoveParticipant")
	defer span.End()

	e, err := s.events.FindByID(ctx, id)
	if err != nil {
		return fail(span, err)
	}
	if err := authorizeOwner(actor, e.Organisateur); err != nil {
		return err
	}
	if !e.HasParticipant(userID) {
		return domain.NewNotFoundError("Participant non trouvé")
	}
	return fail(span, s.events.RemoveParticipant(ctx, id, userID))
}

package services

import (
	"context"
	"fmt"

	"project-management-app/backend/domain"
	"project-management-app/backend/query"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/trace"
)

type DiscussionStore interface {
	store[*domain.Discussion]
	AddMember(ctx context.Context, discussionID, userID primitive.ObjectID) error
	RemoveMember(ctx context.Context, discussionID, userID primitive.ObjectID) error
	AddMessage(ctx context.Context, discussionID primitive.ObjectID, m domain.Message) error
	AddReply(ctx context.Context, discussionID, messageID primitive.ObjectID, reply domain.Reponse) error
}

type MessageInput struct {
	Contenu  string               `json:"contenu" validate:"required,max=5000"`
	Mentions []primitive.ObjectID `json:"mentions"`
}

type DiscussionService struct {
	base
	emitter
	discussions DiscussionStore
	users       UserLookup
}

func NewDiscussionService(discussions DiscussionStore, users UserLookup, notifier Notifier, tracer trace.Tracer, logger *logrus.Entry) *DiscussionService {
	return &DiscussionService{
		base:        newBase(tracer, logger),
		emitter:     emitter{notifier: notifier, log: logger},
		discussions: discussions,
		users:       users,
	}
}

// List shows admins every discussion and other users the ones they created
// or belong to.
func (s *DiscussionService) List(ctx context.Context, actor *domain.User, q query.ListQuery) (domain.Discussions, int64, error) {
	ctx, span := s.start(ctx, "DiscussionService.List")
	defer span.End()

	if !actor.IsAdmin() {
		q = q.WithScope(bson.E{Key: "$and", Value: bson.A{
			bson.D{{Key: "$or", Value: bson.A{
				bson.D{{Key: "createur", Value: actor.Id}},
				bson.D{{Key: "membres", Value: actor.Id}},
			}}},
		}})
	}
	discussions, total, err := s.discussions.List(ctx, q)
	return discussions, total, fail(span, err)
}

func (s *DiscussionService) Get(ctx context.Context, actor *domain.User, id primitive.ObjectID) (*domain.Discussion, error) {
	ctx, span := s.start(ctx, "DiscussionService.Get")
	defer span.End()

	d, err := s.discussions.FindByID(ctx, id)
	if err != nil {
		return nil, fail(span, err)
	}
	if !actor.IsAdmin() && !d.HasMember(actor.Id) {
		return nil, domain.ErrForbidden()
	}
	return d, nil
}

func (s *DiscussionService) Create(ctx context.Context, actor *domain.User, d *domain.Discussion) (*domain.Discussion, error) {
	ctx, span := s.start(ctx, "DiscussionService.Create")
	defer span.End()

	d.SetMeta(domain.Model{})
	d.Createur = actor.Id
	d.Messages = nil
	d.SetDefaults()
	if err := domain.Validate(d); err != nil {
		return nil, err
	}
	if err := s.discussions.Insert(ctx, d); err != nil {
		return nil, fail(span, err)
	}
	return d, nil
}

func (s *DiscussionService) Update(ctx context.Context, actor *domain.User, id primitive.ObjectID, patch Patch[*domain.Discussion]) (*domain.Discussion, error) {
	ctx, span := s.start(ctx, "DiscussionService.Update")
	defer span.End()

	d, err := s.discussions.FindByID(ctx, id)
	if err != nil {
		return nil, fail(span, err)
	}
	if err := authorizeOwner(actor, d.Createur); err != nil {
		return nil, err
	}
	creator, members, messages := d.Createur, d.Membres, d.Messages
	if err := applyPatch(d, patch); err != nil {
		return nil, err
	}
	d.Createur, d.Membres, d.Messages = creator, members, messages

	if err := domain.Validate(d); err != nil {
		return nil, err
	}
	return d, fail(span, s.discussions.Replace(ctx, d))
}

func (s *DiscussionService) Delete(ctx context.Context, actor *domain.User, id primitive.ObjectID) error {
	ctx, span := s.start(ctx, "DiscussionService.Delete")
	defer span.End()

	d, err := s.discussions.FindByID(ctx, id)
	if err != nil {
		return fail(span, err)
	}
	if err := authorizeOwner(actor, d.Createur); err != nil {
		return err
	}
	return fail(span, s.discussions.DeleteByID(ctx, id))
}

func (s *DiscussionService) AddMember(ctx context.Context, actor *domain.User, id, userID primitive.ObjectID) error {
	ctx, span := s.start(ctx, "DiscussionService.AddMember")
	defer span.End()

	d, err := s.discussions.FindByID(ctx, id)
	if err != nil {
		return fail(span, err)
	}
	if err := authorizeOwner(actor, d.Createur); err != nil {
		return err
	}
	if d.HasMember(userID) {
		return domain.NewConflictError("L'utilisateur est déjà membre de la discussion")
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return fail(span, err)
	}
	return fail(span, s.discussions.AddMember(ctx, id, userID))
}

func (s *DiscussionService) RemoveMember(ctx context.Context, actor *domain.User, id, userID primitive.ObjectID) error {
	ctx, span := s.start(ctx, "DiscussionService.RemoveMember")
	defer span.End()

	d, err := s.discussions.FindByID(ctx, id)
	if err != nil {
		return fail(span, err)
	}
	if err := authorizeOwner(actor, d.Createur); err != nil {
		return err
	}
	return fail(span, s.discussions.RemoveMember(ctx, id, userID))
}

// AddMessage posts to the discussion and notifies the mentioned members.
func (s *DiscussionService) AddMessage(ctx context.Context, actor *domain.User, id primitive.ObjectID, in MessageInput) (*domain.Message, error) {
	ctx, span := s.start(ctx, "DiscussionService.AddMessage")
	defer span.End()

	if err := domain.Validate(in); err != nil {
		return nil, err
	}
	d, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	m := domain.Message{
		Id:       primitive.NewObjectID(),
		Auteur:   actor.Id,
		Contenu:  in.Contenu,
		Date:     s.now(),
		Reponses: []domain.Reponse{},
	}
	if err := s.discussions.AddMessage(ctx, id, m); err != nil {
		return nil, fail(span, err)
	}

	for _, mentioned := range in.Mentions {
		if !d.HasMember(mentioned) {
			continue
		}
		s.notifyMention(ctx, actor, d, mentioned, fmt.Sprintf("%s vous a mentionné dans \"%s\"", actor.FullName(), d.Titre))
	}
	return &m, nil
}

// AddReply answers a message and notifies its author.
func (s *DiscussionService) AddReply(ctx context.Context, actor *domain.User, id, messageID primitive.ObjectID, in MessageInput) (*domain.Reponse, error) {
	ctx, span := s.start(ctx, "DiscussionService.AddReply")
	defer span.End()

	if err := domain.Validate(in); err != nil {
		return nil, err
	}
	d, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	msg, ok := d.FindMessage(messageID)
	if !ok {
		return nil, domain.NewNotFoundError("Message non trouvé")
	}
	r := domain.Reponse{
		Id:      primitive.NewObjectID(),
		Auteur:  actor.Id,
		Contenu: in.Contenu,
		Date:    s.now(),
	}
	if err := s.discussions.AddReply(ctx, id, messageID, r); err != nil {
		return nil, fail(span, err)
	}

	s.notifyMention(ctx, actor, d, msg.Auteur, fmt.Sprintf("%s a répondu à votre message dans \"%s\"", actor.FullName(), d.Titre))
	return &r, nil
}

func (s *DiscussionService) notifyMention(ctx context.Context, actor *domain.User, d *domain.Discussion, recipient primitive.ObjectID, message string) {
	n, err := domain.NewNotification(domain.NotificationParams{
		Destinataire: recipient,
		Type:         domain.NotificationMention,
		Reference:    d.Id,
		Titre:        fmt.Sprintf("Discussion - %s", d.Titre),
		Message:      message,
		Lien:         "/discussions/" + d.Id.Hex(),
	})
	s.emit(ctx, actor, n, err)
}

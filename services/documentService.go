package services

import (
	"context"
	"fmt"

	"project-management-app/backend/domain"
	"project-management-app/backend/query"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/trace"
)

type ReviewInput struct {
	Statut      domain.DocumentStatus `json:"statut" validate:"required,oneof=valide rejete"`
	Commentaire string                `json:"commentaire" validate:"max=2000"`
}

type DocumentService struct {
	base
	emitter
	documents store[*domain.Document]
}

func NewDocumentService(documents store[*domain.Document], notifier Notifier, tracer trace.Tracer, logger *logrus.Entry) *DocumentService {
	return &DocumentService{
		base:      newBase(tracer, logger),
		emitter:   emitter{notifier: notifier, log: logger},
		documents: documents,
	}
}

func (s *DocumentService) List(ctx context.Context, q query.ListQuery) (domain.Documents, int64, error) {
	ctx, span := s.start(ctx, "DocumentService.List")
	defer span.End()

	docs, total, err := s.documents.List(ctx, q)
	return docs, total, fail(span, err)
}

func (s *DocumentService) Get(ctx context.Context, id primitive.ObjectID) (*domain.Document, error) {
	ctx, span := s.start(ctx, "DocumentService.Get")
	defer span.End()

	d, err := s.documents.FindByID(ctx, id)
	return d, fail(span, err)
}

// Create records a submission by actor. New documents always await review.
func (s *DocumentService) Create(ctx context.Context, actor *domain.User, d *domain.Document) (*domain.Document, error) {
	ctx, span := s.start(ctx, "DocumentService.Create")
	defer span.End()

	d.SetMeta(domain.Model{})
	d.SoumisPar = actor.Id
	d.Statut = domain.DocumentEnAttente
	d.ValidePar, d.DateValidation = nil, nil
	if err := domain.Validate(d); err != nil {
		return nil, err
	}
	if err := s.documents.Insert(ctx, d); err != nil {
		return nil, fail(span, err)
	}
	return d, nil
}

func (s *DocumentService) Update(ctx context.Context, actor *domain.User, id primitive.ObjectID, patch Patch[*domain.Document]) (*domain.Document, error) {
	ctx, span := s.start(ctx, "DocumentService.Update")
	defer span.End()

	d, err := s.documents.FindByID(ctx, id)
	if err != nil {
		return nil, fail(span, err)
	}
	if err := authorizeOwner(actor, d.SoumisPar); err != nil {
		return nil, err
	}
	review := *d
	if err := applyPatch(d, patch); err != nil {
		return nil, err
	}
	// review fields only change through Review
	d.SoumisPar, d.Statut, d.ValidePar, d.DateValidation = review.SoumisPar, review.Statut, review.ValidePar, review.DateValidation
	d.Commentaire = review.Commentaire

	if err := domain.Validate(d); err != nil {
		return nil, err
	}
	return d, fail(span, s.documents.Replace(ctx, d))
}

func (s *DocumentService) Delete(ctx context.Context, actor *domain.User, id primitive.ObjectID) error {
	ctx, span := s.start(ctx, "DocumentService.Delete")
	defer span.End()

	d, err := s.documents.FindByID(ctx, id)
	if err != nil {
		return fail(span, err)
	}
	if err := authorizeOwner(actor, d.SoumisPar); err != nil {
		return err
	}
	return fail(span, s.documents.DeleteByID(ctx, id))
}

// Review validates or rejects a document and notifies the submitter.
func (s *DocumentService) Review(ctx context.Context, actor *domain.User, id primitive.ObjectID, in ReviewInput) (*domain.Document, error) {
	ctx, span := s.start(ctx, "DocumentService.Review")
	defer span.End()

	if err := domain.Validate(in); err != nil {
		return nil, err
	}
	d, err := s.documents.FindByID(ctx, id)
	if err != nil {
		return nil, fail(span, err)
	}
	if err := d.Review(actor.Id, in.Statut, in.Commentaire, s.now()); err != nil {
		return nil, err
	}
	if err := s.documents.Replace(ctx, d); err != nil {
		return nil, fail(span, err)
	}

	verdict := "validé"
	if d.Statut == domain.DocumentRejete {
		verdict = "rejeté"
	}
	n, err := domain.NewNotification(domain.NotificationParams{
		Destinataire: d.SoumisPar,
		Type:         domain.NotificationValidation,
		Reference:    d.Id,
		Titre:        fmt.Sprintf("Document %s - %s", verdict, d.Titre),
		Message:      fmt.Sprintf("Votre document \"%s\" a été %s", d.Titre, verdict),
		Lien:         "/documents/" + d.Id.Hex(),
	})
	s.emit(ctx, actor, n, err)
	return d, nil
}

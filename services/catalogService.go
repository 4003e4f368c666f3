package services

import (
	"context"

	"project-management-app/backend/domain"
	"project-management-app/backend/query"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/trace"
)

// CatalogService serves the reference collections (services, postes,
// positions, task types): plain CRUD with tag validation, writes reserved to
// admins at the route level.
type CatalogService[PT domain.Entity] struct {
	base
	docs store[PT]
	name string
}

func NewCatalogService[PT domain.Entity](docs store[PT], name string, tracer trace.Tracer, logger *logrus.Entry) *CatalogService[PT] {
	return &CatalogService[PT]{base: newBase(tracer, logger), docs: docs, name: name}
}

func (s *CatalogService[PT]) List(ctx context.Context, q query.ListQuery) ([]PT, int64, error) {
	ctx, span := s.start(ctx, s.name+".List")
	defer span.End()

	docs, total, err := s.docs.List(ctx, q)
	return docs, total, fail(span, err)
}

func (s *CatalogService[PT]) Get(ctx context.Context, id primitive.ObjectID) (PT, error) {
	ctx, span := s.start(ctx, s.name+".Get")
	defer span.End()

	doc, err := s.docs.FindByID(ctx, id)
	return doc, fail(span, err)
}

func (s *CatalogService[PT]) Create(ctx context.Context, doc PT) (PT, error) {
	ctx, span := s.start(ctx, s.name+".Create")
	defer span.End()

	doc.SetMeta(domain.Model{})
	if err := domain.Validate(doc); err != nil {
		return doc, err
	}
	if err := s.docs.Insert(ctx, doc); err != nil {
		return doc, fail(span, err)
	}
	return doc, nil
}

func (s *CatalogService[PT]) Update(ctx context.Context, id primitive.ObjectID, patch Patch[PT]) (PT, error) {
	ctx, span := s.start(ctx, s.name+".Update")
	defer span.End()

	doc, err := s.docs.FindByID(ctx, id)
	if err != nil {
		return doc, fail(span, err)
	}
	if err := applyPatch(doc, patch); err != nil {
		return doc, err
	}
	if err := domain.Validate(doc); err != nil {
		return doc, err
	}
	return doc, fail(span, s.docs.Replace(ctx, doc))
}

func (s *CatalogService[PT]) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, span := s.start(ctx, s.name+".Delete")
	defer span.End()

	return fail(span, s.docs.DeleteByID(ctx, id))
}

package repositories

import (
	"context"

	"project-management-app/backend/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Lookup loads the document a reference points at.
type Lookup func(ctx context.Context, id primitive.ObjectID) (interface{}, error)

// ReferenceResolver dispatches a notification reference to the collection
// its kind names.
type ReferenceResolver struct {
	lookups map[domain.ReferenceKind]Lookup
}

func NewReferenceResolver(tasks *TaskRepo, projects *ProjectRepo, documents *DocumentRepo, discussions *DiscussionRepo) *ReferenceResolver {
	return NewReferenceResolverFrom(map[domain.ReferenceKind]Lookup{
		domain.ReferenceTask:       lookupOf(tasks.FindByID),
		domain.ReferenceProject:    lookupOf(projects.FindByID),
		domain.ReferenceDocument:   lookupOf(documents.FindByID),
		domain.ReferenceDiscussion: lookupOf(discussions.FindByID),
	})
}

func NewReferenceResolverFrom(lookups map[domain.ReferenceKind]Lookup) *ReferenceResolver {
	return &ReferenceResolver{lookups: lookups}
}

// Resolve returns the referenced document. References of kind none, such
// as system notifications, resolve to NotFound.
func (r *ReferenceResolver) Resolve(ctx context.Context, ref domain.Reference) (interface{}, error) {
	lookup, ok := r.lookups[ref.Kind]
	if !ok {
		return nil, domain.NewNotFoundError("Référence non résolue")
	}
	return lookup(ctx, ref.ID)
}

func lookupOf[PT any](find func(context.Context, primitive.ObjectID) (PT, error)) Lookup {
	return func(ctx context.Context, id primitive.ObjectID) (interface{}, error) {
		doc, err := find(ctx, id)
		if err != nil {
			return nil, err
		}
		return doc, nil
	}
}

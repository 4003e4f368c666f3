package repositories

import (
	"context"

	"project-management-app/backend/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProjectRepo struct {
	collection[domain.Projet, *domain.Projet]
}

func NewProjectRepo(s *Store) *ProjectRepo {
	return &ProjectRepo{newCollection[domain.Projet](s, CollectionProjets, "ProjectRepo", "Projet non trouvé")}
}

func (r *ProjectRepo) AddMember(ctx context.Context, projectID, userID primitive.ObjectID) error {
	return r.UpdateByID(ctx, projectID, bson.M{"$addToSet": bson.M{"membres": userID}})
}

func (r *ProjectRepo) RemoveMember(ctx context.Context, projectID, userID primitive.ObjectID) error {
	return r.UpdateByID(ctx, projectID, bson.M{"$pull": bson.M{"membres": userID}})
}

package repositories

import (
	"context"

	"project-management-app/backend/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskRepo struct {
	collection[domain.Tache, *domain.Tache]
}

func NewTaskRepo(s *Store) *TaskRepo {
	return &TaskRepo{newCollection[domain.Tache](s, CollectionTaches, "TaskRepo", "Tâche non trouvée")}
}

func (r *TaskRepo) AddComment(ctx context.Context, taskID primitive.ObjectID, c domain.Commentaire) error {
	return r.UpdateByID(ctx, taskID, bson.M{"$push": bson.M{"commentaires": c}})
}

func (r *TaskRepo) RemoveComment(ctx context.Context, taskID, commentID primitive.ObjectID) error {
	return r.UpdateByID(ctx, taskID, bson.M{"$pull": bson.M{"commentaires": bson.M{"_id": commentID}}})
}

func (r *TaskRepo) UpdateStatus(ctx context.Context, taskID primitive.ObjectID, status domain.TaskStatus) error {
	return r.UpdateByID(ctx, taskID, bson.M{"$set": bson.M{"statut": status}})
}

// DeleteByProject removes every task of a project and reports how many went.
func (r *TaskRepo) DeleteByProject(ctx context.Context, projectID primitive.ObjectID) (int64, error) {
	return r.DeleteMany(ctx, bson.M{"projet": projectID})
}

package repositories

import (
	"context"
	"strings"

	"project-management-app/backend/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRepo struct {
	collection[domain.User, *domain.User]
}

func NewUserRepo(s *Store) *UserRepo {
	return &UserRepo{newCollection[domain.User](s, CollectionUsers, "UserRepo", "Utilisateur non trouvé")}
}

// GetByEmail looks a user up by its lower-cased email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.FindOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))})
}

func (r *UserRepo) UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	return r.UpdateByID(ctx, id, bson.M{"$set": bson.M{"password": hash}})
}

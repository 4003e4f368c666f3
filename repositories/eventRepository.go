package repositories

import (
	"context"

	"project-management-app/backend/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EventRepo struct {
	collection[domain.Evenement, *domain.Evenement]
}

func NewEventRepo(s *Store) *EventRepo {
	return &EventRepo{newCollection[domain.Evenement](s, CollectionEvenements, "EventRepo", "Événement non trouvé")}
}

func (r *EventRepo) AddParticipant(ctx context.Context, eventID, userID primitive.ObjectID) error {
	return r.UpdateByID(ctx, eventID, bson.M{"$addToSet": bson.M{"participants": userID}})
}

func (r *EventRepo) RemoveParticipant(ctx context.Context, eventID, userID primitive.ObjectID) error {
	return r.UpdateByID(ctx, eventID, bson.M{"$pull": bson.M{"participants": userID}})
}

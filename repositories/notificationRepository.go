package repositories

import (
	"context"
	"time"

	"project-management-app/backend/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationRepo persists notifications. Insert and Replace go through
// Notification.BeforeSave, which applies the lazy archive deactivation
// against the updatedAt loaded from the store.
type NotificationRepo struct {
	collection[domain.Notification, *domain.Notification]
}

func NewNotificationRepo(s *Store) *NotificationRepo {
	return &NotificationRepo{newCollection[domain.Notification](s, CollectionNotifications, "NotificationRepo", "Notification non trouvée")}
}

// FindForRecipient only returns the notification when it belongs to recipient.
func (r *NotificationRepo) FindForRecipient(ctx context.Context, id, recipient primitive.ObjectID) (*domain.Notification, error) {
	return r.FindOne(ctx, bson.M{"_id": id, "destinataire": recipient})
}

func (r *NotificationRepo) CountUnread(ctx context.Context, recipient primitive.ObjectID) (int64, error) {
	return r.Count(ctx, bson.M{
		"destinataire": recipient,
		"statut":       domain.StatusNonLu,
		"isActive":     true,
	})
}

// MarkAllRead flips every unread notification of recipient to read.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, recipient primitive.ObjectID, now time.Time) (int64, error) {
	return r.UpdateMany(ctx,
		bson.M{"destinataire": recipient, "statut": domain.StatusNonLu},
		bson.M{"$set": bson.M{"statut": domain.StatusLu, "dateLecture": now}},
	)
}

// DeactivateExpired is the bulk form of domain.ShouldDeactivate.
func (r *NotificationRepo) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	return r.UpdateMany(ctx,
		bson.M{
			"statut":    domain.StatusArchive,
			"isActive":  true,
			"updatedAt": bson.M{"$lt": now.Add(-domain.ArchiveRetention)},
		},
		bson.M{"$set": bson.M{"isActive": false}},
	)
}

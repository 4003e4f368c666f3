package repositories

import (
	"context"

	"project-management-app/backend/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DiscussionRepo struct {
	collection[domain.Discussion, *domain.Discussion]
}

func NewDiscussionRepo(s *Store) *DiscussionRepo {
	return &DiscussionRepo{newCollection[domain.Discussion](s, CollectionDiscussions, "DiscussionRepo", "Discussion non trouvée")}
}

func (r *DiscussionRepo) AddMember(ctx context.Context, discussionID, userID primitive.ObjectID) error {
	return r.UpdateByID(ctx, discussionID, bson.M{"$addToSet": bson.M{"membres": userID}})
}

func (r *DiscussionRepo) RemoveMember(ctx context.Context, discussionID, userID primitive.ObjectID) error {
	return r.UpdateByID(ctx, discussionID, bson.M{"$pull": bson.M{"membres": userID}})
}

func (r *DiscussionRepo) AddMessage(ctx context.Context, discussionID primitive.ObjectID, m domain.Message) error {
	if m.Reponses == nil {
		m.Reponses = []domain.Reponse{}
	}
	return r.UpdateByID(ctx, discussionID, bson.M{"$push": bson.M{"messages": m}})
}

// AddReply pushes into the replies of one message. A missing message
// matches nothing and reports the discussion as not found.
func (r *DiscussionRepo) AddReply(ctx context.Context, discussionID, messageID primitive.ObjectID, reply domain.Reponse) error {
	return r.Update(ctx,
		bson.M{"_id": discussionID, "messages._id": messageID},
		bson.M{"$push": bson.M{"messages.$.reponses": reply}},
	)
}

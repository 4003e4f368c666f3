package services

import (
	"context"
	"testing"

	"project-management-app/backend/domain"
	"project-management-app/backend/query"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type discussionFixture struct {
	svc         *DiscussionService
	discussions *memDiscussions
	sent        *recordingNotifier
	creator     *domain.User
	member      *domain.User
	discussion  *domain.Discussion
}

func newDiscussionFixture() discussionFixture {
	discussions, users, sent := newMemDiscussions(), newMemUsers(), &recordingNotifier{}
	creator := users.seed(newUser(domain.RESPONSABLE))
	member := users.seed(newUser(domain.EMPLOYE))
	d := discussions.seed(&domain.Discussion{Titre: "Sprint 4", Createur: creator.Id, Membres: []primitive.ObjectID{member.Id}})

	svc := NewDiscussionService(discussions, users, sent, testTracer(), testLogger())
	svc.SetClock(clock)
	return discussionFixture{svc: svc, discussions: discussions, sent: sent, creator: creator, member: member, discussion: d}
}

func TestDiscussionService_ListScopedToMembers(t *testing.T) {
	f := newDiscussionFixture()

	_, _, err := f.svc.List(context.Background(), f.member, query.ListQuery{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, f.discussions.lastQuery.Scope, 1)
	assert.Equal(t, "$and", f.discussions.lastQuery.Scope[0].Key)

	_, _, err = f.svc.List(context.Background(), newUser(domain.ADMIN), query.ListQuery{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, f.discussions.lastQuery.Scope)
}

func TestDiscussionService_GetRefusesOutsiders(t *testing.T) {
	f := newDiscussionFixture()

	_, err := f.svc.Get(context.Background(), newUser(domain.EMPLOYE), f.discussion.Id)
	assert.Equal(t, domain.KindAuthorization, domain.KindOf(err))

	_, err = f.svc.Get(context.Background(), f.member, f.discussion.Id)
	assert.NoError(t, err)
}

func TestDiscussionService_MessageMentionsAndReplies(t *testing.T) {
	f := newDiscussionFixture()
	outsider := primitive.NewObjectID()

	msg, err := f.svc.AddMessage(context.Background(), f.creator, f.discussion.Id, MessageInput{
		Contenu:  "@Awa peux-tu relire ?",
		Mentions: []primitive.ObjectID{f.member.Id, outsider},
	})
	require.NoError(t, err)
	require.Len(t, f.sent.sent, 1, "only members are notified")
	assert.Equal(t, domain.NotificationMention, f.sent.sent[0].Type)
	assert.Equal(t, f.member.Id, f.sent.sent[0].Destinataire)

	reply, err := f.svc.AddReply(context.Background(), f.member, f.discussion.Id, msg.Id, MessageInput{Contenu: "Oui"})
	require.NoError(t, err)
	assert.Equal(t, f.member.Id, reply.Auteur)
	require.Len(t, f.sent.sent, 2)
	assert.Equal(t, f.creator.Id, f.sent.sent[1].Destinataire)

	stored, _ := f.discussions.get(f.discussion.Id)
	require.Len(t, stored.Messages, 1)
	assert.Len(t, stored.Messages[0].Reponses, 1)

	_, err = f.svc.AddReply(context.Background(), f.member, f.discussion.Id, primitive.NewObjectID(), MessageInput{Contenu: "?"})
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestDiscussionService_MembersManagedByCreator(t *testing.T) {
	f := newDiscussionFixture()

	err := f.svc.AddMember(context.Background(), f.member, f.discussion.Id, primitive.NewObjectID())
	assert.Equal(t, domain.KindAuthorization, domain.KindOf(err))

	err = f.svc.AddMember(context.Background(), f.creator, f.discussion.Id, f.member.Id)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
}

package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

// ReferenceKind names the collection a notification reference points into.
type ReferenceKind int

const (
	ReferenceNone ReferenceKind = iota
	ReferenceTask
	ReferenceProject
	ReferenceDocument
	ReferenceDiscussion
)

func (k ReferenceKind) String() string {
	return [...]string{"none", "tache", "projet", "document", "discussion"}[k]
}

type Reference struct {
	Kind ReferenceKind      `json:"kind"`
	ID   primitive.ObjectID `json:"id"`
}

// ReferenceKindFor maps a notification type to the kind of entity its
// reference resolves against.
func ReferenceKindFor(t NotificationType) ReferenceKind {
	switch t {
	case NotificationTache, NotificationCommentaire, NotificationDeadline:
		return ReferenceTask
	case NotificationProjet:
		return ReferenceProject
	case NotificationDocument, NotificationValidation:
		return ReferenceDocument
	case NotificationMention:
		return ReferenceDiscussion
	default:
		return ReferenceNone
	}
}

func (k ReferenceKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

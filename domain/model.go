package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Model holds the identifier and timestamps every persisted document carries.
type Model struct {
	Id        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (m *Model) GetID() primitive.ObjectID { return m.Id }

func (m *Model) SetID(id primitive.ObjectID) { m.Id = id }

// Touch stamps a write: createdAt once, updatedAt every time.
func (m *Model) Touch(now time.Time) {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
}

// Meta and SetMeta let updates decode a request body onto a stored
// document and then restore its identity and timestamps.
func (m *Model) Meta() Model { return *m }

func (m *Model) SetMeta(meta Model) { *m = meta }

// Entity is implemented by every persisted type through Model.
type Entity interface {
	GetID() primitive.ObjectID
	SetID(primitive.ObjectID)
	Touch(time.Time)
	Meta() Model
	SetMeta(Model)
}

package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Reponse struct {
	Id      primitive.ObjectID `bson:"_id" json:"_id"`
	Auteur  primitive.ObjectID `bson:"auteur" json:"auteur"`
	Contenu string             `bson:"contenu" json:"contenu" validate:"required,max=5000"`
	Date    time.Time          `bson:"date" json:"date"`
}

type Message struct {
	Id       primitive.ObjectID `bson:"_id" json:"_id"`
	Auteur   primitive.ObjectID `bson:"auteur" json:"auteur"`
	Contenu  string             `bson:"contenu" json:"contenu" validate:"required,max=5000"`
	Date     time.Time          `bson:"date" json:"date"`
	Reponses []Reponse          `bson:"reponses" json:"reponses"`
}

type Discussion struct {
	Model `bson:",inline"`

	Titre       string               `bson:"titre" json:"titre" validate:"required,max=200"`
	Description string               `bson:"description,omitempty" json:"description,omitempty"`
	Createur    primitive.ObjectID   `bson:"createur" json:"createur" validate:"required"`
	Membres     []primitive.ObjectID `bson:"membres" json:"membres"`
	Projet      *primitive.ObjectID  `bson:"projet,omitempty" json:"projet,omitempty"`
	Messages    []Message            `bson:"messages" json:"messages"`
}

type Discussions []*Discussion

func (d *Discussion) IsOwner(userID primitive.ObjectID) bool {
	return d.Createur == userID
}

func (d *Discussion) HasMember(userID primitive.ObjectID) bool {
	return d.Createur == userID || containsID(d.Membres, userID)
}

func (d *Discussion) FindMessage(id primitive.ObjectID) (*Message, bool) {
	for i := range d.Messages {
		if d.Messages[i].Id == id {
			return &d.Messages[i], true
		}
	}
	return nil, false
}

func (d *Discussion) SetDefaults() {
	if d.Membres == nil {
		d.Membres = []primitive.ObjectID{}
	}
	if d.Messages == nil {
		d.Messages = []Message{}
	}
}

package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EventType string

const (
	EvenementReunion   EventType = "reunion"
	EvenementFormation EventType = "formation"
	EvenementAtelier   EventType = "atelier"
	EvenementAutre     EventType = "autre"
)

type Evenement struct {
	Model `bson:",inline"`

	Titre        string               `bson:"titre" json:"titre" validate:"required,max=200"`
	Description  string               `bson:"description,omitempty" json:"description,omitempty"`
	DateDebut    time.Time            `bson:"dateDebut" json:"dateDebut" validate:"required"`
	DateFin      time.Time            `bson:"dateFin" json:"dateFin" validate:"required"`
	Lieu         string               `bson:"lieu,omitempty" json:"lieu,omitempty"`
	Type         EventType            `bson:"type" json:"type" validate:"oneof=reunion formation atelier autre"`
	Organisateur primitive.ObjectID   `bson:"organisateur" json:"organisateur" validate:"required"`
	Participants []primitive.ObjectID `bson:"participants" json:"participants"`
	Projet       *primitive.ObjectID  `bson:"projet,omitempty" json:"projet,omitempty"`
}

type Evenements []*Evenement

func (e *Evenement) IsOwner(userID primitive.ObjectID) bool {
	return e.Organisateur == userID
}

func (e *Evenement) HasParticipant(userID primitive.ObjectID) bool {
	return containsID(e.Participants, userID)
}

func (e *Evenement) SetDefaults() {
	if e.Type == "" {
		e.Type = EvenementAutre
	}
	if e.Participants == nil {
		e.Participants = []primitive.ObjectID{}
	}
}

func (e *Evenement) Validate() error {
	if err := Validate(e); err != nil {
		return err
	}
	if e.DateFin.Before(e.DateDebut) {
		return NewValidationError("Données invalides", map[string]string{"dateFin": "La date de fin doit suivre la date de début"})
	}
	return nil
}

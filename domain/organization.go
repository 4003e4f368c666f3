package domain

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Service is a department of the organization.
type Service struct {
	Model `bson:",inline"`

	Nom         string              `bson:"nom" json:"nom" validate:"required,max=100"`
	Description string              `bson:"description,omitempty" json:"description,omitempty"`
	Responsable *primitive.ObjectID `bson:"responsable,omitempty" json:"responsable,omitempty"`
	IsActive    bool                `bson:"isActive" json:"isActive"`
}

type Poste struct {
	Model `bson:",inline"`

	Titre       string              `bson:"titre" json:"titre" validate:"required,max=100"`
	Description string              `bson:"description,omitempty" json:"description,omitempty"`
	Service     *primitive.ObjectID `bson:"service,omitempty" json:"service,omitempty"`
}

type Position struct {
	Model `bson:",inline"`

	Nom         string `bson:"nom" json:"nom" validate:"required,max=100"`
	Niveau      int    `bson:"niveau" json:"niveau" validate:"gte=0"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
}

type TypeTache struct {
	Model `bson:",inline"`

	Nom         string `bson:"nom" json:"nom" validate:"required,max=100"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	Couleur     string `bson:"couleur,omitempty" json:"couleur,omitempty" validate:"omitempty,hexcolor"`
}

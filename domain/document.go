package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DocumentStatus string

const (
	DocumentEnAttente DocumentStatus = "en_attente"
	DocumentValide    DocumentStatus = "valide"
	DocumentRejete    DocumentStatus = "rejete"
)

// Document is a proof record attached to a task or a project.
type Document struct {
	Model `bson:",inline"`

	Titre          string              `bson:"titre" json:"titre" validate:"required,max=200"`
	Description    string              `bson:"description,omitempty" json:"description,omitempty"`
	Fichier        string              `bson:"fichier,omitempty" json:"fichier,omitempty"`
	Tache          *primitive.ObjectID `bson:"tache,omitempty" json:"tache,omitempty"`
	Projet         *primitive.ObjectID `bson:"projet,omitempty" json:"projet,omitempty"`
	SoumisPar      primitive.ObjectID  `bson:"soumisPar" json:"soumisPar" validate:"required"`
	Statut         DocumentStatus      `bson:"statut" json:"statut" validate:"oneof=en_attente valide rejete"`
	ValidePar      *primitive.ObjectID `bson:"validePar,omitempty" json:"validePar,omitempty"`
	DateValidation *time.Time          `bson:"dateValidation,omitempty" json:"dateValidation,omitempty"`
	Commentaire    string              `bson:"commentaire,omitempty" json:"commentaire,omitempty"`
}

type Documents []*Document

func (d *Document) IsOwner(userID primitive.ObjectID) bool {
	return d.SoumisPar == userID
}

func (d *Document) SetDefaults() {
	if d.Statut == "" {
		d.Statut = DocumentEnAttente
	}
}

// Review records a validation decision on the document.
func (d *Document) Review(reviewer primitive.ObjectID, status DocumentStatus, comment string, now time.Time) error {
	if status != DocumentValide && status != DocumentRejete {
		return NewValidationError("Données invalides", map[string]string{"statut": "Valeur invalide, attendu: valide rejete"})
	}
	d.Statut = status
	d.ValidePar = &reviewer
	d.DateValidation = &now
	d.Commentaire = comment
	return nil
}

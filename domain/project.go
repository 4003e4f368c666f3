package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProjectStatus string

const (
	ProjetPlanifie ProjectStatus = "planifie"
	ProjetEnCours  ProjectStatus = "en_cours"
	ProjetTermine  ProjectStatus = "termine"
	ProjetSuspendu ProjectStatus = "suspendu"
)

type Projet struct {
	Model `bson:",inline"`

	Titre       string               `bson:"titre" json:"titre" validate:"required,max=200"`
	Description string               `bson:"description,omitempty" json:"description,omitempty"`
	DateDebut   time.Time            `bson:"dateDebut" json:"dateDebut"`
	DateFin     *time.Time           `bson:"dateFin,omitempty" json:"dateFin,omitempty"`
	Statut      ProjectStatus        `bson:"statut" json:"statut" validate:"oneof=planifie en_cours termine suspendu"`
	Priorite    Priority             `bson:"priorite" json:"priorite" validate:"oneof=basse normale haute urgente"`
	Responsable primitive.ObjectID   `bson:"responsable" json:"responsable" validate:"required"`
	Membres     []primitive.ObjectID `bson:"membres" json:"membres"`
	Service     *primitive.ObjectID  `bson:"service,omitempty" json:"service,omitempty"`
	Progression int                  `bson:"progression" json:"progression" validate:"gte=0,lte=100"`
}

type Projets []*Projet

func (p *Projet) IsOwner(userID primitive.ObjectID) bool {
	return p.Responsable == userID
}

func (p *Projet) HasMember(userID primitive.ObjectID) bool {
	return containsID(p.Membres, userID)
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

// SetDefaults fills the status and priority of a new project.
func (p *Projet) SetDefaults() {
	if p.Statut == "" {
		p.Statut = ProjetPlanifie
	}
	if p.Priorite == "" {
		p.Priorite = PrioriteNormale
	}
	if p.Membres == nil {
		p.Membres = []primitive.ObjectID{}
	}
}

func (p *Projet) Validate() error {
	if err := Validate(p); err != nil {
		return err
	}
	if p.DateFin != nil && p.DateFin.Before(p.DateDebut) {
		return NewValidationError("Données invalides", map[string]string{"dateFin": "La date de fin doit suivre la date de début"})
	}
	return nil
}

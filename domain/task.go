package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskStatus string

const (
	TacheAFaire   TaskStatus = "a_faire"
	TacheEnCours  TaskStatus = "en_cours"
	TacheEnRevue  TaskStatus = "en_revue"
	TacheTerminee TaskStatus = "terminee"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TacheAFaire, TacheEnCours, TacheEnRevue, TacheTerminee:
		return true
	}
	return false
}

type Commentaire struct {
	Id      primitive.ObjectID `bson:"_id" json:"_id"`
	Auteur  primitive.ObjectID `bson:"auteur" json:"auteur"`
	Contenu string             `bson:"contenu" json:"contenu" validate:"required,max=2000"`
	Date    time.Time          `bson:"date" json:"date"`
}

type Tache struct {
	Model `bson:",inline"`

	Titre        string              `bson:"titre" json:"titre" validate:"required,max=200"`
	Description  string              `bson:"description,omitempty" json:"description,omitempty"`
	Projet       primitive.ObjectID  `bson:"projet" json:"projet" validate:"required"`
	AssigneA     *primitive.ObjectID `bson:"assigneA,omitempty" json:"assigneA,omitempty"`
	CreePar      primitive.ObjectID  `bson:"creePar" json:"creePar" validate:"required"`
	Statut       TaskStatus          `bson:"statut" json:"statut" validate:"oneof=a_faire en_cours en_revue terminee"`
	Priorite     Priority            `bson:"priorite" json:"priorite" validate:"oneof=basse normale haute urgente"`
	DateEcheance *time.Time          `bson:"dateEcheance,omitempty" json:"dateEcheance,omitempty"`
	TypeTache    *primitive.ObjectID `bson:"typeTache,omitempty" json:"typeTache,omitempty"`
	Commentaires []Commentaire       `bson:"commentaires" json:"commentaires"`
}

type Taches []*Tache

func (t *Tache) IsAssignedTo(userID primitive.ObjectID) bool {
	return t.AssigneA != nil && *t.AssigneA == userID
}

func (t *Tache) FindComment(id primitive.ObjectID) (*Commentaire, bool) {
	for i := range t.Commentaires {
		if t.Commentaires[i].Id == id {
			return &t.Commentaires[i], true
		}
	}
	return nil, false
}

func (t *Tache) SetDefaults() {
	if t.Statut == "" {
		t.Statut = TacheAFaire
	}
	if t.Priorite == "" {
		t.Priorite = PrioriteNormale
	}
	if t.Commentaires == nil {
		t.Commentaires = []Commentaire{}
	}
}

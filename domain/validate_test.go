package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestValidate_FieldsUseJSONNames(t *testing.T) {
	err := Validate(&Projet{Statut: "ouvert", Priorite: PrioriteNormale, Progression: 120})
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))

	fields := FieldsOf(err)
	assert.Contains(t, fields, "titre")
	assert.Contains(t, fields, "responsable")
	assert.Contains(t, fields, "statut")
	assert.Contains(t, fields, "progression")
}

func TestProjet_DefaultsAndDates(t *testing.T) {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(-24 * time.Hour)
	p := &Projet{Titre: "Refonte", Responsable: primitive.NewObjectID(), DateDebut: start, DateFin: &end}
	p.SetDefaults()

	assert.Equal(t, ProjetPlanifie, p.Statut)
	assert.Equal(t, PrioriteNormale, p.Priorite)

	err := p.Validate()
	require.Error(t, err)
	assert.Contains(t, FieldsOf(err), "dateFin")

	later := start.Add(48 * time.Hour)
	p.DateFin = &later
	assert.NoError(t, p.Validate())
}

func TestDocument_Review(t *testing.T) {
	d := &Document{Titre: "PV", SoumisPar: primitive.NewObjectID()}
	d.SetDefaults()
	assert.Equal(t, DocumentEnAttente, d.Statut)

	reviewer := primitive.NewObjectID()
	now := time.Now()
	require.NoError(t, d.Review(reviewer, DocumentRejete, "illisible", now))
	assert.Equal(t, DocumentRejete, d.Statut)
	assert.Equal(t, reviewer, *d.ValidePar)
	assert.Equal(t, "illisible", d.Commentaire)

	assert.Error(t, d.Review(reviewer, DocumentEnAttente, "", now))
}

func TestModel_MetaRoundTrip(t *testing.T) {
	var s Service
	s.Touch(time.Now())
	s.SetID(primitive.NewObjectID())
	meta := s.Meta()

	s.SetMeta(Model{})
	assert.True(t, s.GetID().IsZero())

	s.SetMeta(meta)
	assert.Equal(t, meta.Id, s.GetID())
}

package services

import (
	"context"
	"testing"

	"project-management-app/backend/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentService_ReviewNotifiesSubmitter(t *testing.T) {
	store, sent := newMemStore[domain.Document]("Document non trouvé"), &recordingNotifier{}
	s := NewDocumentService(store, sent, testTracer(), testLogger())
	s.SetClock(clock)

	submitter := newUser(domain.EMPLOYE)
	doc, err := s.Create(context.Background(), submitter, &domain.Document{Titre: "Rapport", Statut: domain.DocumentValide})
	require.NoError(t, err)
	assert.Equal(t, domain.DocumentEnAttente, doc.Statut, "submissions always await review")

	reviewer := newUser(domain.RESPONSABLE)
	got, err := s.Review(context.Background(), reviewer, doc.Id, ReviewInput{Statut: domain.DocumentValide})
	require.NoError(t, err)
	assert.Equal(t, domain.DocumentValide, got.Statut)
	assert.Equal(t, reviewer.Id, *got.ValidePar)
	assert.Equal(t, testNow, *got.DateValidation)

	require.Len(t, sent.sent, 1)
	n := sent.sent[0]
	assert.Equal(t, submitter.Id, n.Destinataire)
	assert.Equal(t, domain.NotificationValidation, n.Type)
	assert.Equal(t, domain.ReferenceDocument, n.Target().Kind)
}

func TestDocumentService_UpdateCannotSelfValidate(t *testing.T) {
	store := newMemStore[domain.Document]("Document non trouvé")
	s := NewDocumentService(store, nil, testTracer(), testLogger())
	submitter := newUser(domain.EMPLOYE)
	doc, err := s.Create(context.Background(), submitter, &domain.Document{Titre: "Rapport"})
	require.NoError(t, err)

	got, err := s.Update(context.Background(), submitter, doc.Id, func(d *domain.Document) error {
		d.Statut = domain.DocumentValide
		d.Titre = "Rapport final"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DocumentEnAttente, got.Statut)
	assert.Equal(t, "Rapport final", got.Titre)

	_, err = s.Update(context.Background(), newUser(domain.EMPLOYE), doc.Id, func(*domain.Document) error { return nil })
	assert.Equal(t, domain.KindAuthorization, domain.KindOf(err))
}

func TestDocumentService_UpdateKeepsReviewComment(t *testing.T) {
	store := newMemStore[domain.Document]("Document non trouvé")
	s := NewDocumentService(store, &recordingNotifier{}, testTracer(), testLogger())
	s.SetClock(clock)
	submitter := newUser(domain.EMPLOYE)
	doc, err := s.Create(context.Background(), submitter, &domain.Document{Titre: "Rapport"})
	require.NoError(t, err)

	_, err = s.Review(context.Background(), newUser(domain.RESPONSABLE), doc.Id, ReviewInput{Statut: domain.DocumentRejete, Commentaire: "Pièce manquante"})
	require.NoError(t, err)

	got, err := s.Update(context.Background(), submitter, doc.Id, func(d *domain.Document) error {
		d.Commentaire = "Approuvé par la direction"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DocumentRejete, got.Statut)
	assert.Equal(t, "Pièce manquante", got.Commentaire)

	stored, _ := store.get(doc.Id)
	assert.Equal(t, "Pièce manquante", stored.Commentaire)
}

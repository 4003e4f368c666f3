package repositories

import "project-management-app/backend/domain"

type DocumentRepo struct {
	collection[domain.Document, *domain.Document]
}

func NewDocumentRepo(s *Store) *DocumentRepo {
	return &DocumentRepo{newCollection[domain.Document](s, CollectionDocuments, "DocumentRepo", "Document non trouvé")}
}

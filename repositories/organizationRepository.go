package repositories

import "project-management-app/backend/domain"

type ServiceRepo struct {
	collection[domain.Service, *domain.Service]
}

func NewServiceRepo(s *Store) *ServiceRepo {
	return &ServiceRepo{newCollection[domain.Service](s, CollectionServices, "ServiceRepo", "Service non trouvé")}
}

type PosteRepo struct {
	collection[domain.Poste, *domain.Poste]
}

func NewPosteRepo(s *Store) *PosteRepo {
	return &PosteRepo{newCollection[domain.Poste](s, CollectionPostes, "PosteRepo", "Poste non trouvé")}
}

type PositionRepo struct {
	collection[domain.Position, *domain.Position]
}

func NewPositionRepo(s *Store) *PositionRepo {
	return &PositionRepo{newCollection[domain.Position](s, CollectionPositions, "PositionRepo", "Position non trouvée")}
}

type TypeTacheRepo struct {
	collection[domain.TypeTache, *domain.TypeTache]
}

func NewTypeTacheRepo(s *Store) *TypeTacheRepo {
	return &TypeTacheRepo{newCollection[domain.TypeTache](s, CollectionTypesTaches, "TypeTacheRepo", "Type de tâche non trouvé")}
}

package handlers

import (
	"net/http"

	"project-management-app/backend/domain"
	"project-management-app/backend/query"
	"project-management-app/backend/services"
)

type entity[T any] interface {
	*T
	domain.Entity
}

// CatalogHandler serves the admin-managed reference collections: services,
// postes, positions and task types.
type CatalogHandler[T any, PT entity[T]] struct {
	docs    *services.CatalogService[PT]
	spec    query.Spec
	deleted string
}

func NewCatalogHandler[T any, PT entity[T]](docs *services.CatalogService[PT], spec query.Spec, deleted string) CatalogHandler[T, PT] {
	return CatalogHandler[T, PT]{docs: docs, spec: spec, deleted: deleted}
}

func (h CatalogHandler[T, PT]) GetAll(w http.ResponseWriter, r *http.Request) {
	q, err := parseList(r, h.spec)
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	docs, total, err := h.docs.List(r.Context(), q)
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	writeList(w, r, docs, len(docs), total, q)
}

func (h CatalogHandler[T, PT]) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	doc, err := h.docs.Get(r.Context(), id)
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	writeResp(w, r, http.StatusOK, doc)
}

func (h CatalogHandler[T, PT]) Create(w http.ResponseWriter, r *http.Request) {
	doc := PT(new(T))
	if err := readReq(doc, r); err != nil {
		writeErrorResp(err, w, r)
		return
	}
	created, err := h.docs.Create(r.Context(), doc)
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	writeResp(w, r, http.StatusCreated, created)
}

func (h CatalogHandler[T, PT]) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	doc, err := h.docs.Update(r.Context(), id, bodyPatch[PT](r))
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	writeResp(w, r, http.StatusOK, doc)
}

func (h CatalogHandler[T, PT]) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	if err := h.docs.Delete(r.Context(), id); err != nil {
		writeErrorResp(err, w, r)
		return
	}
	writeMessage(w, r, http.StatusOK, h.deleted)
}

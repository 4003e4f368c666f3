package handlers

import (
	"net/http"
	"path/filepath"

	"project-management-app/backend/domain"
	"project-management-app/backend/services"

	"github.com/google/uuid"
)

type DocumentHandler struct {
	documents *services.DocumentService
}

func NewDocumentHandler(documents *services.DocumentService) DocumentHandler {
	return DocumentHandler{documents: documents}
}

func (h DocumentHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	q, err := parseList(r, documentSpec)
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	documents, total, err := h.documents.List(r.Context(), q)
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	writeList(w, r, documents, len(documents), total, q)
}

func (h DocumentHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	document, err := h.documents.Get(r.Context(), id)
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	writeResp(w, r, http.StatusOK, document)
}

func (h DocumentHandler) Create(w http.ResponseWriter, r *http.Request) {
	document := &domain.Document{}
	if err := readReq(document, r); err != nil {
		writeErrorResp(err, w, r)
		return
	}
	created, err := h.documents.Create(r.Context(), actorFrom(r), document)
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	writeResp(w, r, http.StatusCreated, created)
}

func (h DocumentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	document, err := h.documents.Update(r.Context(), actorFrom(r), id, bodyPatch[*domain.Document](r))
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	writeResp(w, r, http.StatusOK, document)
}

func (h DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	if err := h.documents.Delete(r.Context(), actorFrom(r), id); err != nil {
		writeErrorResp(err, w, r)
		return
	}
	writeMessage(w, r, http.StatusOK, "Document supprimé")
}

func (h DocumentHandler) Review(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	var req services.ReviewInput
	if err := readReq(&req, r); err != nil {
		writeErrorResp(err, w, r)
		return
	}
	document, err := h.documents.Review(r.Context(), actorFrom(r), id, req)
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	writeResp(w, r, http.StatusOK, document)
}

type uploadResult struct {
	Fichier string `json:"fichier"`
	Nom     string `json:"nom"`
	Taille  int64  `json:"taille"`
}

// Upload does not store anything. It answers with the path a stored file
// would get so clients can attach it to a document.
func (h DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	res := uploadResult{Nom: "document"}
	if err := r.ParseMultipartForm(maxBodyBytes); err == nil {
		if f, header, err := r.FormFile("fichier"); err == nil {
			_ = f.Close()
			res.Nom = header.Filename
			res.Taille = header.Size
		}
	}
	res.Fichier = "/uploads/" + uuid.NewString() + filepath.Ext(res.Nom)
	writeResp(w, r, http.StatusCreated, res)
}

package handlers

import (
	"net/http"

	"project-management-app/backend/domain"
	"project-management-app/backend/services"
)

type ProjectHandler struct {
	projects *services.ProjectService
}

func NewProjectHandler(projects *services.ProjectService) ProjectHandler {
	return ProjectHandler{projects: projects}
}

func (h ProjectHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	q, err := parseList(r, projectSpec)
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	projects, total, err := h.projects.List(r.Context(), q)
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	writeList(w, r, projects, len(projects), total, q)
}

func (h ProjectHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	project, err := h.projects.Get(r.Context(), id)
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	writeResp(w, r, http.StatusOK, project)
}

func (h ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	project := &domain.Projet{}
	if err := readReq(project, r); err != nil {
		writeErrorResp(err, w, r)
		return
	}
	created, err := h.projects.Create(r.Context(), actorFrom(r), project)
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	writeResp(w, r, http.StatusCreated, created)
}

func (h ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	project, err := h.projects.Update(r.Context(), actorFrom(r), id, bodyPatch[*domain.Projet](r))
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	writeResp(w, r, http.StatusOK, project)
}

func (h ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	if err := h.projects.Delete(r.Context(), actorFrom(r), id); err != nil {
		writeErrorResp(err, w, r)
		return
	}
	writeMessage(w, r, http.StatusOK, "Projet et tâches associées supprimés")
}

func (h ProjectHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	userID, err := readMemberID(r)
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	project, err := h.projects.AddMember(r.Context(), actorFrom(r), id, userID)
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	writeResp(w, r, http.StatusOK, project)
}

func (h ProjectHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	userID, err := parseID(r, "userId")
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	project, err := h.projects.RemoveMember(r.Context(), actorFrom(r), id, userID)
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	writeResp(w, r, http.StatusOK, project)
}

func (h ProjectHandler) GetTasks(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	q, err := parseList(r, taskSpec)
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	tasks, total, err := h.projects.Tasks(r.Context(), id, q)
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	writeList(w, r, tasks, len(tasks), total, q)
}

package handlers

import (
	"net/http"

	"project-management-app/backend/domain"
	"project-management-app/backend/services"
)

type TaskHandler struct {
	tasks *services.TaskService
}

func NewTaskHandler(tasks *services.TaskService) TaskHandler {
	return TaskHandler{tasks: tasks}
}

func (h TaskHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	q, err := parseList(r, taskSpec)
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	tasks, total, err := h.tasks.List(r.Context(), q)
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	writeList(w, r, tasks, len(tasks), total, q)
}

func (h TaskHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	task, err := h.tasks.Get(r.Context(), id)
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	writeResp(w, r, http.StatusOK, task)
}

func (h TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	task := &domain.Tache{}
	if err := readReq(task, r); err != nil {
		writeErrorResp(err, w, r)
		return
	}
	created, err := h.tasks.Create(r.Context(), actorFrom(r), task)
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	writeResp(w, r, http.StatusCreated, created)
}

func (h TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	task, err := h.tasks.Update(r.Context(), actorFrom(r), id, bodyPatch[*domain.Tache](r))
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	writeResp(w, r, http.StatusOK, task)
}

func (h TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	if err := h.tasks.Delete(r.Context(), actorFrom(r), id); err != nil {
		writeErrorResp(err, w, r)
		return
	}
	writeMessage(w, r, http.StatusOK, "Tâche supprimée")
}

func (h TaskHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	var req services.StatusInput
	if err := readReq(&req, r); err != nil {
		writeErrorResp(err, w, r)
		return
	}
	task, err := h.tasks.UpdateStatus(r.Context(), actorFrom(r), id, req)
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	writeResp(w, r, http.StatusOK, task)
}

func (h TaskHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	var req services.CommentInput
	if err := readReq(&req, r); err != nil {
		writeErrorResp(err, w, r)
		return
	}
	comment, err := h.tasks.AddComment(r.Context(), actorFrom(r), id, req)
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	writeResp(w, r, http.StatusCreated, comment)
}

func (h TaskHandler) RemoveComment(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	commentID, err := parseID(r, "commentId")
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	if err := h.tasks.RemoveComment(r.Context(), actorFrom(r), id, commentID); err != nil {
		writeErrorResp(err, w, r)
		return
	}
	writeMessage(w, r, http.StatusOK, "Commentaire supprimé")
}

// Remind sends the assignee a deadline notification for the task.
func (h TaskHandler) Remind(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	n, err := h.tasks.Remind(r.Context(), actorFrom(r), id)
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	writeResp(w, r, http.StatusCreated, n)
}

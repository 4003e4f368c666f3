package services

import (
	"context"
	"fmt"

	"project-management-app/backend/domain"
	"project-management-app/backend/query"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/trace"
)

type TaskStore interface {
	store[*domain.Tache]
	AddComment(ctx context.Context, taskID primitive.ObjectID, c domain.Commentaire) error
	RemoveComment(ctx context.Context, taskID, commentID primitive.ObjectID) error
	UpdateStatus(ctx context.Context, taskID primitive.ObjectID, status domain.TaskStatus) error
}

type ProjectLookup interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Projet, error)
}

type CommentInput struct {
	Contenu string `json:"contenu" validate:"required,max=2000"`
}

type StatusInput struct {
	Statut domain.TaskStatus `json:"statut" validate:"required,oneof=a_faire en_cours en_revue terminee"`
}

type TaskService struct {
	base
	emitter
	tasks    TaskStore
	projects ProjectLookup
}

func NewTaskService(tasks TaskStore, projects ProjectLookup, notifier Notifier, tracer trace.Tracer, logger *logrus.Entry) *TaskService {
	return &TaskService{
		base:     newBase(tracer, logger),
		emitter:  emitter{notifier: notifier, log: logger},
		tasks:    tasks,
		projects: projects,
	}
}

func (s *TaskService) List(ctx context.Context, q query.ListQuery) (domain.Taches, int64, error) {
	ctx, span := s.start(ctx, "TaskService.List")
	defer span.End()

	tasks, total, err := s.tasks.List(ctx, q)
	return tasks, total, fail(span, err)
}

func (s *TaskService) Get(ctx context.Context, id primitive.ObjectID) (*domain.Tache, error) {
	ctx, span := s.start(ctx, "TaskService.Get")
	defer span.End()

	t, err := s.tasks.FindByID(ctx, id)
	return t, fail(span, err)
}

func (s *TaskService) Create(ctx context.Context, actor *domain.User, t *domain.Tache) (*domain.Tache, error) {
	ctx, span := s.start(ctx, "TaskService.Create")
	defer span.End()

	t.SetMeta(domain.Model{})
	t.CreePar = actor.Id
	t.Commentaires = nil
	t.SetDefaults()
	if err := domain.Validate(t); err != nil {
		return nil, err
	}
	if _, err := s.projects.FindByID(ctx, t.Projet); err != nil {
		return nil, fail(span, err)
	}
	if err := s.tasks.Insert(ctx, t); err != nil {
		return nil, fail(span, err)
	}

	if t.AssigneA != nil {
		s.notifyAssignee(ctx, actor, t)
	}
	return t, nil
}

func (s *TaskService) Update(ctx context.Context, actor *domain.User, id primitive.ObjectID, patch Patch[*domain.Tache]) (*domain.Tache, error) {
	ctx, span := s.start(ctx, "TaskService.Update")
	defer span.End()

	t, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, fail(span, err)
	}
	if err := s.authorizeEdit(ctx, actor, t); err != nil {
		return nil, err
	}
	creator, comments, previous, project := t.CreePar, t.Commentaires, t.AssigneA, t.Projet
	if err := applyPatch(t, patch); err != nil {
		return nil, err
	}
	t.CreePar, t.Commentaires = creator, comments

	if err := domain.Validate(t); err != nil {
		return nil, err
	}
	if t.Projet != project {
		if err := s.authorizeMove(ctx, actor, t.Projet); err != nil {
			return nil, fail(span, err)
		}
	}
	if err := s.tasks.Replace(ctx, t); err != nil {
		return nil, fail(span, err)
	}

	if t.AssigneA != nil && (previous == nil || *previous != *t.AssigneA) {
		s.notifyAssignee(ctx, actor, t)
	}
	return t, nil
}

func (s *TaskService) Delete(ctx context.Context, actor *domain.User, id primitive.ObjectID) error {
	ctx, span := s.start(ctx, "TaskService.Delete")
	defer span.End()

	t, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return fail(span, err)
	}
	if err := s.authorizeEdit(ctx, actor, t); err != nil {
		return err
	}
	return fail(span, s.tasks.DeleteByID(ctx, id))
}

func (s *TaskService) UpdateStatus(ctx context.Context, actor *domain.User, id primitive.ObjectID, in StatusInput) (*domain.Tache, error) {
	ctx, span := s.start(ctx, "TaskService.UpdateStatus")
	defer span.End()

	if err := domain.Validate(in); err != nil {
		return nil, err
	}
	t, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, fail(span, err)
	}
	if err := s.authorizeEdit(ctx, actor, t); err != nil {
		return nil, err
	}
	if err := s.tasks.UpdateStatus(ctx, id, in.Statut); err != nil {
		return nil, fail(span, err)
	}
	t.Statut = in.Statut
	return t, nil
}

// AddComment appends a comment and tells the assignee about it.
func (s *TaskService) AddComment(ctx context.Context, actor *domain.User, id primitive.ObjectID, in CommentInput) (*domain.Commentaire, error) {
	ctx, span := s.start(ctx, "TaskService.AddComment")
	defer span.End()

	if err := domain.Validate(in); err != nil {
		return nil, err
	}
	t, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, fail(span, err)
	}
	c := domain.Commentaire{
		Id:      primitive.NewObjectID(),
		Auteur:  actor.Id,
		Contenu: in.Contenu,
		Date:    s.now(),
	}
	if err := s.tasks.AddComment(ctx, id, c); err != nil {
		return nil, fail(span, err)
	}

	if t.AssigneA != nil {
		n, err := domain.NewNotification(domain.NotificationParams{
			Destinataire: *t.AssigneA,
			Type:         domain.NotificationCommentaire,
			Reference:    t.Id,
			Titre:        fmt.Sprintf("Nouveau commentaire - %s", t.Titre),
			Message:      fmt.Sprintf("%s a commenté la tâche \"%s\"", actor.FullName(), t.Titre),
			Lien:         "/taches/" + t.Id.Hex(),
		})
		s.emit(ctx, actor, n, err)
	}
	return &c, nil
}

// RemoveComment is allowed to the comment author and admins.
func (s *TaskService) RemoveComment(ctx context.Context, actor *domain.User, id, commentID primitive.ObjectID) error {
	ctx, span := s.start(ctx, "TaskService.RemoveComment")
	defer span.End()

	t, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return fail(span, err)
	}
	c, ok := t.FindComment(commentID)
	if !ok {
		return domain.NewNotFoundError("Commentaire non trouvé")
	}
	if err := authorizeOwner(actor, c.Auteur); err != nil {
		return err
	}
	return fail(span, s.tasks.RemoveComment(ctx, id, commentID))
}

// Remind sends the assignee a deadline notification for the task.
func (s *TaskService) Remind(ctx context.Context, actor *domain.User, id primitive.ObjectID) (*domain.Notification, error) {
	ctx, span := s.start(ctx, "TaskService.Remind")
	defer span.End()

	t, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, fail(span, err)
	}
	if t.AssigneA == nil || t.DateEcheance == nil {
		return nil, domain.NewValidationError("La tâche n'a pas d'assigné ou d'échéance", map[string]string{
			"assigneA":     "Requis pour un rappel",
			"dateEcheance": "Requis pour un rappel",
		})
	}
	n, err := domain.NewDeadlineNotification(*t.AssigneA, t.Id, t.Titre, *t.DateEcheance)
	if err != nil {
		return nil, err
	}
	if err := s.notifier.Notify(ctx, n); err != nil {
		return nil, fail(span, err)
	}
	return n, nil
}

// authorizeEdit allows admins, the creator, the assignee and the owner of
// the task's project.
func (s *TaskService) authorizeEdit(ctx context.Context, actor *domain.User, t *domain.Tache) error {
	if actor.IsAdmin() || t.CreePar == actor.Id || t.IsAssignedTo(actor.Id) {
		return nil
	}
	p, err := s.projects.FindByID(ctx, t.Projet)
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return domain.ErrForbidden()
		}
		return err
	}
	if p.IsOwner(actor.Id) {
		return nil
	}
	return domain.ErrForbidden()
}

// authorizeMove lets a task move only into an existing project owned by the actor.
func (s *TaskService) authorizeMove(ctx context.Context, actor *domain.User, projectID primitive.ObjectID) error {
	p, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return err
	}
	if actor.IsAdmin() || p.IsOwner(actor.Id) {
		return nil
	}
	return domain.ErrForbidden()
}

func (s *TaskService) notifyAssignee(ctx context.Context, actor *domain.User, t *domain.Tache) {
	n, err := domain.NewTaskNotification(*t.AssigneA, t.Id, "assignation",
		fmt.Sprintf("La tâche \"%s\" vous a été assignée", t.Titre))
	s.emit(ctx, actor, n, err)
}

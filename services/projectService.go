package services

import (
	"context"
	"fmt"

	"project-management-app/backend/domain"
	"project-management-app/backend/query"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/trace"
)

type ProjectStore interface {
	store[*domain.Projet]
	AddMember(ctx context.Context, projectID, userID primitive.ObjectID) error
	RemoveMember(ctx context.Context, projectID, userID primitive.ObjectID) error
}

// ProjectTasks is the slice of the task store a project needs.
type ProjectTasks interface {
	List(ctx context.Context, q query.ListQuery) ([]*domain.Tache, int64, error)
	DeleteByProject(ctx context.Context, projectID primitive.ObjectID) (int64, error)
}

type ProjectService struct {
	base
	emitter
	projects ProjectStore
	tasks    ProjectTasks
	users    UserLookup
}

func NewProjectService(projects ProjectStore, tasks ProjectTasks, users UserLookup, notifier Notifier, tracer trace.Tracer, logger *logrus.Entry) *ProjectService {
	return &ProjectService{
		base:     newBase(tracer, logger),
		emitter:  emitter{notifier: notifier, log: logger},
		projects: projects,
		tasks:    tasks,
		users:    users,
	}
}

func (s *ProjectService) List(ctx context.Context, q query.ListQuery) (domain.Projets, int64, error) {
	ctx, span := s.start(ctx, "ProjectService.List")
	defer span.End()

	projects, total, err := s.projects.List(ctx, q)
	return projects, total, fail(span, err)
}

func (s *ProjectService) Get(ctx context.Context, id primitive.ObjectID) (*domain.Projet, error) {
	ctx, span := s.start(ctx, "ProjectService.Get")
	defer span.End()

	p, err := s.projects.FindByID(ctx, id)
	return p, fail(span, err)
}

// Create stores a project owned by actor unless an admin names another
// responsable. Initial members are notified.
func (s *ProjectService) Create(ctx context.Context, actor *domain.User, p *domain.Projet) (*domain.Projet, error) {
	ctx, span := s.start(ctx, "ProjectService.Create")
	defer span.End()

	p.SetMeta(domain.Model{})
	if p.Responsable.IsZero() || !actor.IsAdmin() {
		p.Responsable = actor.Id
	}
	p.SetDefaults()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.projects.Insert(ctx, p); err != nil {
		return nil, fail(span, err)
	}

	for _, member := range p.Membres {
		s.notifyMember(ctx, actor, p, member)
	}
	return p, nil
}

func (s *ProjectService) Update(ctx context.Context, actor *domain.User, id primitive.ObjectID, patch Patch[*domain.Projet]) (*domain.Projet, error) {
	ctx, span := s.start(ctx, "ProjectService.Update")
	defer span.End()

	p, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, fail(span, err)
	}
	if err := authorizeOwner(actor, p.Responsable); err != nil {
		return nil, err
	}
	owner, members := p.Responsable, p.Membres
	if err := applyPatch(p, patch); err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		p.Responsable = owner
	}
	// membership changes go through AddMember and RemoveMember
	p.Membres = members

	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.projects.Replace(ctx, p); err != nil {
		return nil, fail(span, err)
	}
	return p, nil
}

// Delete removes the project, then its tasks. The two steps are not atomic.
func (s *ProjectService) Delete(ctx context.Context, actor *domain.User, id primitive.ObjectID) error {
	ctx, span := s.start(ctx, "ProjectService.Delete")
	defer span.End()

	p, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return fail(span, err)
	}
	if err := authorizeOwner(actor, p.Responsable); err != nil {
		return err
	}
	if err := s.projects.DeleteByID(ctx, id); err != nil {
		return fail(span, err)
	}
	removed, err := s.tasks.DeleteByProject(ctx, id)
	if err != nil {
		s.logger.WithError(err).WithField("projet", id.Hex()).Error("project deleted but its tasks remain")
		return fail(span, err)
	}
	s.logger.WithFields(logrus.Fields{"projet": id.Hex(), "taches": removed}).Info("project deleted")
	return nil
}

func (s *ProjectService) AddMember(ctx context.Context, actor *domain.User, id, userID primitive.ObjectID) (*domain.Projet, error) {
	ctx, span := s.start(ctx, "ProjectService.AddMember")
	defer span.End()

	p, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, fail(span, err)
	}
	if err := authorizeOwner(actor, p.Responsable); err != nil {
		return nil, err
	}
	if p.HasMember(userID) {
		return nil, domain.NewConflictError("L'utilisateur est déjà membre du projet")
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, fail(span, err)
	}
	if err := s.projects.AddMember(ctx, id, userID); err != nil {
		return nil, fail(span, err)
	}
	p.Membres = append(p.Membres, userID)

	s.notifyMember(ctx, actor, p, userID)
	return p, nil
}

func (s *ProjectService) RemoveMember(ctx context.Context, actor *domain.User, id, userID primitive.ObjectID) (*domain.Projet, error) {
	ctx, span := s.start(ctx, "ProjectService.RemoveMember")
	defer span.End()

	p, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, fail(span, err)
	}
	if err := authorizeOwner(actor, p.Responsable); err != nil {
		return nil, err
	}
	if !p.HasMember(userID) {
		return nil, domain.NewNotFoundError("Membre non trouvé dans le projet")
	}
	if err := s.projects.RemoveMember(ctx, id, userID); err != nil {
		return nil, fail(span, err)
	}
	members := make([]primitive.ObjectID, 0, len(p.Membres))
	for _, m := range p.Membres {
		if m != userID {
			members = append(members, m)
		}
	}
	p.Membres = members
	return p, nil
}

// Tasks lists the tasks of one project with the regular list parameters.
func (s *ProjectService) Tasks(ctx context.Context, id primitive.ObjectID, q query.ListQuery) (domain.Taches, int64, error) {
	ctx, span := s.start(ctx, "ProjectService.Tasks")
	defer span.End()

	if _, err := s.projects.FindByID(ctx, id); err != nil {
		return nil, 0, fail(span, err)
	}
	tasks, total, err := s.tasks.List(ctx, q.WithScope(bson.E{Key: "projet", Value: id}))
	return tasks, total, fail(span, err)
}

func (s *ProjectService) notifyMember(ctx context.Context, actor *domain.User, p *domain.Projet, member primitive.ObjectID) {
	n, err := domain.NewProjectNotification(member, p.Id, "ajout",
		fmt.Sprintf("Vous avez été ajouté au projet \"%s\"", p.Titre))
	s.emit(ctx, actor, n, err)
}

package services

import (
	"context"
	"strings"

	"project-management-app/backend/domain"
	"project-management-app/backend/query"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/trace"
)

type CreateUserInput struct {
	Nom       string              `json:"nom" validate:"required,max=100"`
	Prenom    string              `json:"prenom" validate:"required,max=100"`
	Email     string              `json:"email" validate:"required,email"`
	Password  string              `json:"password" validate:"required,min=6"`
	Telephone string              `json:"telephone" validate:"omitempty,max=30"`
	Role      string              `json:"role" validate:"omitempty,oneof=admin responsable employe"`
	Service   *primitive.ObjectID `json:"service"`
	Poste     *primitive.ObjectID `json:"poste"`
	Position  *primitive.ObjectID `json:"position"`
}

type UserService struct {
	base
	users UserStore
	auth  *AuthService
}

func NewUserService(users UserStore, auth *AuthService, tracer trace.Tracer, logger *logrus.Entry) *UserService {
	return &UserService{base: newBase(tracer, logger), users: users, auth: auth}
}

func (s *UserService) List(ctx context.Context, q query.ListQuery) (domain.Users, int64, error) {
	ctx, span := s.start(ctx, "UserService.List")
	defer span.End()

	users, total, err := s.users.List(ctx, q)
	return users, total, fail(span, err)
}

func (s *UserService) Get(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	ctx, span := s.start(ctx, "UserService.Get")
	defer span.End()

	user, err := s.users.FindByID(ctx, id)
	return user, fail(span, err)
}

// Create is the admin path: any role, account active immediately.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	ctx, span := s.start(ctx, "UserService.Create")
	defer span.End()

	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := domain.Validate(in); err != nil {
		return nil, err
	}
	role, err := domain.RoleFromString(in.Role)
	if err != nil {
		return nil, domain.NewValidationError("Données invalides", map[string]string{"role": "Rôle invalide"})
	}
	hash, err := s.auth.HashPassword(in.Password)
	if err != nil {
		return nil, fail(span, err)
	}
	user := &domain.User{
		Nom:       in.Nom,
		Prenom:    in.Prenom,
		Email:     in.Email,
		Password:  hash,
		Role:      role,
		Service:   in.Service,
		Poste:     in.Poste,
		Position:  in.Position,
		Telephone: in.Telephone,
		IsActive:  true,
	}
	if err := s.users.Insert(ctx, user); err != nil {
		return nil, fail(span, err)
	}
	return user, nil
}

// Update lets admins change anything but the password, and users change
// their own profile except role and activation.
func (s *UserService) Update(ctx context.Context, actor *domain.User, id primitive.ObjectID, patch Patch[*domain.User]) (*domain.User, error) {
	ctx, span := s.start(ctx, "UserService.Update")
	defer span.End()

	if err := authorizeOwner(actor, id); err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fail(span, err)
	}
	password, role, active := user.Password, user.Role, user.IsActive
	if err := applyPatch(user, patch); err != nil {
		return nil, err
	}
	user.Password = password
	if !actor.IsAdmin() {
		user.Role, user.IsActive = role, active
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	if err := domain.Validate(user); err != nil {
		return nil, err
	}
	if err := s.users.Replace(ctx, user); err != nil {
		return nil, fail(span, err)
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, actor *domain.User, id primitive.ObjectID) error {
	ctx, span := s.start(ctx, "UserService.Delete")
	defer span.End()

	if actor.Id == id {
		return domain.NewValidationError("Impossible de supprimer votre propre compte", nil)
	}
	return fail(span, s.users.DeleteByID(ctx, id))
}

package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"project-management-app/backend/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"
)

type TokenClaims struct {
	ID   string `json:"id"`
	Role string `json:"role"`
	Exp  int64  `json:"exp"`
}

type UserStore interface {
	store[*domain.User]
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string) error
}

type RegisterInput struct {
	Nom       string `json:"nom" validate:"required,max=100"`
	Prenom    string `json:"prenom" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	Telephone string `json:"telephone" validate:"omitempty,max=30"`
}

type PasswordInput struct {
	Current string `json:"currentPassword" validate:"required"`
	New     string `json:"newPassword" validate:"required,min=6"`
}

type AuthService struct {
	base
	users  UserStore
	secret []byte
	ttl    time.Duration
	cost   int
}

func NewAuthService(users UserStore, secret string, ttl time.Duration, cost int, tracer trace.Tracer, logger *logrus.Entry) *AuthService {
	return &AuthService{
		base:   newBase(tracer, logger),
		users:  users,
		secret: []byte(secret),
		ttl:    ttl,
		cost:   cost,
	}
}

// Register creates an active employee account and logs it in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, string, error) {
	ctx, span := s.start(ctx, "AuthService.Register")
	defer span.End()

	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := domain.Validate(in); err != nil {
		return nil, "", err
	}
	hash, err := s.HashPassword(in.Password)
	if err != nil {
		return nil, "", fail(span, err)
	}
	user := &domain.User{
		Nom:       in.Nom,
		Prenom:    in.Prenom,
		Email:     in.Email,
		Password:  hash,
		Role:      domain.EMPLOYE,
		Telephone: in.Telephone,
		IsActive:  true,
	}
	if err := s.users.Insert(ctx, user); err != nil {
		return nil, "", fail(span, err)
	}
	s.logger.WithField("user", user.Id.Hex()).Info("user registered")

	token, err := s.CreateToken(user)
	if err != nil {
		return nil, "", fail(span, err)
	}
	return user, token, nil
}

func (s *AuthService) LogIn(ctx context.Context, email, password string) (*domain.User, string, error) {
	ctx, span := s.start(ctx, "AuthService.LogIn")
	defer span.End()

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return nil, "", fail(span, domain.ErrInvalidCredentials())
		}
		return nil, "", fail(span, err)
	}
	if !CheckPasswordHash(password, user.Password) {
		return nil, "", fail(span, domain.ErrInvalidCredentials())
	}
	if !user.IsActive {
		return nil, "", fail(span, domain.ErrUserNotActive())
	}

	token, err := s.CreateToken(user)
	if err != nil {
		return nil, "", fail(span, err)
	}
	return user, token, nil
}

// Authenticate verifies a bearer token and loads the active user it names.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	ctx, span := s.start(ctx, "AuthService.Authenticate")
	defer span.End()

	claims, err := s.VerifyToken(token)
	if err != nil {
		return nil, fail(span, err)
	}
	id, err := primitive.ObjectIDFromHex(claims.ID)
	if err != nil {
		return nil, fail(span, domain.ErrInvalidToken())
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return nil, fail(span, domain.ErrInvalidToken())
		}
		return nil, fail(span, err)
	}
	if !user.IsActive {
		return nil, fail(span, domain.ErrUserNotActive())
	}
	return user, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, user *domain.User, in PasswordInput) error {
	ctx, span := s.start(ctx, "AuthService.ChangePassword")
	defer span.End()

	if err := domain.Validate(in); err != nil {
		return err
	}
	if !CheckPasswordHash(in.Current, user.Password) {
		return domain.NewValidationError("Mot de passe actuel incorrect", map[string]string{"currentPassword": "Mot de passe incorrect"})
	}
	hash, err := s.HashPassword(in.New)
	if err != nil {
		return fail(span, err)
	}
	return fail(span, s.users.UpdatePassword(ctx, user.Id, hash))
}

func (s *AuthService) CreateToken(user *domain.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256,
		jwt.MapClaims{
			"id":   user.Id.Hex(),
			"role": user.Role.String(),
			"exp":  s.now().Add(s.ttl).Unix(),
		})

	return token.SignedString(s.secret)
}

func (s *AuthService) VerifyToken(tokenString string) (*TokenClaims, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) {
			s.logger.Debug("expired token rejected")
		}
		return nil, domain.ErrInvalidToken()
	}

	tokenClaims := &TokenClaims{}
	if id, ok := claims["id"].(string); ok {
		tokenClaims.ID = id
	}
	if role, ok := claims["role"].(string); ok {
		tokenClaims.Role = role
	}
	if exp, ok := claims["exp"].(float64); ok {
		tokenClaims.Exp = int64(exp)
	}
	return tokenClaims, nil
}

func (s *AuthService) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

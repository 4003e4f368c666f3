package handlers

import (
	"net/http"

	"project-management-app/backend/domain"
	"project-management-app/backend/services"
)

type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) AuthHandler {
	return AuthHandler{auth: auth}
}

type session struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

func (h AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterInput
	if err := readReq(&req, r); err != nil {
		writeErrorResp(err, w, r)
		return
	}

	user, token, err := h.auth.Register(r.Context(), req)
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	loggerFrom(r).WithField("user_id", user.Id.Hex()).Info("user registered")
	writeResp(w, r, http.StatusCreated, session{User: user, Token: token})
}

func (h AuthHandler) LogIn(w http.ResponseWriter, r *http.Request) {
	req := &struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{}
	if err := readReq(req, r); err != nil {
		writeErrorResp(err, w, r)
		return
	}
	if req.Email == "" || req.Password == "" {
		writeErrorResp(domain.NewValidationError("Email et mot de passe requis", map[string]string{
			"email":    "L'email est requis",
			"password": "Le mot de passe est requis",
		}), w, r)
		return
	}

	user, token, err := h.auth.LogIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeErrorResp(err, w, r)
		return
	}
	writeResp(w, r, http.StatusOK, session{User: user, Token: token})
}

func (h AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	writeResp(w, r, http.StatusOK, actorFrom(r))
}

func (h AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req services.PasswordInput
	if err := readReq(&req, r); err != nil {
		writeErrorResp(err, w, r)
		return
	}
	if err := h.auth.ChangePassword(r.Context(), actorFrom(r), req); err != nil {
		writeErrorResp(err, w, r)
		return
	}
	writeMessage(w, r, http.StatusOK, "Mot de passe modifié avec succès")
}

package handlers

import (
	"io"
	"net/http"

	"project-management-app/backend/domain"
	"project-management-app/backend/metrics"

	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
)

// Routes groups the resource handlers mounted by NewRouter.
type Routes struct {
	Auth          AuthHandler
	Users         UserHandler
	Services      CatalogHandler[domain.Service, *domain.Service]
	Postes        CatalogHandler[domain.Poste, *domain.Poste]
	Positions     CatalogHandler[domain.Position, *domain.Position]
	TypesTaches   CatalogHandler[domain.TypeTache, *domain.TypeTache]
	Projects      ProjectHandler
	Tasks         TaskHandler
	Events        EventHandler
	Discussions   DiscussionHandler
	Documents     DocumentHandler
	Notifications NotificationHandler
	Health        HealthHandler
}

type RouterConfig struct {
	Auth        Authenticator
	Limiter     *RateLimiter
	Metrics     *metrics.Metrics
	Tracer      trace.Tracer
	Logger      *logrus.Logger
	CORSOrigins []string
}

type catalogRoutes interface {
	GetAll(http.ResponseWriter, *http.Request)
	GetByID(http.ResponseWriter, *http.Request)
	Create(http.ResponseWriter, *http.Request)
	Update(http.ResponseWriter, *http.Request)
	Delete(http.ResponseWriter, *http.Request)
}

// NewRouter mounts every route under /api and wraps the router with the
// cross-cutting middleware.
func NewRouter(cfg RouterConfig, h Routes) http.Handler {
	router := mux.NewRouter()
	router.Use(ExtractTraceInfoMiddleware(cfg.Tracer))
	router.Use(MiddlewareContentTypeSet)

	router.Handle("/metrics", cfg.Metrics.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", h.Health.Check).Methods(http.MethodGet)

	public := api.NewRoute().Subrouter()
	public.HandleFunc("/auth/register", h.Auth.Register).Methods(http.MethodPost)
	public.HandleFunc("/auth/login", h.Auth.LogIn).Methods(http.MethodPost)
	for path, c := range map[string]catalogRoutes{
		"/services":  h.Services,
		"/postes":    h.Postes,
		"/positions": h.Positions,
	} {
		public.HandleFunc(path, c.GetAll).Methods(http.MethodGet)
		public.HandleFunc(path+"/{id}", c.GetByID).Methods(http.MethodGet)
	}

	private := api.NewRoute().Subrouter()
	private.Use(MiddlewareAuth(cfg.Auth))

	admin := api.NewRoute().Subrouter()
	admin.Use(MiddlewareAuth(cfg.Auth), MiddlewareRole(domain.ADMIN))

	reviewer := api.NewRoute().Subrouter()
	reviewer.Use(MiddlewareAuth(cfg.Auth), MiddlewareRole(domain.ADMIN, domain.RESPONSABLE))

	private.HandleFunc("/auth/me", h.Auth.Me).Methods(http.MethodGet)
	private.HandleFunc("/auth/password", h.Auth.ChangePassword).Methods(http.MethodPut)

	admin.HandleFunc("/users", h.Users.GetAll).Methods(http.MethodGet)
	admin.HandleFunc("/users", h.Users.Create).Methods(http.MethodPost)
	admin.HandleFunc("/users/{id}", h.Users.Delete).Methods(http.MethodDelete)
	private.HandleFunc("/users/{id}", h.Users.GetByID).Methods(http.MethodGet)
	private.HandleFunc("/users/{id}", h.Users.Update).Methods(http.MethodPut)

	private.HandleFunc("/types-taches", h.TypesTaches.GetAll).Methods(http.MethodGet)
	private.HandleFunc("/types-taches/{id}", h.TypesTaches.GetByID).Methods(http.MethodGet)
	for path, c := range map[string]catalogRoutes{
		"/services":     h.Services,
		"/postes":       h.Postes,
		"/positions":    h.Positions,
		"/types-taches": h.TypesTaches,
	} {
		admin.HandleFunc(path, c.Create).Methods(http.MethodPost)
		admin.HandleFunc(path+"/{id}", c.Update).Methods(http.MethodPut)
		admin.HandleFunc(path+"/{id}", c.Delete).Methods(http.MethodDelete)
	}

	private.HandleFunc("/projets", h.Projects.GetAll).Methods(http.MethodGet)
	private.HandleFunc("/projets", h.Projects.Create).Methods(http.MethodPost)
	private.HandleFunc("/projets/{id}", h.Projects.GetByID).Methods(http.MethodGet)
	private.HandleFunc("/projets/{id}", h.Projects.Update).Methods(http.MethodPut)
	private.HandleFunc("/projets/{id}", h.Projects.Delete).Methods(http.MethodDelete)
	private.HandleFunc("/projets/{id}/membres", h.Projects.AddMember).Methods(http.MethodPost)
	private.HandleFunc("/projets/{id}/membres/{userId}", h.Projects.RemoveMember).Methods(http.MethodDelete)
	private.HandleFunc("/projets/{id}/taches", h.Projects.GetTasks).Methods(http.MethodGet)

	private.HandleFunc("/taches", h.Tasks.GetAll).Methods(http.MethodGet)
	private.HandleFunc("/taches", h.Tasks.Create).Methods(http.MethodPost)
	private.HandleFunc("/taches/{id}", h.Tasks.GetByID).Methods(http.MethodGet)
	private.HandleFunc("/taches/{id}", h.Tasks.Update).Methods(http.MethodPut)
	private.HandleFunc("/taches/{id}", h.Tasks.Delete).Methods(http.MethodDelete)
	private.HandleFunc("/taches/{id}/statut", h.Tasks.UpdateStatus).Methods(http.MethodPatch)
	private.HandleFunc("/taches/{id}/commentaires", h.Tasks.AddComment).Methods(http.MethodPost)
	private.HandleFunc("/taches/{id}/commentaires/{commentId}", h.Tasks.RemoveComment).Methods(http.MethodDelete)
	private.HandleFunc("/taches/{id}/rappel", h.Tasks.Remind).Methods(http.MethodPost)

	private.HandleFunc("/evenements", h.Events.GetAll).Methods(http.MethodGet)
	private.HandleFunc("/evenements", h.Events.Create).Methods(http.MethodPost)
	private.HandleFunc("/evenements/{id}", h.Events.GetByID).Methods(http.MethodGet)
	private.HandleFunc("/evenements/{id}", h.Events.Update).Methods(http.MethodPut)
	private.HandleFunc("/evenements/{id}", h.Events.Delete).Methods(http.MethodDelete)
	private.HandleFunc("/evenements/{id}/participants", h.Events.AddParticipant).Methods(http.MethodPost)
	private.HandleFunc("/evenements/{id}/participants/{userId}", h.Events.RemoveParticipant).Methods(http.MethodDelete)

	private.HandleFunc("/discussions", h.Discussions.GetAll).Methods(http.MethodGet)
	private.HandleFunc("/discussions", h.Discussions.Create).Methods(http.MethodPost)
	private.HandleFunc("/discussions/{id}", h.Discussions.GetByID).Methods(http.MethodGet)
	private.HandleFunc("/discussions/{id}", h.Discussions.Update).Methods(http.MethodPut)
	private.HandleFunc("/discussions/{id}", h.Discussions.Delete).Methods(http.MethodDelete)
	private.HandleFunc("/discussions/{id}/membres", h.Discussions.AddMember).Methods(http.MethodPost)
	private.HandleFunc("/discussions/{id}/membres/{userId}", h.Discussions.RemoveMember).Methods(http.MethodDelete)
	private.HandleFunc("/discussions/{id}/messages", h.Discussions.AddMessage).Methods(http.MethodPost)
	private.HandleFunc("/discussions/{id}/messages/{messageId}/reponses", h.Discussions.AddReply).Methods(http.MethodPost)

	private.HandleFunc("/documents/upload", h.Documents.Upload).Methods(http.MethodPost)
	private.HandleFunc("/documents", h.Documents.GetAll).Methods(http.MethodGet)
	private.HandleFunc("/documents", h.Documents.Create).Methods(http.MethodPost)
	private.HandleFunc("/documents/{id}", h.Documents.GetByID).Methods(http.MethodGet)
	private.HandleFunc("/documents/{id}", h.Documents.Update).Methods(http.MethodPut)
	private.HandleFunc("/documents/{id}", h.Documents.Delete).Methods(http.MethodDelete)
	reviewer.HandleFunc("/documents/{id}/validation", h.Documents.Review).Methods(http.MethodPatch)

	private.HandleFunc("/notifications", h.Notifications.GetAll).Methods(http.MethodGet)
	private.HandleFunc("/notifications/non-lues/count", h.Notifications.CountUnread).Methods(http.MethodGet)
	private.HandleFunc("/notifications/lu", h.Notifications.MarkAllRead).Methods(http.MethodPatch)
	private.HandleFunc("/notifications/{id}", h.Notifications.GetByID).Methods(http.MethodGet)
	private.HandleFunc("/notifications/{id}/reference", h.Notifications.GetReference).Methods(http.MethodGet)
	private.HandleFunc("/notifications/{id}/lu", h.Notifications.MarkRead).Methods(http.MethodPatch)
	private.HandleFunc("/notifications/{id}/archive", h.Notifications.Archive).Methods(http.MethodPatch)
	private.HandleFunc("/notifications/{id}/actions", h.Notifications.AddAction).Methods(http.MethodPost)
	private.HandleFunc("/notifications/{id}/actions/{type}", h.Notifications.PerformAction).Methods(http.MethodPost)
	admin.HandleFunc("/notifications", h.Notifications.Create).Methods(http.MethodPost)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusNotFound, envelope{Error: "Route non trouvée"})
	})

	cors := gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins(cfg.CORSOrigins),
		gorillaHandlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization", HeaderRequestID}),
		gorillaHandlers.ExposedHeaders([]string{HeaderRequestID}),
	)
	recovery := gorillaHandlers.RecoveryHandler(
		gorillaHandlers.RecoveryLogger(cfg.Logger),
		gorillaHandlers.PrintRecoveryStack(true),
	)

	var handler http.Handler = Sanitize(router)
	handler = cfg.Limiter.Middleware(handler)
	handler = cfg.Metrics.Middleware(router)(handler)
	handler = cors(handler)
	handler = recovery(handler)
	handler = gorillaHandlers.CustomLoggingHandler(io.Discard, handler, accessLog)
	return RequestID(logrus.NewEntry(cfg.Logger).WithField("component", "http"))(handler)
}

func accessLog(_ io.Writer, p gorillaHandlers.LogFormatterParams) {
	loggerFrom(p.Request).WithFields(logrus.Fields{
		"status": p.StatusCode,
		"size":   p.Size,
		"uri":    p.URL.RequestURI(),
	}).Info("request served")
}

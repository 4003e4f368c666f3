package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"project-management-app/backend/config"
	"project-management-app/backend/domain"
	"project-management-app/backend/handlers"
	"project-management-app/backend/logging"
	"project-management-app/backend/metrics"
	"project-management-app/backend/repositories"
	"project-management-app/backend/services"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const serviceName = "gestion-api"

func main() {
	cfg := config.GetConfig()
	logger := logging.New(serviceName, cfg.LogLevel)
	handleErr(logger, cfg.Validate())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tracer, shutdownTracing := newTracer(cfg.JaegerAddress, logger)
	defer shutdownTracing()
	otel.SetTextMapPropagator(propagation.TraceContext{})

	m := metrics.New("api", nil)

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	store, err := repositories.New(connectCtx, cfg.MongoURI, cfg.MongoDatabase,
		logging.Component(logger, "store"), tracer,
		options.Client().SetPoolMonitor(m.PoolMonitor()))
	handleErr(logger, err)
	handleErr(logger, store.EnsureIndexes(connectCtx))

	users := repositories.NewUserRepo(store)
	projects := repositories.NewProjectRepo(store)
	tasks := repositories.NewTaskRepo(store)
	events := repositories.NewEventRepo(store)
	discussions := repositories.NewDiscussionRepo(store)
	documents := repositories.NewDocumentRepo(store)
	notifications := repositories.NewNotificationRepo(store)
	resolver := repositories.NewReferenceResolver(tasks, projects, documents, discussions)

	svc := func(name string) *logrus.Entry { return logging.Component(logger, name) }

	authService := services.NewAuthService(users, cfg.SecretKey, cfg.TokenTTL, cfg.BcryptCost, tracer, svc("auth-service"))
	notificationService := services.NewNotificationService(notifications, resolver, tracer, svc("notifications-service"))
	userService := services.NewUserService(users, authService, tracer, svc("users-service"))
	projectService := services.NewProjectService(projects, tasks, users, notificationService, tracer, svc("projects-service"))
	taskService := services.NewTaskService(tasks, projects, notificationService, tracer, svc("tasks-service"))
	eventService := services.NewEventService(events, users, tracer, svc("events-service"))
	discussionService := services.NewDiscussionService(discussions, users, notificationService, tracer, svc("discussions-service"))
	documentService := services.NewDocumentService(documents, notificationService, tracer, svc("documents-service"))

	catalogLogger := svc("catalog-service")
	serviceCatalog := services.NewCatalogService[*domain.Service](repositories.NewServiceRepo(store), "ServiceService", tracer, catalogLogger)
	posteCatalog := services.NewCatalogService[*domain.Poste](repositories.NewPosteRepo(store), "PosteService", tracer, catalogLogger)
	positionCatalog := services.NewCatalogService[*domain.Position](repositories.NewPositionRepo(store), "PositionService", tracer, catalogLogger)
	typeTacheCatalog := services.NewCatalogService[*domain.TypeTache](repositories.NewTypeTacheRepo(store), "TypeTacheService", tracer, catalogLogger)

	if cfg.NotificationSweepInterval > 0 {
		go notificationService.PeriodicSweep(ctx, cfg.NotificationSweepInterval)
	}

	router := handlers.NewRouter(handlers.RouterConfig{
		Auth:        authService,
		Limiter:     handlers.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst, cfg.TrustedProxies...),
		Metrics:     m,
		Tracer:      tracer,
		Logger:      logger,
		CORSOrigins: cfg.CORSOrigins,
	}, handlers.Routes{
		Auth:          handlers.NewAuthHandler(authService),
		Users:         handlers.NewUserHandler(userService),
		Services:      handlers.NewCatalogHandler[domain.Service](serviceCatalog, handlers.ServiceSpec, "Service supprimé"),
		Postes:        handlers.NewCatalogHandler[domain.Poste](posteCatalog, handlers.PosteSpec, "Poste supprimé"),
		Positions:     handlers.NewCatalogHandler[domain.Position](positionCatalog, handlers.PositionSpec, "Position supprimée"),
		TypesTaches:   handlers.NewCatalogHandler[domain.TypeTache](typeTacheCatalog, handlers.TypeTacheSpec, "Type de tâche supprimé"),
		Projects:      handlers.NewProjectHandler(projectService),
		Tasks:         handlers.NewTaskHandler(taskService),
		Events:        handlers.NewEventHandler(eventService),
		Discussions:   handlers.NewDiscussionHandler(discussionService),
		Documents:     handlers.NewDocumentHandler(documentService),
		Notifications: handlers.NewNotificationHandler(notificationService),
		Health:        handlers.NewHealthHandler(store),
	})

	server := &http.Server{
		Handler:           router,
		Addr:              cfg.Address,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.WithField("address", cfg.Address).Info("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("received terminate, graceful shutdown")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("cannot gracefully shutdown")
	}
	if err := store.Disconnect(shutdownCtx); err != nil {
		logger.WithError(err).Error("mongo disconnect failed")
	}
	logger.Info("server stopped")
}

// newTracer exports to jaeger when an address is configured and falls back
// to a noop tracer otherwise.
func newTracer(address string, logger *logrus.Logger) (trace.Tracer, func()) {
	if address == "" {
		return noop.NewTracerProvider().Tracer(serviceName), func() {}
	}

	exp, err := newExporter(address)
	if err != nil {
		logger.WithError(err).Warn("jaeger exporter unavailable, tracing disabled")
		return noop.NewTracerProvider().Tracer(serviceName), func() {}
	}
	tp := newTraceProvider(exp)
	otel.SetTracerProvider(tp)

	return tp.Tracer(serviceName), func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tp.Shutdown(ctx)
	}
}

func newExporter(address string) (*jaeger.Exporter, error) {
	return jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(address)))
}

func newTraceProvider(exp sdktrace.SpanExporter) *sdktrace.TracerProvider {
	r, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(serviceName),
		),
	)
	if err != nil {
		r = resource.Default()
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(r),
	)
}

func handleErr(logger *logrus.Logger, err error) {
	if err != nil {
		logger.WithError(err).Fatal("startup failed")
	}
}

package repositories

import (
	"context"
	"errors"
	"time"

	"project-management-app/backend/domain"

	"github.com/eapache/go-resiliency/retrier"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.opentelemetry.io/otel/trace"
)

const (
	opTimeout = 5 * time.Second

	CollectionUsers         = "users"
	CollectionServices      = "services"
	CollectionPostes        = "postes"
	CollectionPositions     = "positions"
	CollectionTypesTaches   = "typestaches"
	CollectionProjets       = "projets"
	CollectionTaches        = "taches"
	CollectionEvenements    = "evenements"
	CollectionDiscussions   = "discussions"
	CollectionDocuments     = "documents"
	CollectionNotifications = "notifications"
)

// Store owns the mongo client. It is opened once at startup and passed to
// every repository.
type Store struct {
	cli    *mongo.Client
	db     *mongo.Database
	logger *logrus.Entry
	tracer trace.Tracer
	cb     *gobreaker.CircuitBreaker[interface{}]
	now    func() time.Time
}

// New connects to uri and pings the primary, retrying a few times while the
// database comes up. opts are applied after the URI.
func New(ctx context.Context, uri, database string, logger *logrus.Entry, tracer trace.Tracer, opts ...*options.ClientOptions) (*Store, error) {
	var client *mongo.Client
	clientOpts := append([]*options.ClientOptions{options.Client().ApplyURI(uri)}, opts...)

	r := retrier.New(retrier.ConstantBackoff(3, 500*time.Millisecond), nil)
	err := r.Run(func() error {
		cli, err := mongo.Connect(ctx, clientOpts...)
		if err != nil {
			logger.WithError(err).Warn("mongo connect failed")
			return err
		}
		pingCtx, cancel := context.WithTimeout(ctx, opTimeout)
		defer cancel()
		if err := cli.Ping(pingCtx, readpref.Primary()); err != nil {
			logger.WithError(err).Warn("mongo ping failed")
			_ = cli.Disconnect(ctx)
			return err
		}
		client = cli
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.WithField("database", database).Info("connected to mongo")
	return NewWithClient(client, database, logger, tracer), nil
}

// NewWithClient wraps an already connected client.
func NewWithClient(client *mongo.Client, database string, logger *logrus.Entry, tracer trace.Tracer) *Store {
	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        "StoreCB",
		MaxRequests: 1,
		Timeout:     2 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !isInfrastructureError(err)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warnf("Circuit Breaker '%s' changed from '%s' to '%s'", name, from, to)
		},
	})

	return &Store{
		cli:    client,
		db:     client.Database(database),
		logger: logger,
		tracer: tracer,
		cb:     cb,
		now:    time.Now,
	}
}

func (s *Store) Disconnect(ctx context.Context) error {
	return s.cli.Disconnect(ctx)
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "Store.Ping")
	defer span.End()

	return s.execute(func() error {
		ctx, cancel := context.WithTimeout(ctx, opTimeout)
		defer cancel()
		return s.cli.Ping(ctx, readpref.Primary())
	})
}

func (s *Store) Collection(name string) *mongo.Collection {
	return s.db.Collection(name)
}

// EnsureIndexes creates the unique and lookup indexes the repositories rely on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		CollectionUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		CollectionServices: {
			{Keys: bson.D{{Key: "nom", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		CollectionTypesTaches: {
			{Keys: bson.D{{Key: "nom", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		CollectionTaches: {
			{Keys: bson.D{{Key: "projet", Value: 1}}},
		},
		CollectionNotifications: {
			{Keys: bson.D{{Key: "destinataire", Value: 1}, {Key: "statut", Value: 1}}},
		},
	}
	for name, models := range indexes {
		if _, err := s.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			s.logger.WithError(err).WithField("collection", name).Error("index creation failed")
			return err
		}
	}
	return nil
}

// execute runs fn through the circuit breaker and classifies the error.
func (s *Store) execute(fn func() error) error {
	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	return translate(err)
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return domain.NewUnavailableError("Base de données indisponible", err)
	case mongo.IsDuplicateKeyError(err):
		return domain.NewConflictError("Une ressource avec cette valeur existe déjà")
	default:
		return err
	}
}

// isInfrastructureError separates store outages from expected outcomes such
// as missing documents or unique-key violations.
func isInfrastructureError(err error) bool {
	if errors.Is(err, mongo.ErrNoDocuments) || errors.Is(err, context.Canceled) || mongo.IsDuplicateKeyError(err) {
		return false
	}
	if domain.KindOf(err) != domain.KindInternal {
		return false
	}
	return true
}

package repositories

import (
	"context"
	"errors"
	"time"

	"project-management-app/backend/domain"
	"project-management-app/backend/query"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/codes"
)

type entity[T any] interface {
	*T
	domain.Entity
}

// beforeSaver lets a document hook into writes in place of a plain Touch.
type beforeSaver interface {
	BeforeSave(now time.Time)
}

// collection implements the document operations shared by every repository.
type collection[T any, PT entity[T]] struct {
	store    *Store
	name     string
	span     string
	logger   *logrus.Entry
	notFound string
}

func newCollection[T any, PT entity[T]](store *Store, name, span, notFound string) collection[T, PT] {
	return collection[T, PT]{
		store:    store,
		name:     name,
		span:     span,
		logger:   store.logger.WithField("collection", name),
		notFound: notFound,
	}
}

func (c collection[T, PT]) coll() *mongo.Collection {
	return c.store.Collection(c.name)
}

func (c collection[T, PT]) stamp(doc PT) {
	now := c.store.now()
	if h, ok := any(doc).(beforeSaver); ok {
		h.BeforeSave(now)
		return
	}
	doc.Touch(now)
}

func (c collection[T, PT]) Insert(ctx context.Context, doc PT) error {
	ctx, span := c.store.tracer.Start(ctx, c.span+".Insert")
	defer span.End()

	if doc.GetID().IsZero() {
		doc.SetID(primitive.NewObjectID())
	}
	c.stamp(doc)

	err := c.store.execute(func() error {
		_, err := c.coll().InsertOne(ctx, doc)
		return err
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		c.logger.WithError(err).Error("insert failed")
		return err
	}
	c.logger.WithField("id", doc.GetID().Hex()).Debug("document inserted")
	return nil
}

func (c collection[T, PT]) FindByID(ctx context.Context, id primitive.ObjectID) (PT, error) {
	return c.FindOne(ctx, bson.M{"_id": id})
}

func (c collection[T, PT]) FindOne(ctx context.Context, filter interface{}) (PT, error) {
	ctx, span := c.store.tracer.Start(ctx, c.span+".FindOne")
	defer span.End()

	var doc T
	err := c.store.execute(func() error {
		return c.coll().FindOne(ctx, filter).Decode(&doc)
	})
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.NewNotFoundError(c.notFound)
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		c.logger.WithError(err).Error("find failed")
		return nil, err
	}
	return PT(&doc), nil
}

// Replace writes the whole document back.
func (c collection[T, PT]) Replace(ctx context.Context, doc PT) error {
	ctx, span := c.store.tracer.Start(ctx, c.span+".Replace")
	defer span.End()

	c.stamp(doc)

	var matched int64
	err := c.store.execute(func() error {
		res, err := c.coll().ReplaceOne(ctx, bson.M{"_id": doc.GetID()}, doc)
		if err != nil {
			return err
		}
		matched = res.MatchedCount
		return nil
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		c.logger.WithError(err).Error("replace failed")
		return err
	}
	if matched == 0 {
		return domain.NewNotFoundError(c.notFound)
	}
	return nil
}

// Update applies an update document to one record and bumps updatedAt.
func (c collection[T, PT]) Update(ctx context.Context, filter bson.M, update bson.M) error {
	ctx, span := c.store.tracer.Start(ctx, c.span+".Update")
	defer span.End()

	set, _ := update["$set"].(bson.M)
	if set == nil {
		set = bson.M{}
	}
	set["updatedAt"] = c.store.now()
	update["$set"] = set

	var matched int64
	err := c.store.execute(func() error {
		res, err := c.coll().UpdateOne(ctx, filter, update)
		if err != nil {
			return err
		}
		matched = res.MatchedCount
		return nil
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		c.logger.WithError(err).Error("update failed")
		return err
	}
	if matched == 0 {
		return domain.NewNotFoundError(c.notFound)
	}
	return nil
}

func (c collection[T, PT]) UpdateByID(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	return c.Update(ctx, bson.M{"_id": id}, update)
}

func (c collection[T, PT]) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	ctx, span := c.store.tracer.Start(ctx, c.span+".Delete")
	defer span.End()

	var deleted int64
	err := c.store.execute(func() error {
		res, err := c.coll().DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			return err
		}
		deleted = res.DeletedCount
		return nil
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		c.logger.WithError(err).Error("delete failed")
		return err
	}
	if deleted == 0 {
		return domain.NewNotFoundError(c.notFound)
	}
	return nil
}

func (c collection[T, PT]) DeleteMany(ctx context.Context, filter interface{}) (int64, error) {
	ctx, span := c.store.tracer.Start(ctx, c.span+".DeleteMany")
	defer span.End()

	var deleted int64
	err := c.store.execute(func() error {
		res, err := c.coll().DeleteMany(ctx, filter)
		if err != nil {
			return err
		}
		deleted = res.DeletedCount
		return nil
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		c.logger.WithError(err).Error("delete many failed")
	}
	return deleted, err
}

func (c collection[T, PT]) Count(ctx context.Context, filter interface{}) (int64, error) {
	var total int64
	err := c.store.execute(func() error {
		n, err := c.coll().CountDocuments(ctx, filter)
		total = n
		return err
	})
	return total, err
}

// List counts the filtered set before applying the page window, then
// fetches the window.
func (c collection[T, PT]) List(ctx context.Context, q query.ListQuery) ([]PT, int64, error) {
	ctx, span := c.store.tracer.Start(ctx, c.span+".List")
	defer span.End()

	filter := q.Filter()

	total, err := c.Count(ctx, filter)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		c.logger.WithError(err).Error("count failed")
		return nil, 0, err
	}

	docs := []PT{}
	err = c.store.execute(func() error {
		cursor, err := c.coll().Find(ctx, filter, q.FindOptions())
		if err != nil {
			return err
		}
		return cursor.All(ctx, &docs)
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		c.logger.WithError(err).Error("find failed")
		return nil, 0, err
	}
	return docs, total, nil
}

// UpdateMany applies update to every matching document and bumps updatedAt.
func (c collection[T, PT]) UpdateMany(ctx context.Context, filter interface{}, update bson.M) (int64, error) {
	ctx, span := c.store.tracer.Start(ctx, c.span+".UpdateMany")
	defer span.End()

	set, _ := update["$set"].(bson.M)
	if set == nil {
		set = bson.M{}
	}
	set["updatedAt"] = c.store.now()
	update["$set"] = set

	var modified int64
	err := c.store.execute(func() error {
		res, err := c.coll().UpdateMany(ctx, filter, update)
		if err != nil {
			return err
		}
		modified = res.ModifiedCount
		return nil
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		c.logger.WithError(err).Error("update many failed")
	}
	return modified, err
}

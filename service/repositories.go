package service

import (
	"context"
	"time"

	"github.com/joeyave/club-admin/entity"
	"github.com/joeyave/club-admin/filter"
	"github.com/joeyave/club-admin/repository"
	"go.mongodb.org/mongo-driver/v2/bson"
)

var ErrNotFound = repository.ErrNotFound

type ParticipationRepository interface {
	Report(ctx context.Context, p filter.Predicate, w entity.Window) ([]*entity.Participation, entity.SummaryCounts, error)
	Counts(ctx context.Context, p filter.Predicate) (entity.SummaryCounts, error)
	FindAll(ctx context.Context, p filter.Predicate) ([]*entity.Participation, error)
	FindEmails(ctx context.Context, p filter.Predicate) ([]string, error)
	FindOneByID(ctx context.Context, kind entity.Kind, ID bson.ObjectID) (*entity.Participation, error)

	InsertOne(ctx context.Context, kind entity.Kind, record entity.Participation) (*entity.Participation, error)
	SetApproval(ctx context.Context, ID bson.ObjectID, approved *bool) error
	SetStatus(ctx context.Context, ID bson.ObjectID, status entity.Bucket) error
	CheckIn(ctx context.Context, ID bson.ObjectID, at time.Time) (bool, error)
	UndoCheckIn(ctx context.Context, ID bson.ObjectID) error
}

type UserRepository interface {
	FindOneByID(ctx context.Context, ID bson.ObjectID) (*entity.User, error)
}

type EventRepository interface {
	FindOneByID(ctx context.Context, ID bson.ObjectID) (*entity.Event, error)
}

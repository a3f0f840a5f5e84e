package repository

import (
	"context"
	"time"

	"github.com/flowchartsman/retry"
	"github.com/joeyave/club-admin/entity"
	"github.com/joeyave/club-admin/filter"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

type ParticipationRepository struct {
	mongoClient   *mongo.Client
	dbName        string
	exportRetries int
}

func NewParticipationRepository(mongoClient *mongo.Client, dbName string, exportRetries int) *ParticipationRepository {
	if exportRetries < 1 {
		exportRetries = 1
	}
	return &ParticipationRepository{
		mongoClient:   mongoClient,
		dbName:        dbName,
		exportRetries: exportRetries,
	}
}

func (r *ParticipationRepository) collection(kind entity.Kind) *mongo.Collection {
	return r.mongoClient.Database(r.dbName).Collection(kind.Collection())
}

func (r *ParticipationRepository) Report(ctx context.Context, p filter.Predicate, w entity.Window) ([]*entity.Participation, entity.SummaryCounts, error) {
	res, err := r.facet(ctx, p.Kind, pagePipeline(p, w))
	if err != nil {
		return nil, entity.SummaryCounts{}, err
	}

	items := res.Items
	if items == nil {
		items = []*entity.Participation{}
	}

	return items, res.counts(p.Kind), nil
}

func (r *ParticipationRepository) Counts(ctx context.Context, p filter.Predicate) (entity.SummaryCounts, error) {
	res, err := r.facet(ctx, p.Kind, countsPipeline(p))
	if err != nil {
		return entity.SummaryCounts{}, err
	}

	return res.counts(p.Kind), nil
}

func (r *ParticipationRepository) facet(ctx context.Context, kind entity.Kind, pipeline bson.A) (*facetResult, error) {
	cur, err := r.collection(kind).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, wrapErr(err)
	}

	var results []*facetResult
	err = cur.All(ctx, &results)
	if err != nil {
		return nil, wrapErr(err)
	}

	// $facet always emits exactly one document.
	if len(results) == 0 {
		return &facetResult{}, nil
	}

	return results[0], nil
}

// FindAll returns every matching record in report order, without a window.
func (r *ParticipationRepository) FindAll(ctx context.Context, p filter.Predicate) ([]*entity.Participation, error) {
	var records []*entity.Participation
	err := r.export(ctx, p.Kind, exportPipeline(p), &records)
	if err != nil {
		return nil, err
	}

	if records == nil {
		records = []*entity.Participation{}
	}
	return records, nil
}

// FindEmails returns the joined user emails in report order. Records without a
// joined email are skipped, so the count can be lower than the report total.
func (r *ParticipationRepository) FindEmails(ctx context.Context, p filter.Predicate) ([]string, error) {
	var docs []struct {
		Email string `bson:"email"`
	}
	err := r.export(ctx, p.Kind, emailsPipeline(p), &docs)
	if err != nil {
		return nil, err
	}

	emails := make([]string, 0, len(docs))
	for _, doc := range docs {
		if doc.Email == "" {
			continue
		}
		emails = append(emails, doc.Email)
	}

	return emails, nil
}

// export runs an unbounded read. Transient failures are retried; the last one is
// returned wrapped in ErrUnavailable so a partial file is never produced.
func (r *ParticipationRepository) export(ctx context.Context, kind entity.Kind, pipeline bson.A, results any) error {
	return retryRead(r.exportRetries, func() error {
		cur, err := r.collection(kind).Aggregate(ctx, pipeline, options.Aggregate().SetAllowDiskUse(true))
		if err != nil {
			return err
		}
		return cur.All(ctx, results)
	})
}

// retryRead runs read up to tries times. Only transient errors are retried.
func retryRead(tries int, read func() error) error {
	retrier := retry.NewRetrier(tries, 100*time.Millisecond, time.Second)

	var lastErr error
	err := retrier.Run(func() error {
		err := read()
		lastErr = err
		if err != nil && !isTransient(err) {
			return retry.Stop(err)
		}
		return err
	})
	if err != nil {
		return wrapErr(lastErr)
	}

	return nil
}

func (r *ParticipationRepository) FindOneByID(ctx context.Context, kind entity.Kind, ID bson.ObjectID) (*entity.Participation, error) {
	pipeline := append(bson.A{bson.M{"$match": bson.M{"_id": ID}}}, joinStages(kind)...)

	cur, err := r.collection(kind).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, wrapErr(err)
	}

	var records []*entity.Participation
	err = cur.All(ctx, &records)
	if err != nil {
		return nil, wrapErr(err)
	}

	if len(records) == 0 {
		return nil, ErrNotFound
	}

	return records[0], nil
}

func (r *ParticipationRepository) InsertOne(ctx context.Context, kind entity.Kind, record entity.Participation) (*entity.Participation, error) {
	if record.ID.IsZero() {
		record.ID = bson.NewObjectID()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	record.User = nil
	record.Event = nil

	_, err := r.collection(kind).InsertOne(ctx, record)
	if err != nil {
		return nil, wrapErr(err)
	}

	return r.FindOneByID(ctx, kind, record.ID)
}

// SetApproval writes the tri-state approval of a registration. Anything but approved
// also clears the check-in.
func (r *ParticipationRepository) SetApproval(ctx context.Context, ID bson.ObjectID, approved *bool) error {
	set := bson.M{"approved": approved}
	update := bson.M{"$set": set}
	if approved == nil || !*approved {
		set["checkedIn"] = false
		update["$unset"] = bson.M{"checkedInAt": ""}
	}

	return r.updateOne(ctx, entity.KindRegistration, bson.M{"_id": ID}, update)
}

func (r *ParticipationRepository) SetStatus(ctx context.Context, ID bson.ObjectID, status entity.Bucket) error {
	return r.updateOne(ctx, entity.KindVolunteer, bson.M{"_id": ID}, bson.M{
		"$set": bson.M{"status": string(status)},
	})
}

// CheckIn marks an approved, not yet checked in registration. It reports whether a document changed;
// false covers unknown, unapproved and already checked in records alike.
func (r *ParticipationRepository) CheckIn(ctx context.Context, ID bson.ObjectID, at time.Time) (bool, error) {
	query := bson.M{
		"_id":       ID,
		"approved":  true,
		"checkedIn": bson.M{"$ne": true},
	}

	update := bson.M{
		"$set": bson.M{
			"checkedIn":   true,
			"checkedInAt": at,
		},
	}

	res, err := r.collection(entity.KindRegistration).UpdateOne(ctx, query, update)
	if err != nil {
		return false, wrapErr(err)
	}

	return res.ModifiedCount > 0, nil
}

func (r *ParticipationRepository) UndoCheckIn(ctx context.Context, ID bson.ObjectID) error {
	return r.updateOne(ctx, entity.KindRegistration, bson.M{"_id": ID}, bson.M{
		"$set":   bson.M{"checkedIn": false},
		"$unset": bson.M{"checkedInAt": ""},
	})
}

func (r *ParticipationRepository) updateOne(ctx context.Context, kind entity.Kind, query bson.M, update bson.M) error {
	res, err := r.collection(kind).UpdateOne(ctx, query, update)
	if err != nil {
		return wrapErr(err)
	}

	if res.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

// Ping checks that the primary is reachable.
func (r *ParticipationRepository) Ping(ctx context.Context) error {
	return wrapErr(r.mongoClient.Ping(ctx, readpref.Primary()))
}

// Package servicetest has in-memory repositories for service and controller tests.
package servicetest

import (
	"context"
	"sync"
	"time"

	"github.com/joeyave/club-admin/entity"
	"github.com/joeyave/club-admin/filter"
	"github.com/joeyave/club-admin/repository"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// ParticipationRepository keeps records in memory. Counts honours the kind and the
// event scope only, which is all mutation responses ask for.
type ParticipationRepository struct {
	mu      sync.Mutex
	records map[bson.ObjectID]*entity.Participation
	kinds   map[bson.ObjectID]entity.Kind

	// Report, FindAll and FindEmails return these canned values.
	Items   []*entity.Participation
	Counted entity.SummaryCounts
	Emails  []string
	// Err fails every read.
	Err error

	LastWindow entity.Window
}

func NewParticipationRepository() *ParticipationRepository {
	return &ParticipationRepository{
		records: map[bson.ObjectID]*entity.Participation{},
		kinds:   map[bson.ObjectID]entity.Kind{},
	}
}

func (f *ParticipationRepository) Add(kind entity.Kind, record entity.Participation) bson.ObjectID {
	f.mu.Lock()
	defer f.mu.Unlock()

	if record.ID.IsZero() {
		record.ID = bson.NewObjectID()
	}
	f.records[record.ID] = &record
	f.kinds[record.ID] = kind
	return record.ID
}

func (f *ParticipationRepository) Report(_ context.Context, _ filter.Predicate, w entity.Window) ([]*entity.Participation, entity.SummaryCounts, error) {
	f.LastWindow = w
	if f.Err != nil {
		return nil, entity.SummaryCounts{}, f.Err
	}
	return f.Items, f.Counted, nil
}

func (f *ParticipationRepository) Counts(_ context.Context, p filter.Predicate) (entity.SummaryCounts, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Err != nil {
		return entity.SummaryCounts{}, f.Err
	}

	var counts entity.SummaryCounts
	var checkedIn int64
	for id, record := range f.records {
		if f.kinds[id] != p.Kind {
			continue
		}
		if p.EventID != "" && (record.EventID == nil || record.EventID.Hex() != p.EventID) {
			continue
		}

		counts.Total++
		switch record.Bucket(p.Kind) {
		case entity.BucketApproved:
			counts.Approved++
		case entity.BucketRejected:
			counts.Rejected++
		default:
			counts.Pending++
		}
		if record.CheckedIn {
			checkedIn++
		}
	}

	if p.Kind.HasCheckIn() {
		counts.CheckedIn = &checkedIn
	}
	return counts, nil
}

func (f *ParticipationRepository) FindAll(context.Context, filter.Predicate) ([]*entity.Participation, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Items, nil
}

func (f *ParticipationRepository) FindEmails(context.Context, filter.Predicate) ([]string, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Emails, nil
}

func (f *ParticipationRepository) FindOneByID(_ context.Context, kind entity.Kind, ID bson.ObjectID) (*entity.Participation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	record, ok := f.records[ID]
	if !ok || f.kinds[ID] != kind {
		return nil, repository.ErrNotFound
	}
	cp := *record
	return &cp, nil
}

func (f *ParticipationRepository) InsertOne(ctx context.Context, kind entity.Kind, record entity.Participation) (*entity.Participation, error) {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	id := f.Add(kind, record)
	return f.FindOneByID(ctx, kind, id)
}

func (f *ParticipationRepository) update(ID bson.ObjectID, fn func(record *entity.Participation)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	record, ok := f.records[ID]
	if !ok {
		return repository.ErrNotFound
	}
	fn(record)
	return nil
}

func (f *ParticipationRepository) SetApproval(_ context.Context, ID bson.ObjectID, approved *bool) error {
	return f.update(ID, func(record *entity.Participation) {
		record.Approved = approved
		if approved == nil || !*approved {
			record.CheckedIn = false
			record.CheckedInAt = nil
		}
	})
}

func (f *ParticipationRepository) SetStatus(_ context.Context, ID bson.ObjectID, status entity.Bucket) error {
	return f.update(ID, func(record *entity.Participation) {
		record.Status = status
	})
}

func (f *ParticipationRepository) CheckIn(_ context.Context, ID bson.ObjectID, at time.Time) (bool, error) {
	changed := false
	err := f.update(ID, func(record *entity.Participation) {
		if record.Approved != nil && *record.Approved && !record.CheckedIn {
			record.CheckedIn = true
			record.CheckedInAt = &at
			changed = true
		}
	})
	return changed, err
}

func (f *ParticipationRepository) UndoCheckIn(_ context.Context, ID bson.ObjectID) error {
	return f.update(ID, func(record *entity.Participation) {
		record.CheckedIn = false
		record.CheckedInAt = nil
	})
}

type UserRepository map[bson.ObjectID]*entity.User

func (f UserRepository) FindOneByID(_ context.Context, ID bson.ObjectID) (*entity.User, error) {
	if u, ok := f[ID]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

type EventRepository map[bson.ObjectID]*entity.Event

func (f EventRepository) FindOneByID(_ context.Context, ID bson.ObjectID) (*entity.Event, error) {
	if e, ok := f[ID]; ok {
		return e, nil
	}
	return nil, repository.ErrNotFound
}

func (f *ParticipationRepository) Ping(context.Context) error {
	return f.Err
}

package service

import (
	"context"
	"errors"
	"time"

	"github.com/joeyave/club-admin/entity"
	"github.com/joeyave/club-admin/filter"
	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNotApproved   = errors.New("only approved registrations can be checked in")
	ErrInvalidStatus = errors.New("status must be one of pending, approved, rejected")
)

// Moderation is the state after an admin action: the fresh record and the
// recount of its scope (its event, or all volunteer applications).
type Moderation struct {
	Item  *entity.Participation `json:"item"`
	Stats entity.SummaryCounts  `json:"stats"`
}

type ModerationService struct {
	participationRepository ParticipationRepository
	now                     func() time.Time
}

func NewModerationService(participationRepository ParticipationRepository) *ModerationService {
	return &ModerationService{
		participationRepository: participationRepository,
		now:                     time.Now,
	}
}

func (s *ModerationService) FindOneByID(ctx context.Context, kind entity.Kind, ID bson.ObjectID) (*entity.Participation, error) {
	return s.participationRepository.FindOneByID(ctx, kind, ID)
}

// SetApproval sets a registration to approved (true), rejected (false) or pending (nil).
// Repeating the same call leaves the record and the counts unchanged.
func (s *ModerationService) SetApproval(ctx context.Context, ID bson.ObjectID, approved *bool) (*Moderation, error) {
	return s.mutate(ctx, entity.KindRegistration, ID, func(*entity.Participation) error {
		return s.participationRepository.SetApproval(ctx, ID, approved)
	})
}

func (s *ModerationService) SetStatus(ctx context.Context, ID bson.ObjectID, status entity.Bucket) (*Moderation, error) {
	switch status {
	case entity.BucketApproved, entity.BucketRejected, entity.BucketPending:
	default:
		return nil, ErrInvalidStatus
	}

	return s.mutate(ctx, entity.KindVolunteer, ID, func(*entity.Participation) error {
		return s.participationRepository.SetStatus(ctx, ID, status)
	})
}

// CheckIn is allowed only from the approved bucket. Checking in twice keeps the first timestamp.
func (s *ModerationService) CheckIn(ctx context.Context, ID bson.ObjectID) (*Moderation, error) {
	return s.mutate(ctx, entity.KindRegistration, ID, func(record *entity.Participation) error {
		if record.Bucket(entity.KindRegistration) != entity.BucketApproved {
			return ErrNotApproved
		}

		changed, err := s.participationRepository.CheckIn(ctx, ID, s.now().UTC())
		if err != nil {
			return err
		}
		if changed || record.CheckedIn {
			return nil
		}

		// Approval was withdrawn between the read and the update.
		return ErrNotApproved
	})
}

func (s *ModerationService) UndoCheckIn(ctx context.Context, ID bson.ObjectID) (*Moderation, error) {
	return s.mutate(ctx, entity.KindRegistration, ID, func(*entity.Participation) error {
		return s.participationRepository.UndoCheckIn(ctx, ID)
	})
}

func (s *ModerationService) mutate(ctx context.Context, kind entity.Kind, ID bson.ObjectID, fn func(record *entity.Participation) error) (*Moderation, error) {
	record, err := s.participationRepository.FindOneByID(ctx, kind, ID)
	if err != nil {
		return nil, err
	}

	err = fn(record)
	if err != nil {
		return nil, err
	}

	var eventID string
	if record.EventID != nil {
		eventID = record.EventID.Hex()
	}
	scope := filter.Scope(kind, eventID)

	var m Moderation
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		item, err := s.participationRepository.FindOneByID(gctx, kind, ID)
		m.Item = item
		return err
	})
	g.Go(func() error {
		stats, err := s.participationRepository.Counts(gctx, scope)
		m.Stats = stats
		return err
	})

	err = g.Wait()
	if err != nil {
		return nil, err
	}

	return &m, nil
}

package service

import (
	"context"
	"fmt"

	"github.com/joeyave/club-admin/entity"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// IntakeService stores new submissions. It does not enforce one record per user and event.
type IntakeService struct {
	participationRepository ParticipationRepository
	userRepository          UserRepository
	eventRepository         EventRepository
}

func NewIntakeService(participationRepository ParticipationRepository, userRepository UserRepository, eventRepository EventRepository) *IntakeService {
	return &IntakeService{
		participationRepository: participationRepository,
		userRepository:          userRepository,
		eventRepository:         eventRepository,
	}
}

func (s *IntakeService) Register(ctx context.Context, userID, eventID bson.ObjectID) (*entity.Participation, error) {
	_, err := s.userRepository.FindOneByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", userID.Hex(), err)
	}

	_, err = s.eventRepository.FindOneByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("event %s: %w", eventID.Hex(), err)
	}

	return s.participationRepository.InsertOne(ctx, entity.KindRegistration, entity.Participation{
		UserID:  userID,
		EventID: &eventID,
	})
}

func (s *IntakeService) Apply(ctx context.Context, application entity.Participation) (*entity.Participation, error) {
	_, err := s.userRepository.FindOneByID(ctx, application.UserID)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", application.UserID.Hex(), err)
	}

	application.ID = bson.ObjectID{}
	application.EventID = nil
	application.Approved = nil
	application.CheckedIn = false
	application.CheckedInAt = nil
	application.Status = entity.BucketPending

	return s.participationRepository.InsertOne(ctx, entity.KindVolunteer, application)
}

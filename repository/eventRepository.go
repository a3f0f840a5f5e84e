package repository

import (
	"context"

	"github.com/joeyave/club-admin/entity"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type EventRepository struct {
	mongoClient *mongo.Client
	dbName      string
}

func NewEventRepository(mongoClient *mongo.Client, dbName string) *EventRepository {
	return &EventRepository{
		mongoClient: mongoClient,
		dbName:      dbName,
	}
}

func (r *EventRepository) FindOneByID(ctx context.Context, ID bson.ObjectID) (*entity.Event, error) {
	collection := r.mongoClient.Database(r.dbName).Collection("events")

	var event *entity.Event
	err := collection.FindOne(ctx, bson.M{"_id": ID}).Decode(&event)
	if err != nil {
		return nil, wrapErr(err)
	}

	return event, nil
}

package repository

import (
	"context"

	"github.com/joeyave/club-admin/entity"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type UserRepository struct {
	mongoClient *mongo.Client
	dbName      string
}

func NewUserRepository(mongoClient *mongo.Client, dbName string) *UserRepository {
	return &UserRepository{
		mongoClient: mongoClient,
		dbName:      dbName,
	}
}

func (r *UserRepository) FindOneByID(ctx context.Context, ID bson.ObjectID) (*entity.User, error) {
	collection := r.mongoClient.Database(r.dbName).Collection("users")

	var user *entity.User
	err := collection.FindOne(ctx, bson.M{"_id": ID}).Decode(&user)
	if err != nil {
		return nil, wrapErr(err)
	}

	return user, nil
}

// Package migrations holds one-off data fixes for the registrations and volunteers collections.
package migrations

import (
	"context"
	"fmt"

	"github.com/joeyave/club-admin/entity"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// EnsureIndexes creates the indexes the report pipelines sort and match on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		entity.KindRegistration.Collection(): {
			{Keys: bson.D{{Key: "eventId", Value: 1}, {Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}},
			{Keys: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}},
			{Keys: bson.D{{Key: "userId", Value: 1}}},
		},
		entity.KindVolunteer.Collection(): {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}},
			{Keys: bson.D{{Key: "userId", Value: 1}}},
		},
		"users": {
			{Keys: bson.D{{Key: "email", Value: 1}}},
		},
	}

	for collection, models := range indexes {
		names, err := db.Collection(collection).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("indexes on %s: %w", collection, err)
		}
		log.Info().Str("collection", collection).Strs("indexes", names).Msg("Indexes ensured")
	}

	return nil
}

// BackfillCheckedInAt restores the check-in invariant on registrations:
// a timestamp exists iff the record is checked in, and only approved records are checked in.
func BackfillCheckedInAt(ctx context.Context, db *mongo.Database) error {
	collection := db.Collection(entity.KindRegistration.Collection())

	// Checked in without a timestamp: the submission time is the best guess.
	res, err := collection.UpdateMany(ctx,
		bson.M{"checkedIn": true, "approved": true, "checkedInAt": nil},
		bson.A{bson.M{"$set": bson.M{"checkedInAt": "$createdAt"}}},
	)
	if err != nil {
		return err
	}
	log.Info().Int64("modified", res.ModifiedCount).Msg("Backfilled checkedInAt")

	res, err = collection.UpdateMany(ctx,
		bson.M{"$or": bson.A{
			bson.M{"checkedIn": true, "approved": bson.M{"$ne": true}},
			bson.M{"checkedIn": bson.M{"$ne": true}, "checkedInAt": bson.M{"$exists": true}},
		}},
		bson.M{
			"$set":   bson.M{"checkedIn": false},
			"$unset": bson.M{"checkedInAt": ""},
		},
	)
	if err != nil {
		return err
	}
	log.Info().Int64("modified", res.ModifiedCount).Msg("Cleared invalid check-ins")

	return nil
}

type legacyVolunteer struct {
	ID       bson.ObjectID `bson:"_id"`
	Approved *bool         `bson:"approved"`
}

// MigrateVolunteerStatus converts volunteer applications that still carry the
// tri-state approved flag to the status field.
func MigrateVolunteerStatus(ctx context.Context, db *mongo.Database) (int, error) {
	collection := db.Collection(entity.KindVolunteer.Collection())

	cursor, err := collection.Find(ctx,
		bson.M{"status": bson.M{"$exists": false}},
		options.Find().SetProjection(bson.M{"approved": 1}),
	)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	migrated := 0
	for cursor.Next(ctx) {
		var volunteer legacyVolunteer
		if err := cursor.Decode(&volunteer); err != nil {
			log.Warn().Err(err).Msg("Skipping undecodable volunteer")
			continue
		}

		status := entity.BucketPending
		if volunteer.Approved != nil {
			if *volunteer.Approved {
				status = entity.BucketApproved
			} else {
				status = entity.BucketRejected
			}
		}

		_, err := collection.UpdateOne(ctx,
			bson.M{"_id": volunteer.ID},
			bson.M{
				"$set":   bson.M{"status": status},
				"$unset": bson.M{"approved": ""},
			},
		)
		if err != nil {
			return migrated, err
		}
		migrated++
	}

	return migrated, cursor.Err()
}

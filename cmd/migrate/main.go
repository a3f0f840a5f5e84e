package main

import (
	"context"
	"fmt"
	"time"

	"github.com/joeyave/club-admin/configs"
	"github.com/joeyave/club-admin/migrations"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

func main() {
	configs.LoadEnv()

	config, err := configs.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	config.SetupLogger()

	mongoClient, err := mongo.Connect(options.Client().ApplyURI(config.MongoURI))
	if err != nil {
		panic(fmt.Sprintf("failed to connect mongo: %v", err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(ctx)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	if err := mongoClient.Ping(ctx, readpref.Primary()); err != nil {
		panic(fmt.Sprintf("failed to ping mongo: %v", err))
	}

	db := mongoClient.Database(config.MongoName)

	if err := migrations.EnsureIndexes(ctx, db); err != nil {
		panic(fmt.Sprintf("failed to ensure indexes: %v", err))
	}
	if err := migrations.BackfillCheckedInAt(ctx, db); err != nil {
		panic(fmt.Sprintf("failed to backfill check-ins: %v", err))
	}
	migrated, err := migrations.MigrateVolunteerStatus(ctx, db)
	if err != nil {
		panic(fmt.Sprintf("failed to migrate volunteer status after %d records: %v", migrated, err))
	}

	fmt.Printf("Migration finished. volunteers=%d\n", migrated)
}

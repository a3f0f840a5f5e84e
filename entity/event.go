package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Event struct {
	ID       bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Title    string        `bson:"title,omitempty" json:"title"`
	Date     time.Time     `bson:"date,omitempty" json:"date"`
	Location string        `bson:"location,omitempty" json:"location,omitempty"`
}

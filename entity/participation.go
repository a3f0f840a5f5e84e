package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Bucket string

const (
	BucketAny      Bucket = ""
	BucketApproved Bucket = "approved"
	BucketRejected Bucket = "rejected"
	BucketPending  Bucket = "pending"
)

func (b Bucket) Label() string {
	switch b {
	case BucketApproved:
		return "Approved"
	case BucketRejected:
		return "Rejected"
	default:
		return "Pending"
	}
}

// Participation is either an event registration or a volunteer application.
// Registrations carry the tri-state Approved flag, volunteer applications carry Status.
type Participation struct {
	ID bson.ObjectID `bson:"_id,omitempty" json:"id"`

	UserID bson.ObjectID `bson:"userId" json:"userId"`
	User   *User         `bson:"user,omitempty" json:"user"`

	EventID *bson.ObjectID `bson:"eventId,omitempty" json:"eventId,omitempty"`
	Event   *Event         `bson:"event,omitempty" json:"event,omitempty"`

	Approved *bool  `bson:"approved,omitempty" json:"approved,omitempty"`
	Status   Bucket `bson:"status,omitempty" json:"status,omitempty"`

	CheckedIn   bool       `bson:"checkedIn,omitempty" json:"checkedIn"`
	CheckedInAt *time.Time `bson:"checkedInAt,omitempty" json:"checkedInAt"`

	Availability   []string `bson:"availability,omitempty" json:"availability,omitempty"`
	Interests      []string `bson:"interests,omitempty" json:"interests,omitempty"`
	Experience     string   `bson:"experience,omitempty" json:"experience,omitempty"`
	Motivation     string   `bson:"motivation,omitempty" json:"motivation,omitempty"`
	Skills         []string `bson:"skills,omitempty" json:"skills,omitempty"`
	Languages      []string `bson:"languages,omitempty" json:"languages,omitempty"`
	AdditionalInfo string   `bson:"additionalInfo,omitempty" json:"additionalInfo,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// Bucket maps the record onto one of the three approval buckets.
func (p *Participation) Bucket(kind Kind) Bucket {
	if kind == KindVolunteer {
		switch p.Status {
		case BucketApproved, BucketRejected:
			return p.Status
		}
		return BucketPending
	}

	if p.Approved == nil {
		return BucketPending
	}
	if *p.Approved {
		return BucketApproved
	}
	return BucketRejected
}

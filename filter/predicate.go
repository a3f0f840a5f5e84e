package filter

import (
	"github.com/joeyave/club-admin/entity"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Stage tells where in the pipeline a fragment has to be matched.
type Stage int

const (
	// StageRecord fragments only touch the participation document and run before the join.
	StageRecord Stage = iota
	// StageJoined fragments touch user or event fields and run after the join.
	StageJoined
)

type Fragment struct {
	Stage Stage
	Match bson.M
}

type AgeRange struct {
	Min int  `json:"min"`
	Max *int `json:"max,omitempty"`
}

func (r AgeRange) Contains(age int) bool {
	if age < r.Min {
		return false
	}
	return r.Max == nil || age <= *r.Max
}

// Predicate is the compiled form of a report query.
type Predicate struct {
	Kind entity.Kind `json:"-"`

	EventID string        `json:"eventId,omitempty"`
	Status  entity.Bucket `json:"status,omitempty"`
	Search  string        `json:"search,omitempty"`
	Age     *AgeRange     `json:"ageRange,omitempty"`
	Gender  entity.Gender `json:"gender,omitempty"`

	fragments []Fragment
}

// Match ANDs every fragment of the given stage. An empty document matches everything.
func (p Predicate) Match(stage Stage) bson.M {
	var and bson.A
	for _, f := range p.fragments {
		if f.Stage == stage {
			and = append(and, f.Match)
		}
	}

	switch len(and) {
	case 0:
		return bson.M{}
	case 1:
		return and[0].(bson.M)
	default:
		return bson.M{"$and": and}
	}
}

func (p Predicate) HasStage(stage Stage) bool {
	for _, f := range p.fragments {
		if f.Stage == stage {
			return true
		}
	}
	return false
}

// Scope returns a predicate that keeps only the event of p. Mutation responses
// use it to recount the record's event without the caller's other filters.
func Scope(kind entity.Kind, eventID string) Predicate {
	p := Predicate{Kind: kind}
	if kind.HasEvent() && eventID != "" {
		if f, ok := eventFragment(kind, eventID, &p); ok {
			p.fragments = append(p.fragments, f)
		}
	}
	return p
}

// StatusMatch is the record-stage condition for one approval bucket.
// The pending condition is the complement of the other two so the buckets always partition the set.
func StatusMatch(kind entity.Kind, bucket entity.Bucket) bson.M {
	if kind == entity.KindVolunteer {
		switch bucket {
		case entity.BucketApproved, entity.BucketRejected:
			return bson.M{"status": string(bucket)}
		case entity.BucketPending:
			return bson.M{"status": bson.M{"$nin": bson.A{string(entity.BucketApproved), string(entity.BucketRejected)}}}
		}
		return bson.M{}
	}

	switch bucket {
	case entity.BucketApproved:
		return bson.M{"approved": true}
	case entity.BucketRejected:
		return bson.M{"approved": false}
	case entity.BucketPending:
		return bson.M{"approved": bson.M{"$nin": bson.A{true, false}}}
	}
	return bson.M{}
}

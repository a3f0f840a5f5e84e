package repository

import (
	"github.com/joeyave/club-admin/entity"
	"github.com/joeyave/club-admin/filter"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// joinStages attaches the user and, for registrations, the event.
// A missing reference leaves the field absent instead of dropping the record.
func joinStages(kind entity.Kind) bson.A {
	stages := bson.A{
		bson.M{
			"$lookup": bson.M{
				"from":         "users",
				"localField":   "userId",
				"foreignField": "_id",
				"as":           "user",
			},
		},
		bson.M{
			"$unwind": bson.M{
				"path":                       "$user",
				"preserveNullAndEmptyArrays": true,
			},
		},
	}

	if kind.HasEvent() {
		stages = append(stages,
			bson.M{
				"$lookup": bson.M{
					"from":         "events",
					"localField":   "eventId",
					"foreignField": "_id",
					"as":           "event",
				},
			},
			bson.M{
				"$unwind": bson.M{
					"path":                       "$event",
					"preserveNullAndEmptyArrays": true,
				},
			},
		)
	}

	return stages
}

// filteredPipeline is the prefix shared by every report view: match own fields,
// join, then match joined fields.
func filteredPipeline(p filter.Predicate) bson.A {
	pipeline := bson.A{
		bson.M{"$match": p.Match(filter.StageRecord)},
	}

	pipeline = append(pipeline, joinStages(p.Kind)...)

	if p.HasStage(filter.StageJoined) {
		pipeline = append(pipeline, bson.M{"$match": p.Match(filter.StageJoined)})
	}

	return pipeline
}

func sortStage() bson.M {
	return bson.M{
		"$sort": bson.D{
			{Key: "createdAt", Value: -1},
			{Key: "_id", Value: -1},
		},
	}
}

func projectStage(kind entity.Kind) bson.M {
	fields := bson.M{
		"userId":    1,
		"createdAt": 1,

		"user._id":             1,
		"user.name":            1,
		"user.email":           1,
		"user.phone":           1,
		"user.age":             1,
		"user.gender":          1,
		"user.sex":             1,
		"user.instagramHandle": 1,
	}

	switch kind {
	case entity.KindVolunteer:
		for _, f := range []string{"status", "availability", "interests", "experience", "motivation", "skills", "languages", "additionalInfo"} {
			fields[f] = 1
		}
	default:
		for _, f := range []string{"eventId", "approved", "checkedIn", "checkedInAt", "event._id", "event.title", "event.date", "event.location"} {
			fields[f] = 1
		}
	}

	return bson.M{"$project": fields}
}

func countFacet(match bson.M) bson.A {
	facet := bson.A{}
	if match != nil {
		facet = append(facet, bson.M{"$match": match})
	}
	return append(facet, bson.M{"$count": "n"})
}

// countFacets fans one filtered set out into the summary buckets.
func countFacets(kind entity.Kind) bson.M {
	facets := bson.M{
		"total":    countFacet(nil),
		"approved": countFacet(filter.StatusMatch(kind, entity.BucketApproved)),
		"rejected": countFacet(filter.StatusMatch(kind, entity.BucketRejected)),
		"pending":  countFacet(filter.StatusMatch(kind, entity.BucketPending)),
	}

	if kind.HasCheckIn() {
		facets["checkedIn"] = countFacet(bson.M{"checkedIn": true})
	}

	return facets
}

func countsPipeline(p filter.Predicate) bson.A {
	return append(filteredPipeline(p), bson.M{"$facet": countFacets(p.Kind)})
}

// pagePipeline computes the page and the counts in one $facet so both come from the same snapshot.
func pagePipeline(p filter.Predicate, w entity.Window) bson.A {
	facets := countFacets(p.Kind)
	facets["items"] = bson.A{
		sortStage(),
		bson.M{"$skip": w.Skip},
		bson.M{"$limit": w.Limit},
		projectStage(p.Kind),
	}

	return append(filteredPipeline(p), bson.M{"$facet": facets})
}

func exportPipeline(p filter.Predicate) bson.A {
	return append(filteredPipeline(p), sortStage(), projectStage(p.Kind))
}

func emailsPipeline(p filter.Predicate) bson.A {
	return append(filteredPipeline(p),
		sortStage(),
		bson.M{"$project": bson.M{"_id": 0, "email": "$user.email"}},
	)
}

type facetCount []struct {
	N int64 `bson:"n"`
}

func (c facetCount) value() int64 {
	if len(c) == 0 {
		return 0
	}
	return c[0].N
}

type facetResult struct {
	Items     []*entity.Participation `bson:"items"`
	Total     facetCount              `bson:"total"`
	Approved  facetCount              `bson:"approved"`
	Rejected  facetCount              `bson:"rejected"`
	Pending   facetCount              `bson:"pending"`
	CheckedIn facetCount              `bson:"checkedIn"`
}

func (r facetResult) counts(kind entity.Kind) entity.SummaryCounts {
	counts := entity.SummaryCounts{
		Total:    r.Total.value(),
		Approved: r.Approved.value(),
		Rejected: r.Rejected.value(),
		Pending:  r.Pending.value(),
	}

	if kind.HasCheckIn() {
		checkedIn := r.CheckedIn.value()
		counts.CheckedIn = &checkedIn
	}

	return counts
}

package filter

import (
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/gorilla/schema"
	"github.com/joeyave/club-admin/entity"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/exp/slices"
)

type Defaults struct {
	Limit    int64
	MaxLimit int64
}

// Options are the non-filter parts of a report query.
type Options struct {
	Mode  entity.Mode
	Page  int64
	Limit int64
}

// Window saturates Skip instead of overflowing, so a huge page is just past the end.
func (o Options) Window() entity.Window {
	w := entity.Window{Limit: o.Limit}
	if o.Page > 1 && o.Limit > 0 {
		if o.Page-1 > math.MaxInt64/o.Limit {
			w.Skip = math.MaxInt64
		} else {
			w.Skip = (o.Page - 1) * o.Limit
		}
	}
	return w
}

type query struct {
	Page       string `schema:"page"`
	Limit      string `schema:"limit"`
	CountOnly  string `schema:"countOnly"`
	EmailsOnly string `schema:"emailsOnly"`
	Format     string `schema:"format"`
}

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

type param struct {
	name      string
	// keepSpace passes the value untrimmed; blank values are still skipped.
	keepSpace bool
	compile   func(kind entity.Kind, value string, p *Predicate) (Fragment, bool)
}

// params is applied in order. Later aliases are skipped once their dimension is set.
var params = []param{
	{name: "eventId", compile: eventFragment},
	{name: "approved", compile: statusFragment},
	{name: "status", compile: statusFragment},
	{name: "search", keepSpace: true, compile: searchFragment},
	{name: "ageRange", compile: ageFragment},
	{name: "gender", compile: genderFragment},
	{name: "sex", compile: genderFragment},
}

// Compile turns raw query parameters into a predicate and report options.
// Unrecognized or malformed values disable their own dimension and never fail the query.
func Compile(kind entity.Kind, values url.Values, defaults Defaults) (Predicate, Options) {
	p := Predicate{Kind: kind}

	for _, prm := range params {
		value := values.Get(prm.name)
		if strings.TrimSpace(value) == "" {
			continue
		}
		if !prm.keepSpace {
			value = strings.TrimSpace(value)
		}

		f, ok := prm.compile(kind, value, &p)
		if !ok {
			log.Debug().Str("param", prm.name).Str("value", value).Msg("Ignoring filter value")
			continue
		}
		p.fragments = append(p.fragments, f)
	}

	var q query
	_ = decoder.Decode(&q, values)

	return p, compileOptions(q, defaults)
}

func compileOptions(q query, defaults Defaults) Options {
	o := Options{
		Mode:  entity.ModePage,
		Page:  1,
		Limit: defaults.Limit,
	}

	switch {
	case isTrue(q.CountOnly):
		o.Mode = entity.ModeCounts
	case isTrue(q.EmailsOnly):
		o.Mode = entity.ModeEmails
	case strings.EqualFold(q.Format, "csv"):
		o.Mode = entity.ModeCSV
	}

	if page, err := strconv.ParseInt(q.Page, 10, 64); err == nil && page > 1 {
		o.Page = page
	}

	if limit, err := strconv.ParseInt(q.Limit, 10, 64); err == nil && limit > 0 {
		o.Limit = limit
	}
	if o.Limit < 1 {
		o.Limit = 1
	}
	if defaults.MaxLimit > 0 && o.Limit > defaults.MaxLimit {
		o.Limit = defaults.MaxLimit
	}

	return o
}

func isTrue(s string) bool {
	b, err := strconv.ParseBool(s)
	return err == nil && b
}

func eventFragment(kind entity.Kind, value string, p *Predicate) (Fragment, bool) {
	if !kind.HasEvent() || p.EventID != "" {
		return Fragment{}, false
	}
	p.EventID = value

	// A malformed id is kept as a string so it matches nothing instead of widening the view.
	var id any = value
	if oid, err := bson.ObjectIDFromHex(value); err == nil {
		id = oid
	}

	return Fragment{Stage: StageRecord, Match: bson.M{"eventId": id}}, true
}

func statusFragment(kind entity.Kind, value string, p *Predicate) (Fragment, bool) {
	if p.Status != entity.BucketAny {
		return Fragment{}, false
	}

	var bucket entity.Bucket
	switch strings.ToLower(value) {
	case "true", string(entity.BucketApproved):
		bucket = entity.BucketApproved
	case "false", string(entity.BucketRejected):
		bucket = entity.BucketRejected
	case string(entity.BucketPending):
		bucket = entity.BucketPending
	default:
		return Fragment{}, false
	}
	p.Status = bucket

	return Fragment{Stage: StageRecord, Match: StatusMatch(kind, bucket)}, true
}

func searchFragment(_ entity.Kind, value string, p *Predicate) (Fragment, bool) {
	p.Search = value

	re := bson.M{"$regex": regexp.QuoteMeta(value), "$options": "i"}
	return Fragment{
		Stage: StageJoined,
		Match: bson.M{"$or": bson.A{
			bson.M{"user.name": re},
			bson.M{"user.email": re},
			bson.M{"user.instagramHandle": re},
		}},
	}, true
}

var ageRangeRegex = regexp.MustCompile(`^(\d{1,3})\s*(?:-\s*(\d{1,3})|\+)$`)

// ParseAgeRange accepts "min-max" (inclusive) and "min+".
func ParseAgeRange(s string) (AgeRange, bool) {
	m := ageRangeRegex.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return AgeRange{}, false
	}

	lo, _ := strconv.Atoi(m[1])
	r := AgeRange{Min: lo}
	if m[2] != "" {
		hi, _ := strconv.Atoi(m[2])
		if hi < lo {
			return AgeRange{}, false
		}
		r.Max = &hi
	}
	return r, true
}

func ageFragment(_ entity.Kind, value string, p *Predicate) (Fragment, bool) {
	r, ok := ParseAgeRange(value)
	if !ok {
		return Fragment{}, false
	}
	p.Age = &r

	cond := bson.M{"$gte": r.Min}
	if r.Max != nil {
		cond["$lte"] = *r.Max
	}
	return Fragment{Stage: StageJoined, Match: bson.M{"user.age": cond}}, true
}

func genderFragment(_ entity.Kind, value string, p *Predicate) (Fragment, bool) {
	if p.Gender != "" {
		return Fragment{}, false
	}

	g := entity.Gender(strings.ToLower(value))
	if !slices.Contains(entity.Genders, g) {
		return Fragment{}, false
	}
	p.Gender = g

	return Fragment{
		Stage: StageJoined,
		Match: bson.M{"$or": bson.A{
			bson.M{"user.gender": string(g)},
			bson.M{"user.sex": string(g)},
		}},
	}, true
}

package entity

type Mode string

const (
	ModePage   Mode = "page"
	ModeCounts Mode = "counts"
	ModeEmails Mode = "emails"
	ModeCSV    Mode = "csv"
)

type SummaryCounts struct {
	Total     int64  `bson:"total" json:"total"`
	Approved  int64  `bson:"approved" json:"approved"`
	Rejected  int64  `bson:"rejected" json:"rejected"`
	Pending   int64  `bson:"pending" json:"pending"`
	CheckedIn *int64 `bson:"checkedIn,omitempty" json:"checkedIn,omitempty"`
}

// Window is a skip/limit slice of the sorted result set.
type Window struct {
	Skip  int64
	Limit int64
}

type Page struct {
	Items     []*Participation `json:"items"`
	Total     int64            `json:"total"`
	Page      int64            `json:"page"`
	Limit     int64            `json:"limit"`
	PageCount int64            `json:"pageCount"`
}

package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"testing"
	"time"

	"github.com/joeyave/club-admin/entity"
	"github.com/joeyave/club-admin/filter"
	"github.com/joeyave/club-admin/repository"
	"github.com/joeyave/club-admin/service/servicetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func newReportService(repo ParticipationRepository) *ReportService {
	return NewReportService(repo, ReportConfig{
		RegistrationsPageSize: 10,
		VolunteersPageSize:    50,
		MaxPageSize:           200,
		DateLocale:            "en_US",
	})
}

func TestDefaultsPerKind(t *testing.T) {
	s := newReportService(servicetest.NewParticipationRepository())

	assert.Equal(t, filter.Defaults{Limit: 10, MaxLimit: 200}, s.Defaults(entity.KindRegistration))
	assert.Equal(t, filter.Defaults{Limit: 50, MaxLimit: 200}, s.Defaults(entity.KindVolunteer))
}

func TestPageCount(t *testing.T) {
	tests := []struct {
		total, limit, want int64
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
		{5, 0, 0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d/%d", tt.total, tt.limit), func(t *testing.T) {
			assert.Equal(t, tt.want, pageCount(tt.total, tt.limit))
		})
	}
}

func TestPageBeyondLastPage(t *testing.T) {
	repo := servicetest.NewParticipationRepository()
	repo.Items = []*entity.Participation{}
	repo.Counted = entity.SummaryCounts{Total: 25, Approved: 5, Rejected: 10, Pending: 10}
	s := newReportService(repo)

	page, counts, err := s.Page(context.Background(), filter.Predicate{Kind: entity.KindRegistration}, filter.Options{Page: 9, Limit: 10})
	require.NoError(t, err)

	assert.Empty(t, page.Items)
	assert.Equal(t, int64(25), page.Total)
	assert.Equal(t, int64(3), page.PageCount)
	assert.Equal(t, int64(9), page.Page)
	assert.Equal(t, counts.Total, page.Total)
	assert.Equal(t, entity.Window{Skip: 80, Limit: 10}, repo.LastWindow)
}

func TestPagePropagatesDatastoreErrors(t *testing.T) {
	repo := servicetest.NewParticipationRepository()
	repo.Err = fmt.Errorf("%w: connection refused", repository.ErrUnavailable)
	s := newReportService(repo)

	page, _, err := s.Page(context.Background(), filter.Predicate{Kind: entity.KindVolunteer}, filter.Options{Page: 1, Limit: 10})
	assert.ErrorIs(t, err, repository.ErrUnavailable)
	assert.Nil(t, page)

	rows, err := s.CSV(context.Background(), filter.Predicate{Kind: entity.KindVolunteer})
	assert.ErrorIs(t, err, repository.ErrUnavailable)
	assert.Nil(t, rows)
}

func TestEmailsKeepDuplicates(t *testing.T) {
	repo := servicetest.NewParticipationRepository()
	repo.Emails = []string{"a@example.com", "b@example.com", "a@example.com"}
	s := newReportService(repo)

	emails, err := s.Emails(context.Background(), filter.Predicate{Kind: entity.KindRegistration})
	require.NoError(t, err)
	assert.Equal(t, []string{"a@example.com", "b@example.com", "a@example.com"}, emails)
}

func TestQuoteCell(t *testing.T) {
	assert.Equal(t, `"O""Brien, Jr."`, QuoteCell(`O"Brien, Jr.`))
	assert.Equal(t, `""`, QuoteCell(""))
	assert.Equal(t, `"plain"`, QuoteCell("plain"))
}

func TestWriteCSVRoundTrip(t *testing.T) {
	rows := [][]string{
		{"Name", "Notes"},
		{`O"Brien, Jr.`, "Smith, Jr."},
		{"multi\nline", `"quoted"`},
		{"", ""},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))

	got, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, rows, got)
}

func TestCSVRegistrationRows(t *testing.T) {
	age := 34
	gender := entity.Female
	handle := "ann.runs"
	approved := true
	checkedInAt := time.Date(2026, 5, 1, 7, 45, 0, 0, time.UTC)
	eventID := bson.NewObjectID()

	repo := servicetest.NewParticipationRepository()
	repo.Items = []*entity.Participation{
		{
			User:        &entity.User{Name: `Ann "Fast" O'Neil`, Email: "ann@example.com", Phone: "+1 555", Age: &age, Sex: &gender, InstagramHandle: &handle},
			EventID:     &eventID,
			Event:       &entity.Event{Title: "Sunrise 10k", Date: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)},
			Approved:    &approved,
			CheckedIn:   true,
			CheckedInAt: &checkedInAt,
			CreatedAt:   time.Date(2026, 4, 20, 18, 30, 0, 0, time.UTC),
		},
		{
			CreatedAt: time.Date(2026, 4, 21, 9, 0, 0, 0, time.UTC),
		},
	}
	s := newReportService(repo)

	rows, err := s.CSV(context.Background(), filter.Predicate{Kind: entity.KindRegistration})
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, registrationColumns, rows[0])
	assert.Equal(t, []string{
		`Ann "Fast" O'Neil`, "ann@example.com", "+1 555", "34", "Female", "ann.runs",
		"Sunrise 10k", "01 May 2026", "2026-04-20 18:30", "Approved", "Yes", "2026-05-01 07:45",
	}, rows[1])

	// A record whose user and event are gone still gets a row.
	assert.Equal(t, []string{
		"", "", "", "", "", "",
		"", "", "2026-04-21 09:00", "Pending", "No", "",
	}, rows[2])
}

func TestCSVVolunteerRows(t *testing.T) {
	repo := servicetest.NewParticipationRepository()
	repo.Items = []*entity.Participation{
		{
			User:           &entity.User{Name: "Bo", Email: "bo@example.com"},
			Status:         entity.BucketRejected,
			Availability:   []string{"weekends", "evenings"},
			Interests:      []string{"pacing"},
			Experience:     "none",
			Motivation:     "community",
			Skills:         []string{"first aid"},
			Languages:      []string{"en", "es"},
			AdditionalInfo: "likes \"hills\"",
			CreatedAt:      time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC),
		},
	}
	s := newReportService(repo)

	rows, err := s.CSV(context.Background(), filter.Predicate{Kind: entity.KindVolunteer})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, volunteerColumns, rows[0])
	assert.Equal(t, []string{
		"Bo", "bo@example.com", "", "", "", "",
		"2026-03-02 12:00", "Rejected", "weekends; evenings", "pacing", "none", "community", "first aid", "en; es", `likes "hills"`,
	}, rows[1])
	assert.Len(t, rows[1], len(rows[0]))
}

package service

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/joeyave/club-admin/entity"
	"github.com/klauspost/lctime"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	registrationColumns = []string{"Name", "Email", "Phone", "Age", "Gender", "Instagram", "Event", "Event Date", "Submitted At", "Status", "Checked In", "Checked In At"}
	volunteerColumns    = []string{"Name", "Email", "Phone", "Age", "Gender", "Instagram", "Submitted At", "Status", "Availability", "Interests", "Experience", "Motivation", "Skills", "Languages", "Additional Info"}
)

func csvHeader(kind entity.Kind) []string {
	if kind == entity.KindVolunteer {
		return append([]string(nil), volunteerColumns...)
	}
	return append([]string(nil), registrationColumns...)
}

func (s *ReportService) csvRow(kind entity.Kind, record *entity.Participation) []string {
	row := userCells(record.User)

	switch kind {
	case entity.KindVolunteer:
		row = append(row,
			formatTimestamp(record.CreatedAt),
			record.Bucket(kind).Label(),
			strings.Join(record.Availability, "; "),
			strings.Join(record.Interests, "; "),
			record.Experience,
			record.Motivation,
			strings.Join(record.Skills, "; "),
			strings.Join(record.Languages, "; "),
			record.AdditionalInfo,
		)
	default:
		var title, date string
		if record.Event != nil {
			title = record.Event.Title
			date = s.formatDate(record.Event.Date)
		}

		checkedInAt := ""
		if record.CheckedInAt != nil {
			checkedInAt = formatTimestamp(*record.CheckedInAt)
		}

		row = append(row,
			title,
			date,
			formatTimestamp(record.CreatedAt),
			record.Bucket(kind).Label(),
			yesNo(record.CheckedIn),
			checkedInAt,
		)
	}

	return row
}

func userCells(user *entity.User) []string {
	if user == nil {
		return []string{"", "", "", "", "", ""}
	}

	var age, gender, handle string
	if user.Age != nil {
		age = strconv.Itoa(*user.Age)
	}
	if g := user.GetGender(); g != nil {
		gender = cases.Title(language.English).String(string(*g))
	}
	if user.InstagramHandle != nil {
		handle = *user.InstagramHandle
	}

	return []string{user.Name, user.Email, user.Phone, age, gender, handle}
}

func (s *ReportService) formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	str, err := lctime.StrftimeLoc(s.dateLocale, "%d %B %Y", t)
	if err != nil {
		return t.Format("02 January 2006")
	}
	return str
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02 15:04")
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// QuoteCell wraps a value in double quotes and doubles the quotes inside it.
func QuoteCell(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// WriteCSV writes every cell quoted, one record per CRLF-terminated line.
func WriteCSV(w io.Writer, rows [][]string) error {
	bw := bufio.NewWriter(w)

	for _, row := range rows {
		for i, cell := range row {
			if i > 0 {
				if err := bw.WriteByte(','); err != nil {
					return err
				}
			}
			if _, err := bw.WriteString(QuoteCell(cell)); err != nil {
				return err
			}
		}
		if _, err := bw.WriteString("\r\n"); err != nil {
			return err
		}
	}

	return bw.Flush()
}

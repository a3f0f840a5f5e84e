package service

import (
	"context"

	"github.com/joeyave/club-admin/entity"
	"github.com/joeyave/club-admin/filter"
)

type ReportService struct {
	participationRepository ParticipationRepository

	pageSizes   map[entity.Kind]int64
	maxPageSize int64
	dateLocale  string
}

type ReportConfig struct {
	RegistrationsPageSize int64
	VolunteersPageSize    int64
	MaxPageSize           int64
	DateLocale            string
}

func NewReportService(participationRepository ParticipationRepository, config ReportConfig) *ReportService {
	return &ReportService{
		participationRepository: participationRepository,
		pageSizes: map[entity.Kind]int64{
			entity.KindRegistration: config.RegistrationsPageSize,
			entity.KindVolunteer:    config.VolunteersPageSize,
		},
		maxPageSize: config.MaxPageSize,
		dateLocale:  config.DateLocale,
	}
}

func (s *ReportService) Defaults(kind entity.Kind) filter.Defaults {
	return filter.Defaults{
		Limit:    s.pageSizes[kind],
		MaxLimit: s.maxPageSize,
	}
}

// Page returns one window of the filtered set together with the counts of the whole set.
func (s *ReportService) Page(ctx context.Context, p filter.Predicate, o filter.Options) (*entity.Page, entity.SummaryCounts, error) {
	items, counts, err := s.participationRepository.Report(ctx, p, o.Window())
	if err != nil {
		return nil, entity.SummaryCounts{}, err
	}

	return &entity.Page{
		Items:     items,
		Total:     counts.Total,
		Page:      o.Page,
		Limit:     o.Limit,
		PageCount: pageCount(counts.Total, o.Limit),
	}, counts, nil
}

func pageCount(total, limit int64) int64 {
	if limit < 1 {
		return 0
	}
	return (total + limit - 1) / limit
}

func (s *ReportService) Counts(ctx context.Context, p filter.Predicate) (entity.SummaryCounts, error) {
	return s.participationRepository.Counts(ctx, p)
}

// Emails keeps duplicates: a user with two records appears twice.
func (s *ReportService) Emails(ctx context.Context, p filter.Predicate) ([]string, error) {
	return s.participationRepository.FindEmails(ctx, p)
}

// CSV returns the header followed by one row per matching record.
func (s *ReportService) CSV(ctx context.Context, p filter.Predicate) ([][]string, error) {
	records, err := s.participationRepository.FindAll(ctx, p)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, csvHeader(p.Kind))
	for _, record := range records {
		rows = append(rows, s.csvRow(p.Kind, record))
	}

	return rows, nil
}

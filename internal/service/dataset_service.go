package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"pmdash/internal/clients"
	"pmdash/internal/models"
	"pmdash/internal/repository"
	"pmdash/internal/tabular"
)

var ErrMissingTimestamp = errors.New("master datasheet has no TimeStamp column")

// DatasetService fetches the master and revision CSVs into the dataset
// repository.
type DatasetService interface {
	Load(ctx context.Context) error
}

type datasetService struct {
	repo        repository.DatasetRepository
	client      clients.DatasheetClient
	masterURL   string
	revisionURL string
}

type DatasetConfig struct {
	MasterURL   string
	RevisionURL string
}

func NewDatasetService(repo repository.DatasetRepository, client clients.DatasheetClient, config DatasetConfig) DatasetService {
	return &datasetService{
		repo:        repo,
		client:      client,
		masterURL:   config.MasterURL,
		revisionURL: config.RevisionURL,
	}
}

// Load fails only when the master CSV cannot be used. A broken revision
// list leaves the "recent updates" table empty.
func (s *datasetService) Load(ctx context.Context) error {
	raw, err := s.client.Fetch(ctx, s.masterURL)
	if err != nil {
		return fmt.Errorf("fetch master datasheet: %w", err)
	}
	records, err := ParseMasterRecords(raw)
	if err != nil {
		return err
	}

	revisions, err := s.loadRevisions(ctx)
	if err != nil {
		log.Warn().Err(err).Str("url", s.revisionURL).Msg("revision list unavailable")
		revisions = nil
	}

	s.repo.Load(records, revisions)
	log.Info().
		Int("records", len(records)).
		Int("revisions", len(revisions)).
		Msg("datasheet loaded")
	return nil
}

func (s *datasetService) loadRevisions(ctx context.Context) ([]models.Revision, error) {
	if s.revisionURL == "" {
		return nil, nil
	}
	raw, err := s.client.Fetch(ctx, s.revisionURL)
	if err != nil {
		return nil, err
	}
	return ParseRevisions(raw)
}

// ParseMasterRecords converts the master CSV. Column names are trimmed, the
// report link is normalized to markdown and Report Year comes from the
// TimeStamp.
func ParseMasterRecords(raw []byte) ([]models.ModuleRecord, error) {
	table, err := parseTrimmed(raw)
	if err != nil {
		return nil, fmt.Errorf("parse master datasheet: %w", err)
	}
	if !table.Has("TimeStamp") {
		return nil, ErrMissingTimestamp
	}

	index := make(map[string]int, len(table.Columns))
	for i, c := range table.Columns {
		index[c] = i
	}
	cell := func(name string, row []string) string {
		if i, ok := index[name]; ok {
			return strings.TrimSpace(row[i])
		}
		return ""
	}
	hasLink := table.Has("Report Link")

	records := make([]models.ModuleRecord, 0, table.Len())
	for _, row := range table.Rows {
		rec := models.ModuleRecord{
			Module:     cell("Module", row),
			Power:      cell("Power", row),
			TypeName:   cell("Type Name", row),
			Item:       cell("Item", row),
			Parameter:  cell("Parameter", row),
			Conditions: cell("Conditions", row),
			Symbol:     cell("Symbol", row),
			Values:     cell("Values", row),
			Min:        optionalFloat(cell("Min", row)),
			Typ:        optionalFloat(cell("Typ", row)),
			Max:        optionalFloat(cell("Max", row)),
			Unit:       cell("Unit", row),
			User:       cell("User", row),
			TimeStamp:  ParseTimestamp(cell("TimeStamp", row)),
			Version:    cell("Version", row),
		}
		if rec.TimeStamp != nil {
			rec.ReportYear = rec.TimeStamp.Year()
		}

		link := cell("Report Link", row)
		if !hasLink {
			link = ReportLinkFromParameter(rec.Parameter)
		}
		if link != "" {
			rec.ReportLink = "[Report](" + link + ")"
		}
		records = append(records, rec)
	}
	return records, nil
}

// ParseRevisions converts the revision list; all three columns are required.
func ParseRevisions(raw []byte) ([]models.Revision, error) {
	table, err := parseTrimmed(raw)
	if err != nil {
		return nil, fmt.Errorf("parse revision list: %w", err)
	}
	if missing := table.Missing("Type Name", "TimeStamp", "Version"); len(missing) > 0 {
		return nil, fmt.Errorf("revision list lacks %s", strings.Join(missing, ", "))
	}

	names := table.Column("Type Name")
	stamps := table.Column("TimeStamp")
	versions := table.Column("Version")

	revisions := make([]models.Revision, 0, table.Len())
	for i := range names {
		revisions = append(revisions, models.Revision{
			TypeName:  strings.TrimSpace(names[i]),
			TimeStamp: ParseTimestamp(stamps[i]),
			Version:   strings.TrimSpace(versions[i]),
		})
	}
	return revisions, nil
}

// ReportLinkFromParameter derives a report URL from the part of the
// parameter after its last "//", with slashes turned into dashes.
func ReportLinkFromParameter(parameter string) string {
	if parameter == "" {
		return ""
	}
	parts := strings.Split(parameter, "//")
	last := strings.ReplaceAll(parts[len(parts)-1], "/", "-")
	return "https://example.com/reports/" + last
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"2006/1/2 15:04",
	"2006/01/02",
	"2006/1/2",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"1/2/2006 15:04",
	"01/02/2006",
	"1/2/2006",
	"2006.01.02",
}

// ParseTimestamp accepts the date formats found in the datasheet sheets and
// returns nil for anything else.
func ParseTimestamp(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func parseTrimmed(raw []byte) (*tabular.Table, error) {
	table, err := tabular.ParseCSV(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	header := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		header[i] = strings.TrimSpace(c)
	}
	return tabular.NewTable(header, table.Rows), nil
}

func optionalFloat(s string) *float64 {
	v := tabular.ParseFloat(s)
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

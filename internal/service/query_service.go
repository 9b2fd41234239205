package service

import (
	"fmt"

	"pmdash/internal/models"
	"pmdash/internal/repository"
	"pmdash/internal/utils"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 500
	RecentCount     = 4
)

type RecordsPage struct {
	repository.FilterResult
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Pages int `json:"pages"`
}

type LatestView struct {
	Record *models.ModuleRecord  `json:"record"`
	Recent []models.RevisionRow `json:"recent"`
}

// QueryService answers the grid, filter and "recent updates" requests.
type QueryService interface {
	Records(q repository.FilterQuery, page, limit int) RecordsPage
	Options() repository.FilterOptions
	Latest() LatestView
	Revisions() []models.RevisionRow
	Export(q repository.FilterQuery) ([]byte, error)
}

type queryService struct {
	repo repository.DatasetRepository
}

func NewQueryService(repo repository.DatasetRepository) QueryService {
	return &queryService{repo: repo}
}

// Records filters and returns one page. The selected row is the first match
// overall, not the first row of the page.
func (s *queryService) Records(q repository.FilterQuery, page, limit int) RecordsPage {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if page < 1 {
		page = 1
	}

	res := s.repo.Filter(q)
	total := len(res.Rows)
	pages := (total + limit - 1) / limit
	// Anything past the end is the first empty page; keeps the offset from overflowing.
	if page > pages+1 {
		page = pages + 1
	}

	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	res.Rows = res.Rows[start:end]

	return RecordsPage{FilterResult: res, Total: total, Page: page, Limit: limit, Pages: pages}
}

func (s *queryService) Options() repository.FilterOptions {
	return s.repo.Options()
}

// Latest is the newest master record plus the four newest master rows
// reduced to type name, date and version.
func (s *queryService) Latest() LatestView {
	view := LatestView{Recent: []models.RevisionRow{}}
	latest := s.repo.Latest(RecentCount)
	if len(latest) > 0 {
		rec := latest[0]
		view.Record = &rec
	}
	for _, rec := range latest {
		view.Recent = append(view.Recent, models.Revision{
			TypeName:  rec.TypeName,
			TimeStamp: rec.TimeStamp,
			Version:   rec.Version,
		}.Row())
	}
	return view
}

func (s *queryService) Revisions() []models.RevisionRow {
	revisions := s.repo.LatestRevisions(RecentCount)
	rows := make([]models.RevisionRow, 0, len(revisions))
	for _, r := range revisions {
		rows = append(rows, r.Row())
	}
	return rows
}

// Export writes every row matching q to an xlsx workbook.
func (s *queryService) Export(q repository.FilterQuery) ([]byte, error) {
	res := s.repo.Filter(q)
	rows := make([][]string, 0, len(res.Rows))
	for _, r := range res.Rows {
		rows = append(rows, r.Cells())
	}

	data, err := utils.CreateExcelFile(
		[]utils.Sheet{{Name: "Datasheet", Headers: models.RecordColumns, Rows: rows}},
		[][2]string{
			{"Module", q.Module},
			{"Report Year", fmt.Sprint(q.Year)},
			{"Power", q.Power},
			{"Total Records", fmt.Sprint(len(rows))},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("export records: %w", err)
	}
	return data, nil
}

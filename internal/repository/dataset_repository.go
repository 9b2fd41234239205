package repository

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"pmdash/internal/models"
)

// AllOption disables a dropdown filter.
const AllOption = "All"

const NoDataMessage = "No records match the selected filters."

var powerPattern = regexp.MustCompile(`(\d+)V`)

type FilterQuery struct {
	Module string
	Year   int
	Power  string
}

type FilterResult struct {
	Rows     []models.ModuleRecord `json:"rows"`
	Selected []models.ModuleRecord `json:"selected"`
	Message  string                `json:"message"`
}

type FilterOptions struct {
	Modules     []string `json:"modules"`
	Powers      []string `json:"powers"`
	Years       []int    `json:"years"`
	DefaultYear int      `json:"default_year"`
}

// DatasetRepository holds the master records and revision list fetched at
// startup. Nothing writes to it after Load.
type DatasetRepository interface {
	Load(records []models.ModuleRecord, revisions []models.Revision)
	Count() int
	Filter(q FilterQuery) FilterResult
	Options() FilterOptions
	Latest(n int) []models.ModuleRecord
	LatestRevisions(n int) []models.Revision
}

type datasetRepository struct {
	mu        sync.RWMutex
	records   []models.ModuleRecord
	revisions []models.Revision
	options   FilterOptions
}

func NewDatasetRepository() DatasetRepository {
	return &datasetRepository{options: buildOptions(nil)}
}

func (r *datasetRepository) Load(records []models.ModuleRecord, revisions []models.Revision) {
	opts := buildOptions(records)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = records
	r.revisions = revisions
	r.options = opts
}

func (r *datasetRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

// Filter applies the three equality predicates and orders the matches by
// the voltage in their Power label. Labels without one sort last. Undated
// records never match a year, including the zero year.
func (r *datasetRepository) Filter(q FilterQuery) FilterResult {
	r.mu.RLock()
	defer r.mu.RUnlock()

	module := q.Module
	power := strings.TrimSpace(q.Power)

	rows := make([]models.ModuleRecord, 0)
	for _, rec := range r.records {
		if rec.ReportYear == 0 || rec.ReportYear != q.Year {
			continue
		}
		if module != "" && module != AllOption && rec.Module != module {
			continue
		}
		if power != "" && power != AllOption && strings.TrimSpace(rec.Power) != power {
			continue
		}
		rows = append(rows, rec)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return PowerValue(rows[i].Power) < PowerValue(rows[j].Power)
	})

	res := FilterResult{Rows: rows, Selected: []models.ModuleRecord{}}
	if len(rows) == 0 {
		res.Message = NoDataMessage
	} else {
		res.Selected = rows[:1]
	}
	return res
}

func (r *datasetRepository) Options() FilterOptions {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.options
}

// Latest returns up to n records, newest TimeStamp first.
func (r *datasetRepository) Latest(n int) []models.ModuleRecord {
	r.mu.RLock()
	sorted := make([]models.ModuleRecord, len(r.records))
	copy(sorted, r.records)
	r.mu.RUnlock()

	sort.SliceStable(sorted, func(i, j int) bool {
		return newer(sorted[i].TimeStamp, sorted[j].TimeStamp)
	})
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func (r *datasetRepository) LatestRevisions(n int) []models.Revision {
	r.mu.RLock()
	sorted := make([]models.Revision, len(r.revisions))
	copy(sorted, r.revisions)
	r.mu.RUnlock()

	sort.SliceStable(sorted, func(i, j int) bool {
		return newer(sorted[i].TimeStamp, sorted[j].TimeStamp)
	})
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// newer orders timestamps descending with missing ones last.
func newer(a, b *time.Time) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return a.After(*b)
	}
}

// PowerValue extracts the number before the first "V" in labels such as
// "750V"; +Inf when there is none.
func PowerValue(label string) float64 {
	m := powerPattern.FindStringSubmatch(label)
	if m == nil {
		return math.Inf(1)
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return math.Inf(1)
	}
	return v
}

func buildOptions(records []models.ModuleRecord) FilterOptions {
	modules := map[string]bool{}
	var moduleList, powerList []string
	powers := map[string]bool{}
	years := map[int]bool{}
	var yearList []int

	for _, rec := range records {
		if m := strings.TrimSpace(rec.Module); m != "" && !modules[rec.Module] {
			modules[rec.Module] = true
			moduleList = append(moduleList, rec.Module)
		}
		if p := strings.TrimSpace(rec.Power); p != "" && !powers[p] {
			powers[p] = true
			powerList = append(powerList, p)
		}
		if rec.ReportYear != 0 && !years[rec.ReportYear] {
			years[rec.ReportYear] = true
			yearList = append(yearList, rec.ReportYear)
		}
	}

	sort.Strings(moduleList)
	sort.SliceStable(powerList, func(i, j int) bool {
		return PowerValue(powerList[i]) < PowerValue(powerList[j])
	})
	sort.Ints(yearList)

	opts := FilterOptions{
		Modules: append([]string{AllOption}, moduleList...),
		Powers:  append([]string{AllOption}, powerList...),
		Years:   yearList,
	}
	if opts.Years == nil {
		opts.Years = []int{}
	}
	if len(yearList) > 0 {
		opts.DefaultYear = yearList[len(yearList)-1]
	}
	return opts
}

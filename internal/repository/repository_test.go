package repository

import (
	"context"
	"encoding/json"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pmdash/internal/models"
	"pmdash/internal/tabular"
)

func at(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}

func sampleRecords() []models.ModuleRecord {
	return []models.ModuleRecord{
		{Module: "HPD", Power: "1200V", TypeName: "A", ReportYear: 2024, TimeStamp: at(2024, 3, 1)},
		{Module: "HPD", Power: " 750V ", TypeName: "B", ReportYear: 2024, TimeStamp: at(2024, 5, 1)},
		{Module: "DCM", Power: "Unknown", TypeName: "C", ReportYear: 2024, TimeStamp: at(2024, 1, 1)},
		{Module: "DCM", Power: "750V", TypeName: "D", ReportYear: 2023, TimeStamp: at(2023, 7, 1)},
		{Module: "HPD", Power: "650V", TypeName: "E", ReportYear: 0},
	}
}

func typeNames(rows []models.ModuleRecord) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.TypeName
	}
	return out
}

func TestFilter(t *testing.T) {
	t.Parallel()

	repo := NewDatasetRepository()
	repo.Load(sampleRecords(), nil)

	tests := []struct {
		name  string
		query FilterQuery
		want  []string
	}{
		{name: "year only sorts by voltage", query: FilterQuery{Module: AllOption, Year: 2024, Power: AllOption}, want: []string{"B", "A", "C"}},
		{name: "module", query: FilterQuery{Module: "HPD", Year: 2024, Power: AllOption}, want: []string{"B", "A"}},
		{name: "power is trimmed", query: FilterQuery{Module: AllOption, Year: 2024, Power: "750V "}, want: []string{"B"}},
		{name: "other year", query: FilterQuery{Module: "DCM", Year: 2023, Power: AllOption}, want: []string{"D"}},
		{name: "no match", query: FilterQuery{Module: "DCM", Year: 2022, Power: AllOption}, want: []string{}},
		{name: "zero year skips undated rows", query: FilterQuery{Module: AllOption, Year: 0, Power: AllOption}, want: []string{}},
		{name: "zero year with undated power", query: FilterQuery{Module: "HPD", Year: 0, Power: "650V"}, want: []string{}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			res := repo.Filter(tc.query)
			assert.Equal(t, tc.want, typeNames(res.Rows))
			if len(tc.want) == 0 {
				assert.Equal(t, NoDataMessage, res.Message)
				assert.Empty(t, res.Selected)
				assert.NotNil(t, res.Selected)
				return
			}
			assert.Empty(t, res.Message)
			require.Len(t, res.Selected, 1)
			assert.Equal(t, tc.want[0], res.Selected[0].TypeName)
		})
	}
}

func TestPowerValue(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 750.0, PowerValue("750V"))
	assert.Equal(t, 1200.0, PowerValue("HP 1200V 820A"))
	assert.True(t, math.IsInf(PowerValue("n/a"), 1))
	assert.True(t, math.IsInf(PowerValue(""), 1))
}

func TestOptions(t *testing.T) {
	t.Parallel()

	repo := NewDatasetRepository()
	empty := repo.Options()
	assert.Equal(t, []string{AllOption}, empty.Modules)
	assert.Empty(t, empty.Years)

	repo.Load(sampleRecords(), nil)
	opts := repo.Options()
	assert.Equal(t, []string{AllOption, "DCM", "HPD"}, opts.Modules)
	assert.Equal(t, []string{AllOption, "650V", "750V", "1200V", "Unknown"}, opts.Powers)
	assert.Equal(t, []int{2023, 2024}, opts.Years)
	assert.Equal(t, 2024, opts.DefaultYear)
}

func TestLatest(t *testing.T) {
	t.Parallel()

	repo := NewDatasetRepository()
	repo.Load(sampleRecords(), []models.Revision{
		{TypeName: "old", TimeStamp: at(2020, 1, 1)},
		{TypeName: "undated"},
		{TypeName: "new", TimeStamp: at(2024, 9, 9)},
		{TypeName: "mid", TimeStamp: at(2022, 1, 1)},
		{TypeName: "older", TimeStamp: at(2019, 1, 1)},
	})

	assert.Equal(t, []string{"B"}, typeNames(repo.Latest(1)))
	assert.Equal(t, []string{"B", "A", "C", "D"}, typeNames(repo.Latest(4)))

	revs := repo.LatestRevisions(4)
	names := make([]string, len(revs))
	for i, r := range revs {
		names[i] = r.TypeName
	}
	assert.Equal(t, []string{"new", "mid", "old", "older"}, names)
	assert.Len(t, repo.LatestRevisions(10), 5)
	assert.Equal(t, 5, repo.Count())
}

func TestMemoryUploadRepository(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewMemoryUploadRepository(time.Hour).(*memoryUploadRepository)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }

	table := tabular.NewTable([]string{"VCE", "Cies"}, [][]string{{"1", "2"}})

	got, err := repo.Get(ctx, "s1", "graph-tjG")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, repo.Put(ctx, "s1", "graph-tjG", table))
	require.NoError(t, repo.Put(ctx, "s1", "graph-tj25", table))

	got, err = repo.Get(ctx, "s1", "graph-tjG")
	require.NoError(t, err)
	assert.Same(t, table, got)

	// Sessions do not see each other's slots.
	got, err = repo.Get(ctx, "s2", "graph-tjG")
	require.NoError(t, err)
	assert.Nil(t, got)

	cards, err := repo.Cards(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"graph-tj25", "graph-tjG"}, cards)

	require.NoError(t, repo.Delete(ctx, "s1", "graph-tj25"))
	cards, err = repo.Cards(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"graph-tjG"}, cards)

	now = now.Add(2 * time.Hour)
	got, err = repo.Get(ctx, "s1", "graph-tjG")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryUploadRepositoryConcurrentAccess(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewMemoryUploadRepository(time.Hour)
	table := tabular.NewTable([]string{"a"}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			session := string(rune('a' + i))
			_ = repo.Put(ctx, session, "graph-tj25", table)
			_, _ = repo.Get(ctx, session, "graph-tj25")
		}(i)
	}
	wg.Wait()

	cards, err := repo.Cards(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"graph-tj25"}, cards)
}

// fakeCache keeps JSON in a map the way Redis would.
type fakeCache struct {
	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]time.Duration
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (f *fakeCache) GetJSON(_ context.Context, key string, dest interface{}) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, ok := f.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (f *fakeCache) SetJSON(_ context.Context, key string, value interface{}, exp time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = raw
	f.ttls[key] = exp
	return nil
}

func (f *fakeCache) Delete(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.data, k)
	}
	return nil
}

func (f *fakeCache) Keys(_ context.Context, pattern string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	var out []string
	for k := range f.data {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	return out, nil
}

func (f *fakeCache) Ping(context.Context) error { return nil }

func TestRedisUploadRepository(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cache := newFakeCache()
	repo := NewRedisUploadRepository(cache, 30*time.Minute)

	table := tabular.NewTable([]string{"t [s]", "Zth (t)"}, [][]string{{"0.1", "0.02"}})
	require.NoError(t, repo.Put(ctx, "abc", "graph-extra6", table))
	assert.Equal(t, 30*time.Minute, cache.ttls["pmdash:upload:abc:graph-extra6"])

	got, err := repo.Get(ctx, "abc", "graph-extra6")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Has("t [s]", "Zth (t)"))
	assert.Equal(t, []float64{0.02}, got.Floats("Zth (t)"))

	cards, err := repo.Cards(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, []string{"graph-extra6"}, cards)

	require.NoError(t, repo.Delete(ctx, "abc", "graph-extra6"))
	got, err = repo.Get(ctx, "abc", "graph-extra6")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryUploadRepositorySweep(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewMemoryUploadRepository(time.Minute).(*memoryUploadRepository)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }

	table := tabular.NewTable([]string{"a"}, nil)
	require.NoError(t, repo.Put(ctx, "s1", "graph-tj25", table))
	require.NoError(t, repo.Put(ctx, "s2", "graph-tj25", table))

	var sweeper Sweeper = repo
	assert.Equal(t, 0, sweeper.Sweep())
	now = now.Add(2 * time.Minute)
	assert.Equal(t, 2, sweeper.Sweep())
}

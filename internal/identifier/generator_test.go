package identifier

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "asset-system/pkg/errors"
)

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

type fakeBranches struct {
	codes map[uint64]string
}

func (f *fakeBranches) ActiveBranchCode(_ context.Context, id uint64) (string, error) {
	code, ok := f.codes[id]
	if !ok {
		return "", apperrors.ErrNotFound
	}
	return code, nil
}

// memSequencer emulates the repository-side sequence scan over an
// identifier column. The mutex stands in for the advisory lock the real
// repositories take: Generate holds it across the scan and the insert.
type memSequencer struct {
	mu  sync.Mutex
	ids []string
}

func (m *memSequencer) LastIdentifier(_ context.Context, _ pgx.Tx, prefix string) (string, error) {
	last := ""
	for _, id := range m.ids {
		if strings.HasPrefix(id, prefix) && id > last {
			last = id
		}
	}
	return last, nil
}

func (m *memSequencer) Generate(t *testing.T, g *Generator, kind Kind, branchID uint64, category Category) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()

	id, err := g.Next(context.Background(), nil, m, kind, branchID, category)
	require.NoError(t, err)
	m.ids = append(m.ids, id)
	return id
}

func newTestGenerator(day time.Time) (*Generator, *fixedClock) {
	clock := &fixedClock{now: day}
	branches := &fakeBranches{codes: map[uint64]string{1: "hyd", 2: "BLR"}}
	return NewGenerator(branches, clock), clock
}

func TestGenerator_Format(t *testing.T) {
	g, _ := newTestGenerator(time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC))
	seq := &memSequencer{}

	id := seq.Generate(t, g, KindAsset, 1, CategoryHSDC)
	assert.Equal(t, "HYD010125HD001", id, "branch code upper-cased, DDMMYY date, category code, 3-digit sequence")

	id = seq.Generate(t, g, KindAsset, 1, CategoryHSDC)
	assert.Equal(t, "HYD010125HD002", id)
}

func TestGenerator_TypeCodes(t *testing.T) {
	g, _ := newTestGenerator(time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC))
	seq := &memSequencer{}

	tests := []struct {
		kind     Kind
		category Category
		expected string
	}{
		{KindProcurement, "", "BLR070325PR001"},
		{KindMaintenance, "", "BLR070325MT001"},
		{KindDisposal, "", "BLR070325DS001"},
		{KindAsset, CategoryComputer, "BLR070325CP001"},
		{KindAsset, CategoryElectrical, "BLR070325EL001"},
		{KindAsset, CategoryOffice, "BLR070325OF001"},
		{KindAsset, CategoryFurniture, "BLR070325FR001"},
		{KindAsset, CategoryFirefighting, "BLR070325FF001"},
		{KindAsset, CategoryBuilding, "BLR070325BD001"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind)+string(tt.category), func(t *testing.T) {
			id := seq.Generate(t, g, tt.kind, 2, tt.category)
			assert.Equal(t, tt.expected, id)
		})
	}
}

func TestGenerator_SequenceContinuesFromExisting(t *testing.T) {
	g, _ := newTestGenerator(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	seq := &memSequencer{ids: []string{"HYD010125CP041"}}

	id := seq.Generate(t, g, KindAsset, 1, CategoryComputer)
	assert.Equal(t, "HYD010125CP042", id)
}

func TestGenerator_DateRollover(t *testing.T) {
	g, clock := newTestGenerator(time.Date(2025, 1, 1, 23, 59, 0, 0, time.UTC))
	seq := &memSequencer{}

	for i := 0; i < 3; i++ {
		seq.Generate(t, g, KindAsset, 1, CategoryComputer)
	}

	clock.now = time.Date(2025, 1, 2, 0, 1, 0, 0, time.UTC)
	id := seq.Generate(t, g, KindAsset, 1, CategoryComputer)
	assert.Equal(t, "HYD020125CP001", id, "new day starts a fresh sequence regardless of yesterday's count")
}

func TestGenerator_IndependentBuckets(t *testing.T) {
	g, _ := newTestGenerator(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	seq := &memSequencer{}

	seq.Generate(t, g, KindAsset, 1, CategoryComputer)
	seq.Generate(t, g, KindAsset, 1, CategoryComputer)

	assert.Equal(t, "HYD010125HD001", seq.Generate(t, g, KindAsset, 1, CategoryHSDC),
		"a different category keeps its own counter")
	assert.Equal(t, "BLR010125CP001", seq.Generate(t, g, KindAsset, 2, CategoryComputer),
		"a different branch keeps its own counter")
}

func TestGenerator_UnknownBranch(t *testing.T) {
	g, _ := newTestGenerator(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	_, err := g.Next(context.Background(), nil, &memSequencer{}, KindAsset, 99, CategoryComputer)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGenerator_InvalidCategory(t *testing.T) {
	g, _ := newTestGenerator(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	_, err := g.Next(context.Background(), nil, &memSequencer{}, KindAsset, 1, Category("VEHICLE"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidCategory)
}

func TestSequenceOf_RoundTrip(t *testing.T) {
	g, _ := newTestGenerator(time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC))
	seq := &memSequencer{}

	id := seq.Generate(t, g, KindProcurement, 1, "")
	n, err := SequenceOf(id)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("%s%03d", id[:len(id)-3], n), id)
}

func TestGenerator_ConcurrentUniqueness(t *testing.T) {
	g, _ := newTestGenerator(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	seq := &memSequencer{}

	const workers = 50
	var wg sync.WaitGroup
	results := make(chan string, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- seq.Generate(t, g, KindAsset, 1, CategoryComputer)
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[string]bool, workers)
	var sequences []int
	for id := range results {
		assert.False(t, seen[id], "identifier %s generated twice", id)
		seen[id] = true
		n, err := SequenceOf(id)
		require.NoError(t, err)
		sequences = append(sequences, n)
	}
	require.Len(t, seen, workers)

	sort.Ints(sequences)
	for i, n := range sequences {
		assert.Equal(t, i+1, n, "sequence numbers must form a contiguous run starting at 1")
	}
}

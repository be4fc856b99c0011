package repository

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prodboard/internal/config"
	apperrors "prodboard/internal/errors"
	"prodboard/internal/infrastructure"
	"prodboard/internal/loader"
	"prodboard/internal/shared/testutil"
	"prodboard/pkg/contracts/domain"
)

type fakeLoader struct {
	mu          sync.Mutex
	ordersCalls int32
	ordersErr   error
	capacityErr error
	sectorErr   map[domain.Sector]error
	compErr     error
	gate        chan struct{}
	records     int
}

func (f *fakeLoader) LoadOrders(ctx context.Context, _ string) (*loader.OrdersResult, error) {
	atomic.AddInt32(&f.ordersCalls, 1)
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ordersErr != nil {
		return nil, f.ordersErr
	}
	n := f.records
	if n == 0 {
		n = 2
	}
	return &loader.OrdersResult{
		Records: testutil.Order("2024-01-15").Repeat(n),
		Columns: []string{"QTD"},
		Dropped: 1,
	}, nil
}

func (f *fakeLoader) LoadCapacity(context.Context, string) ([]domain.CapacityRecord, error) {
	if f.capacityErr != nil {
		return nil, f.capacityErr
	}
	return []domain.CapacityRecord{testutil.Capacity("2024-01", 10, nil, nil)}, nil
}

func (f *fakeLoader) LoadSector(_ context.Context, sec domain.Sector, _ string) (*domain.SectorCostTable, error) {
	if err := f.sectorErr[sec]; err != nil {
		return nil, err
	}
	return testutil.SectorTable(sec, "2024-01", map[string][]float64{domain.LineTotal: {1, 2, 3}}), nil
}

func (f *fakeLoader) LoadComposition(context.Context, config.CompositionConfig) (*domain.CompositionTables, error) {
	if f.compErr != nil {
		return nil, f.compErr
	}
	return &domain.CompositionTables{}, nil
}

func newRepo(t *testing.T, l SourceLoader, comp config.CompositionConfig) *Repository {
	logger, _ := testutil.NewTestLogger(t)
	metrics, err := infrastructure.CreateBusinessMetrics(nil)
	require.NoError(t, err)
	return New(l, config.Default().Sources, comp, metrics, logger)
}

func TestRepository_Load(t *testing.T) {
	repo := newRepo(t, &fakeLoader{}, config.CompositionConfig{Papers: "papers.csv"})
	assert.Nil(t, repo.Snapshot())

	snap, err := repo.Load(context.Background())
	require.NoError(t, err)

	assert.Same(t, snap, repo.Snapshot())
	assert.Len(t, snap.Records, 2)
	assert.Equal(t, 1, snap.Dropped)
	assert.Len(t, snap.Capacity, 1)
	assert.Len(t, snap.Sectors, 4)
	assert.NotNil(t, snap.Composition)
	assert.Empty(t, snap.Warnings)
	assert.False(t, snap.LoadedAt.IsZero())
}

func TestRepository_DegradedSector(t *testing.T) {
	l := &fakeLoader{sectorErr: map[domain.Sector]error{domain.SectorPlanning: errors.New("404")}}
	repo := newRepo(t, l, config.CompositionConfig{})

	snap, err := repo.Load(context.Background())
	require.NoError(t, err)

	assert.Nil(t, snap.Sector(domain.SectorPlanning))
	assert.NotNil(t, snap.Sector(domain.SectorLabor))
	require.Len(t, snap.Warnings, 1)
	assert.Contains(t, snap.Warnings[0], "PCP")
	assert.Nil(t, snap.Composition, "composition not configured")
}

func TestRepository_DegradedLabor(t *testing.T) {
	l := &fakeLoader{sectorErr: map[domain.Sector]error{domain.SectorLabor: errors.New("timeout")}}

	snap, err := newRepo(t, l, config.CompositionConfig{}).Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, snap.Sector(domain.SectorLabor))
}

func TestRepository_LaborWithoutTotalIsFatal(t *testing.T) {
	l := &fakeLoader{sectorErr: map[domain.Sector]error{
		domain.SectorLabor: &apperrors.MissingColumnError{Source: "MOD", Column: domain.LineTotal},
	}}

	_, err := newRepo(t, l, config.CompositionConfig{}).Load(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeLoadFatal))
}

func TestRepository_FatalSources(t *testing.T) {
	tests := []struct {
		name   string
		loader *fakeLoader
		source string
	}{
		{"orders", &fakeLoader{ordersErr: errors.New("unreachable")}, "orders"},
		{"capacity", &fakeLoader{capacityErr: &apperrors.MissingColumnError{Source: "capacity", Column: "PROD_HORA"}}, "capacity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newRepo(t, tt.loader, config.CompositionConfig{}).Load(context.Background())
			require.Error(t, err)

			var appErr *apperrors.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, apperrors.ErrTypeLoadFatal, appErr.Type)
			assert.Equal(t, tt.source, appErr.Context["source"])
		})
	}
}

func TestRepository_DegradedComposition(t *testing.T) {
	l := &fakeLoader{compErr: errors.New("bad wire table")}

	snap, err := newRepo(t, l, config.CompositionConfig{Papers: "p.csv"}).Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, snap.Composition)
	assert.Len(t, snap.Warnings, 1)
}

func TestRepository_FailedReloadKeepsSnapshot(t *testing.T) {
	l := &fakeLoader{}
	repo := newRepo(t, l, config.CompositionConfig{})

	first, err := repo.Load(context.Background())
	require.NoError(t, err)

	l.mu.Lock()
	l.ordersErr = errors.New("gone")
	l.mu.Unlock()

	_, err = repo.Reload(context.Background())
	require.Error(t, err)
	assert.Same(t, first, repo.Snapshot())
}

func TestRepository_ReloadReplacesSnapshot(t *testing.T) {
	l := &fakeLoader{}
	repo := newRepo(t, l, config.CompositionConfig{})

	first, err := repo.Load(context.Background())
	require.NoError(t, err)

	l.mu.Lock()
	l.records = 5
	l.mu.Unlock()

	second, err := repo.Reload(context.Background())
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Len(t, repo.Snapshot().Records, 5)
	assert.Len(t, first.Records, 2, "old snapshot untouched")
}

func TestRepository_ConcurrentReloadsCollapse(t *testing.T) {
	l := &fakeLoader{gate: make(chan struct{})}
	repo := newRepo(t, l, config.CompositionConfig{})

	const callers = 5
	var wg sync.WaitGroup
	results := make([]*Snapshot, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			snap, err := repo.Reload(context.Background())
			assert.NoError(t, err)
			results[i] = snap
		}(i)
	}

	// let every caller join the in-flight load before releasing it
	time.Sleep(100 * time.Millisecond)
	close(l.gate)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&l.ordersCalls))
	for _, snap := range results {
		assert.Same(t, results[0], snap)
	}
}

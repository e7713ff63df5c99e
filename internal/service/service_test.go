package service

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/fleetcost/internal/catalog"
	"github.com/rshade/fleetcost/internal/engine"
	"github.com/rshade/fleetcost/internal/store"
)

const seedPath = "../../database/seed-data.json"

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newService(t *testing.T, ttl time.Duration) (*CalculationService, *store.Memory) {
	t.Helper()
	repo := store.NewMemory()
	return New(repo, zerolog.Nop(), Options{CacheTTL: ttl, SeedPath: seedPath}), repo
}

func dieselDefinition() catalog.EnergyDefinition {
	return catalog.EnergyDefinition{
		Name:                  "Diesel",
		Code:                  catalog.CodeDiesel,
		Family:                catalog.FamilyDiesel,
		Mode:                  catalog.ModeSimple,
		PricePerUnit:          d("1.5"),
		ConsumptionPer100:     d("30"),
		EmissionFactorPerUnit: d("2.493"),
		IsActive:              true,
		CostComponents: []catalog.CostComponent{
			{Name: "Tractor rent", Category: catalog.CategoryFixed, ValueType: catalog.ValueMonthlyAmount, Value: d("3000")},
			{Name: "Tyres", Category: catalog.CategoryVariable, ValueType: catalog.ValuePerDistanceRate, Value: d("0.5"), Order: 1},
			{Name: "Structure", Category: catalog.CategoryOverhead, ValueType: catalog.ValuePercentageOverSubtotal, Value: d("0.05"), Order: 2},
		},
	}
}

func scenario() engine.Scenario {
	return engine.Scenario{
		DistancePerDay:         d("500"),
		DaysPerMonth:           d("20"),
		MarginOverride:         decimal.NewNullDecimal(d("0.1")),
		CO2PricePerTonOverride: decimal.NewNullDecimal(d("80")),
	}
}

func TestCalculate(t *testing.T) {
	svc, _ := newService(t, 0)
	ctx := context.Background()

	_, err := svc.CreateEnergy(ctx, dieselDefinition())
	require.NoError(t, err)

	summary, err := svc.Calculate(ctx, scenario())
	require.NoError(t, err)
	require.Len(t, summary.Results, 1)
	assert.Equal(t, catalog.CodeDiesel, summary.Results[0].EnergyCode)
	assert.True(t, d("0.899832").Equal(summary.Results[0].TotalCostPerDistance), summary.Results[0].TotalCostPerDistance.String())
}

func TestCalculate_EmptyCatalog(t *testing.T) {
	svc, _ := newService(t, time.Minute)

	summary, err := svc.Calculate(context.Background(), scenario())
	require.NoError(t, err)
	assert.Empty(t, summary.Results)
}

func TestCalculate_Cancelled(t *testing.T) {
	svc, _ := newService(t, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Calculate(ctx, scenario())
	require.ErrorIs(t, err, context.Canceled)
}

func TestCalculate_UnrecognizedClassification(t *testing.T) {
	svc, repo := newService(t, 0)
	ctx := context.Background()

	bad := dieselDefinition()
	bad.ID = uuid.New()
	bad.Mode = "Hybrid"
	require.NoError(t, repo.CreateEnergy(ctx, bad))

	_, err := svc.Calculate(ctx, scenario())
	require.ErrorIs(t, err, catalog.ErrUnrecognizedClassification)
}

func TestCalculate_SnapshotCache(t *testing.T) {
	svc, repo := newService(t, time.Minute)
	ctx := context.Background()

	_, err := svc.CreateEnergy(ctx, dieselDefinition())
	require.NoError(t, err)

	first, err := svc.Calculate(ctx, scenario())
	require.NoError(t, err)
	require.Len(t, first.Results, 1)

	// A write that bypasses the service is not seen until the cache is dropped.
	other := dieselDefinition()
	other.ID = uuid.New()
	other.Code = "HVO"
	other.Name = "HVO"
	other.CostComponents = nil
	require.NoError(t, repo.CreateEnergy(ctx, other))

	cached, err := svc.Calculate(ctx, scenario())
	require.NoError(t, err)
	assert.Len(t, cached.Results, 1)

	svc.Invalidate()
	fresh, err := svc.Calculate(ctx, scenario())
	require.NoError(t, err)
	assert.Len(t, fresh.Results, 2)
}

func TestCalculate_AdminWritesInvalidateCache(t *testing.T) {
	svc, _ := newService(t, time.Minute)
	ctx := context.Background()

	created, err := svc.CreateEnergy(ctx, dieselDefinition())
	require.NoError(t, err)
	_, err = svc.Calculate(ctx, scenario())
	require.NoError(t, err)

	update := created
	update.IsActive = false
	_, err = svc.UpdateEnergy(ctx, created.ID, update)
	require.NoError(t, err)

	summary, err := svc.Calculate(ctx, scenario())
	require.NoError(t, err)
	assert.Empty(t, summary.Results)
}

// gatedRepository blocks the next ListParameters call until release is
// closed, so a snapshot load can be held open across an admin write.
type gatedRepository struct {
	store.Repository

	mu      sync.Mutex
	entered chan struct{}
	release chan struct{}
}

func (g *gatedRepository) hold() (entered, release chan struct{}) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.entered = make(chan struct{})
	g.release = make(chan struct{})
	return g.entered, g.release
}

func (g *gatedRepository) ListParameters(ctx context.Context) ([]catalog.SystemParameter, error) {
	g.mu.Lock()
	entered, release := g.entered, g.release
	g.entered, g.release = nil, nil
	g.mu.Unlock()

	if entered != nil {
		close(entered)
		<-release
	}
	return g.Repository.ListParameters(ctx)
}

func TestCalculate_InFlightLoadNotCachedAfterWrite(t *testing.T) {
	repo := &gatedRepository{Repository: store.NewMemory()}
	svc := New(repo, zerolog.Nop(), Options{CacheTTL: time.Minute, SeedPath: seedPath})
	ctx := context.Background()

	created, err := svc.CreateEnergy(ctx, dieselDefinition())
	require.NoError(t, err)

	entered, release := repo.hold()
	done := make(chan error, 1)
	go func() {
		_, err := svc.Calculate(ctx, scenario())
		done <- err
	}()
	<-entered

	update := created
	update.IsActive = false
	_, err = svc.UpdateEnergy(ctx, created.ID, update)
	require.NoError(t, err)

	close(release)
	require.NoError(t, <-done)

	summary, err := svc.Calculate(ctx, scenario())
	require.NoError(t, err)
	assert.Empty(t, summary.Results, "snapshot loaded before the update must not be served")
}

func TestAdminWrites_UseContextLogger(t *testing.T) {
	svc, _ := newService(t, 0)
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	ctx := logger.WithContext(context.Background())

	created, err := svc.CreateEnergy(ctx, dieselDefinition())
	require.NoError(t, err)
	_, err = svc.UpdateEnergy(ctx, created.ID, created)
	require.NoError(t, err)
	require.NoError(t, svc.DeleteEnergy(ctx, created.ID))

	out := buf.String()
	assert.Contains(t, out, "energy created")
	assert.Contains(t, out, "energy updated")
	assert.Contains(t, out, "energy deleted")
	assert.Contains(t, out, `"component":"service"`)
}

func TestCalculate_UsesContextLogger(t *testing.T) {
	svc, _ := newService(t, 0)
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	ctx := logger.WithContext(context.Background())

	_, err := svc.Calculate(ctx, scenario())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "calculation completed")
}

func TestReady(t *testing.T) {
	svc, _ := newService(t, 0)
	assert.NoError(t, svc.Ready(context.Background()))
}

func indexOf(t *testing.T, results []engine.Result, code string) int {
	t.Helper()
	for i, r := range results {
		if r.EnergyCode == code {
			return i
		}
	}
	t.Fatalf("no result for %s", code)
	return -1
}

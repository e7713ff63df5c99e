package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/fleetcost/internal/catalog"
)

func sampleEnergy(code, name string, components ...catalog.CostComponent) catalog.EnergyDefinition {
	id := uuid.New()
	for i := range components {
		components[i].EnergyID = id
	}
	return catalog.EnergyDefinition{
		ID:                    id,
		Code:                  code,
		Name:                  name,
		Family:                catalog.FamilyDiesel,
		Mode:                  catalog.ModeSimple,
		PricePerUnit:          decimal.RequireFromString("1.45"),
		ConsumptionPer100:     decimal.RequireFromString("30"),
		EmissionFactorPerUnit: decimal.RequireFromString("2.493"),
		IsActive:              true,
		CostComponents:        components,
	}
}

func sampleComponent(key string, order int, value string) catalog.CostComponent {
	return catalog.CostComponent{
		ID:         uuid.New(),
		Key:        key,
		Name:       key,
		Category:   catalog.CategoryFixed,
		ValueType:  catalog.ValueMonthlyAmount,
		Value:      decimal.RequireFromString(value),
		Order:      order,
		IsEditable: true,
	}
}

func sampleParameter(key, name string, category catalog.ParameterCategory, value string) catalog.SystemParameter {
	return catalog.SystemParameter{
		ID:         uuid.New(),
		Key:        key,
		Name:       name,
		Category:   category,
		Value:      decimal.RequireFromString(value),
		IsEditable: true,
	}
}

// runRepositoryContract exercises behavior shared by every backend.
func runRepositoryContract(t *testing.T, newRepo func(t *testing.T) Repository) {
	ctx := context.Background()

	t.Run("energies round trip with ordered components", func(t *testing.T) {
		repo := newRepo(t)
		diesel := sampleEnergy(catalog.CodeDiesel, "DIESEL",
			sampleComponent(catalog.ComponentTractorRent, 2, "2100"),
			sampleComponent(catalog.ComponentTractorInsurance, 1, "350.5"),
		)
		gas := sampleEnergy(catalog.CodeNaturalGas, "GAS NATURAL")
		gas.RenewableShare = decimal.NewNullDecimal(decimal.RequireFromString("0.25"))
		duo := sampleEnergy(catalog.CodeDuoGasoil, "DUO GASOIL")
		duo.Mode = catalog.ModeCombined
		duo.BaseEnergyID = uuid.NullUUID{UUID: diesel.ID, Valid: true}

		require.NoError(t, repo.ReplaceEnergies(ctx, []catalog.EnergyDefinition{duo, diesel, gas}))

		energies, err := repo.ListEnergies(ctx)
		require.NoError(t, err)
		require.Len(t, energies, 3)
		assert.Equal(t, []string{"DIESEL", "DUO GASOIL", "GAS NATURAL"},
			[]string{energies[0].Name, energies[1].Name, energies[2].Name})

		gotDiesel := energies[0]
		require.Len(t, gotDiesel.CostComponents, 2)
		assert.Equal(t, catalog.ComponentTractorInsurance, gotDiesel.CostComponents[0].Key)
		assert.True(t, decimal.RequireFromString("350.5").Equal(gotDiesel.CostComponents[0].Value))
		assert.True(t, decimal.RequireFromString("2.493").Equal(gotDiesel.EmissionFactorPerUnit))
		assert.False(t, gotDiesel.RenewableShare.Valid)

		gotDuo, err := repo.GetEnergyByCode(ctx, catalog.CodeDuoGasoil)
		require.NoError(t, err)
		assert.Equal(t, catalog.ModeCombined, gotDuo.Mode)
		assert.Equal(t, diesel.ID, gotDuo.BaseEnergyID.UUID)

		gotGas, err := repo.GetEnergyByID(ctx, gas.ID)
		require.NoError(t, err)
		require.True(t, gotGas.RenewableShare.Valid)
		assert.True(t, decimal.RequireFromString("0.25").Equal(gotGas.RenewableShare.Decimal))
	})

	t.Run("missing energy is not found", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.GetEnergyByCode(ctx, "NOPE")
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = repo.GetEnergyByID(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, repo.UpdateEnergy(ctx, sampleEnergy("X", "X")), ErrNotFound)
	})

	t.Run("create rejects duplicate codes", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.CreateEnergy(ctx, sampleEnergy("HVO", "HVO")))
		assert.ErrorIs(t, repo.CreateEnergy(ctx, sampleEnergy("HVO", "HVO 2")), ErrConflict)
		assert.ErrorIs(t, repo.CreateEnergy(ctx, sampleEnergy("hvo", "HVO 3")), ErrConflict)

		other := sampleEnergy("H2", "H2")
		require.NoError(t, repo.CreateEnergy(ctx, other))
		other.Code = "Hvo"
		assert.ErrorIs(t, repo.UpdateEnergy(ctx, other), ErrConflict)
	})

	t.Run("dangling references are stored as given", func(t *testing.T) {
		repo := newRepo(t)
		missing := uuid.NullUUID{UUID: uuid.New(), Valid: true}

		duo := sampleEnergy(catalog.CodeDuoHVO, "DUO HVO")
		duo.Mode = catalog.ModeCombined
		duo.BaseEnergyID = missing
		require.NoError(t, repo.CreateEnergy(ctx, duo))

		duo.EmissionReferenceEnergyID = uuid.NullUUID{UUID: uuid.New(), Valid: true}
		require.NoError(t, repo.UpdateEnergy(ctx, duo))

		got, err := repo.GetEnergyByID(ctx, duo.ID)
		require.NoError(t, err)
		assert.Equal(t, missing, got.BaseEnergyID)
		assert.Equal(t, duo.EmissionReferenceEnergyID, got.EmissionReferenceEnergyID)
	})

	t.Run("update keeps components", func(t *testing.T) {
		repo := newRepo(t)
		e := sampleEnergy("HVO", "HVO", sampleComponent("tractor.rent", 1, "2000"))
		require.NoError(t, repo.CreateEnergy(ctx, e))

		e.PricePerUnit = decimal.RequireFromString("1.99")
		e.IsActive = false
		e.CostComponents = nil
		require.NoError(t, repo.UpdateEnergy(ctx, e))

		got, err := repo.GetEnergyByID(ctx, e.ID)
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("1.99").Equal(got.PricePerUnit))
		assert.False(t, got.IsActive)
		assert.Len(t, got.CostComponents, 1)
	})

	t.Run("component upsert and delete", func(t *testing.T) {
		repo := newRepo(t)
		e := sampleEnergy("H2", "H2")
		require.NoError(t, repo.CreateEnergy(ctx, e))

		c := sampleComponent("general.telephone", 1, "30")
		c.EnergyID = e.ID
		require.NoError(t, repo.UpsertComponent(ctx, c))

		c.Value = decimal.RequireFromString("45")
		require.NoError(t, repo.UpsertComponent(ctx, c))

		got, err := repo.GetEnergyByID(ctx, e.ID)
		require.NoError(t, err)
		require.Len(t, got.CostComponents, 1)
		assert.True(t, decimal.RequireFromString("45").Equal(got.CostComponents[0].Value))

		orphan := sampleComponent("x", 1, "1")
		orphan.EnergyID = uuid.New()
		assert.ErrorIs(t, repo.UpsertComponent(ctx, orphan), ErrNotFound)

		require.NoError(t, repo.DeleteComponent(ctx, c.ID))
		require.NoError(t, repo.DeleteComponent(ctx, uuid.New()))
		got, err = repo.GetEnergyByID(ctx, e.ID)
		require.NoError(t, err)
		assert.Empty(t, got.CostComponents)
	})

	t.Run("delete energy is idempotent", func(t *testing.T) {
		repo := newRepo(t)
		e := sampleEnergy("ELECTRICO", "ELECTRICO", sampleComponent("tractor.rent", 1, "3000"))
		require.NoError(t, repo.CreateEnergy(ctx, e))
		require.NoError(t, repo.DeleteEnergy(ctx, e.ID))
		require.NoError(t, repo.DeleteEnergy(ctx, e.ID))

		_, err := repo.GetEnergyByID(ctx, e.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("parameters upsert by key and order by category", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.ReplaceParameters(ctx, []catalog.SystemParameter{
			sampleParameter(catalog.ParamMargin, "Margin", catalog.ParamCategoryPricing, "0.1"),
			sampleParameter(catalog.ParamDaysPerMonthDefault, "Days per month", catalog.ParamCategoryOperation, "22"),
			sampleParameter(catalog.ParamDistancePerDayDefault, "Distance per day", catalog.ParamCategoryOperation, "400"),
		}))

		original, err := repo.GetParameter(ctx, catalog.ParamMargin)
		require.NoError(t, err)

		update := sampleParameter(catalog.ParamMargin, "Margin", catalog.ParamCategoryPricing, "0.15")
		update.MaxValue = decimal.NewNullDecimal(decimal.NewFromInt(1))
		require.NoError(t, repo.UpsertParameter(ctx, update))

		got, err := repo.GetParameter(ctx, catalog.ParamMargin)
		require.NoError(t, err)
		assert.Equal(t, original.ID, got.ID)
		assert.True(t, decimal.RequireFromString("0.15").Equal(got.Value))
		require.True(t, got.MaxValue.Valid)
		assert.False(t, got.MinValue.Valid)

		params, err := repo.ListParameters(ctx)
		require.NoError(t, err)
		require.Len(t, params, 3)
		assert.Equal(t, []string{"Days per month", "Distance per day", "Margin"},
			[]string{params[0].Name, params[1].Name, params[2].Name})

		_, err = repo.GetParameter(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, newRepo(t).Ping(ctx))
	})
}

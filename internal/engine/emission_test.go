package engine

import (
	"testing"

	"github.com/google/uuid"

	"github.com/rshade/fleetcost/internal/catalog"
)

func TestEmissionsPerDistance_Simple(t *testing.T) {
	diesel := energy(catalog.CodeDiesel, catalog.ModeSimple, "1.5", "30", "2.493")
	gas := energy(catalog.CodeNaturalGas, catalog.ModeSimple, "1.2", "25", "2.721")

	biomethane := energy(catalog.CodeBiomethane, catalog.ModeSimple, "1.4", "25", "2.721")
	biomethane.EmissionReferenceEnergyID = ref(gas.ID)
	biomethane.RenewableShare = nd("1")
	biomethane.EmissionReduction = nd("0.9")

	hvo := energy(catalog.CodeHVO, catalog.ModeSimple, "2", "30", "2.493")
	hvo.EmissionReferenceEnergyID = ref(diesel.ID)
	hvo.RenewableShare = nd("0.5")
	hvo.EmissionReduction = nd("0.9")

	electric := energy(catalog.CodeElectric, catalog.ModeSimple, "0.2", "120", "0")
	electric.EmissionReferenceEnergyID = ref(diesel.ID)

	dangling := energy("DANGLING", catalog.ModeSimple, "1", "10", "3")
	dangling.EmissionReferenceEnergyID = ref(uuid.New())

	borrowed := energy("BORROWED", catalog.ModeSimple, "1", "10", "1")
	borrowed.EmissionReferenceEnergyID = ref(gas.ID)

	index := NewIndex([]catalog.EnergyDefinition{diesel, gas, biomethane, hvo, electric, dangling, borrowed})

	tests := []struct {
		name   string
		energy catalog.EnergyDefinition
		want   string
	}{
		{name: "diesel", energy: diesel, want: "0.7479"},
		// 0.25 × 2.721 × (0 + 1 × 0.1)
		{name: "biomethane keeps a tenth", energy: biomethane, want: "0.068025"},
		// 0.30 × 2.493 × (0.5 + 0.5 × 0.1)
		{name: "partial renewable share", energy: hvo, want: "0.411345"},
		{name: "zero own factor ignores reference", energy: electric, want: "0"},
		{name: "dangling reference uses own factor", energy: dangling, want: "0.3"},
		{name: "reference factor replaces own", energy: borrowed, want: "0.2721"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EmissionsPerDistance(tt.energy, index, EmissionCache{})
			assertDecimal(t, tt.want, got)
		})
	}
}

func TestEmissionsPerDistance_Combined(t *testing.T) {
	diesel := energy(catalog.CodeDiesel, catalog.ModeSimple, "1.5", "30", "2.493")
	biomethane := energy(catalog.CodeBiomethane, catalog.ModeSimple, "1.4", "25", "2.721")

	duoGasoil := energy(catalog.CodeDuoGasoil, catalog.ModeCombined, "1.5", "30", "9.9")
	duoGasoil.BaseEnergyID = ref(diesel.ID)

	duoOwnFactor := energy(catalog.CodeDuoGasoil, catalog.ModeCombined, "1.5", "30", "2")

	duoBio := energy(catalog.CodeDuoBiometano, catalog.ModeCombined, "1.4", "25", "2.721")
	duoBio.BaseEnergyID = ref(biomethane.ID)

	duoBioUncached := energy(catalog.CodeDuoBiometano, catalog.ModeCombined, "1.4", "25", "2.721")
	duoBioUncached.BaseEnergyID = ref(uuid.New())

	duoHVO := energy(catalog.CodeDuoHVO, catalog.ModeCombined, "2", "40", "2.493")

	duoElectric := energy(catalog.CodeDuoElectrico, catalog.ModeCombined, "0.2", "100", "0")
	duoElectric.BaseEnergyID = ref(diesel.ID)

	duoH2 := energy(catalog.CodeDuoH2, catalog.ModeCombined, "8", "9", "5")
	duoH2.BaseEnergyID = ref(diesel.ID)

	index := NewIndex([]catalog.EnergyDefinition{diesel, biomethane})
	cache := EmissionCache{
		diesel.ID:     d("0.7479"),
		biomethane.ID: d("0.068025"),
	}

	tests := []struct {
		name   string
		energy catalog.EnergyDefinition
		want   string
	}{
		{name: "gasoil halves base factor", energy: duoGasoil, want: "0.37395"},
		{name: "gasoil without base uses own factor", energy: duoOwnFactor, want: "0.3"},
		{name: "biomethane keeps 70 percent of base", energy: duoBio, want: "0.0476175"},
		{name: "biomethane with uncached base", energy: duoBioUncached, want: "0"},
		{name: "hvo fixed factor", energy: duoHVO, want: "0.0696"},
		{name: "electric inherits base", energy: duoElectric, want: "0.7479"},
		{name: "unknown code yields zero", energy: duoH2, want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EmissionsPerDistance(tt.energy, index, cache)
			assertDecimal(t, tt.want, got)
		})
	}
}

func TestEmissionCache_Lookup(t *testing.T) {
	id := uuid.New()
	cache := EmissionCache{id: d("1.25")}

	got := cache.Lookup(ref(id))
	if !got.Valid {
		t.Fatal("expected cached value")
	}
	assertDecimal(t, "1.25", got.Decimal)

	if cache.Lookup(uuid.NullUUID{}).Valid {
		t.Error("null reference must not resolve")
	}
	if cache.Lookup(ref(uuid.New())).Valid {
		t.Error("unknown id must not resolve")
	}
}

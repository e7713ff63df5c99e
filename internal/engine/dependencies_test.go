package engine

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/rshade/fleetcost/internal/catalog"
)

func TestUnorderedCombinedDependencies(t *testing.T) {
	diesel := energy(catalog.CodeDiesel, catalog.ModeSimple, "1", "30", "2.493")
	inactive := energy("OLD", catalog.ModeSimple, "1", "30", "2.493")
	inactive.IsActive = false

	okDuo := energy(catalog.CodeDuoGasoil, catalog.ModeCombined, "1", "30", "2.493")
	okDuo.BaseEnergyID = ref(diesel.ID)

	laterBase := energy("DUO_LATER", catalog.ModeCombined, "1", "30", "0")
	onCombined := energy("DUO_ON_DUO", catalog.ModeCombined, "1", "30", "0")
	onCombined.BaseEnergyID = ref(laterBase.ID)

	earlierBase := energy("DUO_EARLIER", catalog.ModeCombined, "1", "30", "0")
	earlierBase.BaseEnergyID = ref(okDuo.ID)

	missing := energy("DUO_MISSING", catalog.ModeCombined, "1", "30", "0")
	missing.BaseEnergyID = ref(uuid.New())

	onInactive := energy("DUO_INACTIVE", catalog.ModeCombined, "1", "30", "0")
	onInactive.BaseEnergyID = ref(inactive.ID)

	danglingRef := energy("REF", catalog.ModeSimple, "1", "30", "1")
	danglingRef.EmissionReferenceEnergyID = ref(uuid.New())

	issues := UnorderedCombinedDependencies([]catalog.EnergyDefinition{
		diesel, inactive, okDuo, onCombined, laterBase, earlierBase, missing, onInactive, danglingRef,
	})

	got := map[string]DependencyIssueKind{}
	for _, issue := range issues {
		got[issue.EnergyCode] = issue.Kind
	}
	assert.Equal(t, map[string]DependencyIssueKind{
		"DUO_ON_DUO":   IssueBaseProcessedLater,
		"DUO_MISSING":  IssueMissingBase,
		"DUO_INACTIVE": IssueInactiveBase,
		"REF":          IssueMissingEmissionReference,
	}, got)
}

func TestUnorderedCombinedDependencies_CleanCatalog(t *testing.T) {
	diesel := energy(catalog.CodeDiesel, catalog.ModeSimple, "1", "30", "2.493")
	duo := energy(catalog.CodeDuoGasoil, catalog.ModeCombined, "1", "30", "2.493")
	duo.BaseEnergyID = ref(diesel.ID)

	assert.Empty(t, UnorderedCombinedDependencies([]catalog.EnergyDefinition{duo, diesel}))
}

package seed

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rshade/fleetcost/internal/catalog"
)

// idNamespace derives stable ids so re-importing a document keeps the same
// identifiers.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/rshade/fleetcost/seed"))

// Catalog is the result of building a seed document.
type Catalog struct {
	Energies   []catalog.EnergyDefinition
	Parameters []catalog.SystemParameter
}

// Build turns a seed document into catalog entities.
//
// Energies get their code from their name and their emission settings and
// links from the built-in profile table. Components with a zero value are
// skipped and the rest are ordered as listed. Unknown component categories
// or value types fail the build.
func Build(f *File) (Catalog, error) {
	energies, err := buildEnergies(f)
	if err != nil {
		return Catalog{}, err
	}
	return Catalog{Energies: energies, Parameters: BuildParameters(f)}, nil
}

func buildEnergies(f *File) ([]catalog.EnergyDefinition, error) {
	energies := make([]catalog.EnergyDefinition, 0, len(f.Energies))
	byName := make(map[string]int, len(f.Energies))

	for _, rec := range f.Energies {
		name := strings.TrimSpace(rec.Name)
		if name == "" {
			return nil, errors.New("energy without name")
		}
		upper := strings.ToUpper(name)
		if _, dup := byName[upper]; dup {
			return nil, fmt.Errorf("duplicate energy %q", name)
		}

		code := catalog.GenerateCode(name)
		profile := profileFor(name)
		e := catalog.EnergyDefinition{
			ID:                      uuid.NewSHA1(idNamespace, []byte("energy/"+code)),
			Code:                    code,
			Name:                    name,
			Family:                  profile.family,
			Mode:                    profile.mode,
			PricePerUnit:            decimal.NewFromFloat(rec.Price),
			ConsumptionPer100:       floatOrZero(rec.ConsumptionPer100),
			RentingCostPerMonth:     floatOrZero(rec.Rent),
			EmissionFactorPerUnit:   profile.emissionFactor,
			RenewableShare:          profile.renewableShare,
			EmissionReduction:       profile.emissionReduction,
			InheritEmissionFromBase: profile.inheritEmission,
			IsActive:                true,
		}

		components, err := buildComponents(e, componentsFor(f, name))
		if err != nil {
			return nil, err
		}
		e.CostComponents = components

		byName[upper] = len(energies)
		energies = append(energies, e)
	}

	for i := range energies {
		profile := profileFor(energies[i].Name)
		if idx, ok := byName[profile.baseEnergy]; ok && profile.baseEnergy != "" {
			energies[i].BaseEnergyID = uuid.NullUUID{UUID: energies[idx].ID, Valid: true}
		}
		if idx, ok := byName[profile.emissionReference]; ok && profile.emissionReference != "" {
			energies[i].EmissionReferenceEnergyID = uuid.NullUUID{UUID: energies[idx].ID, Valid: true}
		}
	}
	return energies, nil
}

// componentsFor matches the components map by energy name, ignoring case.
func componentsFor(f *File, name string) []ComponentRecord {
	if recs, ok := f.Components[name]; ok {
		return recs
	}
	for k, recs := range f.Components {
		if strings.EqualFold(strings.TrimSpace(k), name) {
			return recs
		}
	}
	return nil
}

func buildComponents(e catalog.EnergyDefinition, recs []ComponentRecord) ([]catalog.CostComponent, error) {
	components := make([]catalog.CostComponent, 0, len(recs))
	order := 0
	for _, rec := range recs {
		if rec.Value == 0 {
			continue
		}
		category, err := catalog.ParseCostCategory(rec.Category)
		if err != nil {
			return nil, fmt.Errorf("energy %s component %q: %w", e.Name, rec.Name, err)
		}
		valueType, err := catalog.ParseValueType(rec.ValueType)
		if err != nil {
			return nil, fmt.Errorf("energy %s component %q: %w", e.Name, rec.Name, err)
		}

		key := catalog.ComponentKeyFor(rec.Name)
		components = append(components, catalog.CostComponent{
			ID:         uuid.NewSHA1(idNamespace, []byte(fmt.Sprintf("component/%s/%d/%s", e.Code, order, key))),
			EnergyID:   e.ID,
			Key:        key,
			Name:       rec.Name,
			Category:   category,
			ValueType:  valueType,
			Value:      decimal.NewFromFloat(rec.Value),
			Order:      order,
			IsEditable: true,
		})
		order++
	}
	return components, nil
}

// BuildParameters maps the known parameter properties of the document to
// system parameters. Unknown properties are ignored.
func BuildParameters(f *File) []catalog.SystemParameter {
	params := make([]catalog.SystemParameter, 0, len(parameterDescriptors))
	for _, desc := range parameterDescriptors {
		v, ok := f.Parameters[desc.property]
		if !ok {
			continue
		}
		params = append(params, catalog.SystemParameter{
			ID:          uuid.NewSHA1(idNamespace, []byte("parameter/"+desc.key)),
			Key:         desc.key,
			Name:        desc.name,
			Description: desc.description,
			Category:    desc.category,
			Value:       decimal.NewFromFloat(v),
			Unit:        desc.unit,
			IsEditable:  true,
		})
	}
	return params
}

func floatOrZero(v *float64) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return decimal.NewFromFloat(*v)
}

package api

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rshade/fleetcost/internal/catalog"
	"github.com/rshade/fleetcost/internal/engine"
)

// Boundary rounding. The engine works in full precision.
const (
	distancePlaces = 4
	currencyPlaces = 2
	ratioPlaces    = 4
)

// CalculationRequest is the body of POST /api/calculator. Absent or
// non-positive values fall back to the stored parameters.
type CalculationRequest struct {
	DistancePerDay         decimal.NullDecimal `json:"distance_per_day"`
	DaysPerMonth           decimal.NullDecimal `json:"days_per_month"`
	Vehicle                string              `json:"vehicle"`
	MarginOverride         decimal.NullDecimal `json:"margin_override"`
	CO2PricePerTonOverride decimal.NullDecimal `json:"co2_price_per_ton_override"`
}

// Scenario converts the request. An unknown vehicle configuration is read
// as Trailer.
func (r CalculationRequest) Scenario() engine.Scenario {
	vehicle, err := catalog.ParseVehicleConfiguration(r.Vehicle)
	if err != nil {
		vehicle = catalog.VehicleTrailer
	}
	return engine.Scenario{
		DistancePerDay:         r.DistancePerDay.Decimal,
		DaysPerMonth:           r.DaysPerMonth.Decimal,
		Vehicle:                vehicle,
		MarginOverride:         r.MarginOverride,
		CO2PricePerTonOverride: r.CO2PricePerTonOverride,
	}
}

// CalculationResponse is the rounded engine summary.
type CalculationResponse struct {
	Results        []ResultDTO  `json:"results"`
	DistancePerDay float64      `json:"distance_per_day"`
	DaysPerMonth   float64      `json:"days_per_month"`
	Scenario       ScenarioEcho `json:"scenario"`
}

// ScenarioEcho reports the values the calculation actually used.
type ScenarioEcho struct {
	DistancePerDay         float64 `json:"distance_per_day"`
	DaysPerMonth           float64 `json:"days_per_month"`
	MonthlyDistance        float64 `json:"monthly_distance"`
	Margin                 float64 `json:"margin"`
	CO2PricePerTon         float64 `json:"co2_price_per_ton"`
	TariffCorrectionFactor float64 `json:"tariff_correction_factor"`
	Vehicle                string  `json:"vehicle"`
}

// ResultDTO is one ranked energy.
type ResultDTO struct {
	EnergyCode                  string   `json:"energy_code"`
	EnergyName                  string   `json:"energy_name"`
	Mode                        string   `json:"mode"`
	Family                      string   `json:"family"`
	EnergyCostPerDistance       float64  `json:"energy_cost_per_distance"`
	CarbonCostPerDistance       float64  `json:"carbon_cost_per_distance"`
	OperatingCostPerDistance    float64  `json:"operating_cost_per_distance"`
	TotalCostPerDistance        float64  `json:"total_cost_per_distance"`
	CostPerDay                  float64  `json:"cost_per_day"`
	SuggestedTariff             float64  `json:"suggested_tariff"`
	EmissionsPerDistance        float64  `json:"emissions_kg_per_distance"`
	EmissionReductionVsBaseline *float64 `json:"emission_reduction_vs_diesel"`
	ExtraCostVsBaseline         float64  `json:"extra_cost_vs_diesel"`
	ExtraCostVsCombinedBaseline *float64 `json:"extra_cost_vs_duo_gasoil"`
}

// NewCalculationResponse rounds a summary for presentation.
func NewCalculationResponse(s engine.Summary) CalculationResponse {
	results := make([]ResultDTO, 0, len(s.Results))
	for _, r := range s.Results {
		results = append(results, newResultDTO(r))
	}
	return CalculationResponse{
		Results:        results,
		DistancePerDay: s.DistancePerDay.InexactFloat64(),
		DaysPerMonth:   s.DaysPerMonth.InexactFloat64(),
		Scenario: ScenarioEcho{
			DistancePerDay:         s.Resolved.DistancePerDay.InexactFloat64(),
			DaysPerMonth:           s.Resolved.DaysPerMonth.InexactFloat64(),
			MonthlyDistance:        s.Resolved.MonthlyDistance().InexactFloat64(),
			Margin:                 s.Resolved.Margin.InexactFloat64(),
			CO2PricePerTon:         s.Resolved.CO2PricePerTon.InexactFloat64(),
			TariffCorrectionFactor: s.Resolved.TariffCorrectionFactor.InexactFloat64(),
			Vehicle:                string(s.Resolved.Vehicle),
		},
	}
}

func newResultDTO(r engine.Result) ResultDTO {
	return ResultDTO{
		EnergyCode:                  r.EnergyCode,
		EnergyName:                  r.EnergyName,
		Mode:                        string(r.Mode),
		Family:                      string(r.Family),
		EnergyCostPerDistance:       round(r.EnergyCostPerDistance, distancePlaces),
		CarbonCostPerDistance:       round(r.CarbonCostPerDistance, distancePlaces),
		OperatingCostPerDistance:    round(r.OperatingCostPerDistance, distancePlaces),
		TotalCostPerDistance:        round(r.TotalCostPerDistance, distancePlaces),
		CostPerDay:                  round(r.CostPerDay, currencyPlaces),
		SuggestedTariff:             round(r.SuggestedTariff, currencyPlaces),
		EmissionsPerDistance:        round(r.EmissionsPerDistance, distancePlaces),
		EmissionReductionVsBaseline: roundNull(r.EmissionReductionVsBaseline, ratioPlaces),
		ExtraCostVsBaseline:         round(r.ExtraCostVsBaseline, ratioPlaces),
		ExtraCostVsCombinedBaseline: roundNull(r.ExtraCostVsCombinedBaseline, ratioPlaces),
	}
}

func round(v decimal.Decimal, places int32) float64 {
	return v.Round(places).InexactFloat64()
}

func roundNull(v decimal.NullDecimal, places int32) *float64 {
	if !v.Valid {
		return nil
	}
	f := round(v.Decimal, places)
	return &f
}

// EnergyDTO is the admin view of an energy. Requests use the same shape;
// id and component ids may be omitted on create. Amounts stay decimal so an
// admin round trip is exact; they accept JSON numbers or strings.
type EnergyDTO struct {
	ID                        uuid.UUID           `json:"id"`
	Code                      string              `json:"code"`
	Name                      string              `json:"name"`
	Mode                      string              `json:"mode"`
	Family                    string              `json:"family"`
	PricePerUnit              decimal.Decimal     `json:"price_per_unit"`
	ConsumptionPer100         decimal.Decimal     `json:"consumption_per_100"`
	RentingCostPerMonth       decimal.Decimal     `json:"renting_cost_per_month"`
	EmissionFactorPerUnit     decimal.Decimal     `json:"emission_factor_per_unit"`
	RenewableShare            decimal.NullDecimal `json:"renewable_share"`
	EmissionReduction         decimal.NullDecimal `json:"emission_reduction"`
	BaseEnergyID              uuid.NullUUID       `json:"base_energy_id"`
	EmissionReferenceEnergyID uuid.NullUUID       `json:"emission_reference_energy_id"`
	InheritEmissionFromBase   bool                `json:"inherit_emission_from_base"`
	IsActive                  bool                `json:"is_active"`
	CostComponents            []ComponentDTO      `json:"cost_components"`
}

// ComponentDTO is the admin view of a cost component.
type ComponentDTO struct {
	ID         uuid.UUID       `json:"id"`
	EnergyID   uuid.UUID       `json:"energy_id"`
	Key        string          `json:"key"`
	Name       string          `json:"name"`
	Category   string          `json:"category"`
	ValueType  string          `json:"value_type"`
	Value      decimal.Decimal `json:"value"`
	Order      int             `json:"order"`
	IsEditable bool            `json:"is_editable"`
	Notes      string          `json:"notes"`
}

// ParameterDTO is the admin view of a system parameter.
type ParameterDTO struct {
	ID          uuid.UUID           `json:"id"`
	Key         string              `json:"key"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Category    string              `json:"category"`
	Value       decimal.Decimal     `json:"value"`
	Unit        string              `json:"unit"`
	MinValue    decimal.NullDecimal `json:"min_value"`
	MaxValue    decimal.NullDecimal `json:"max_value"`
	IsEditable  bool                `json:"is_editable"`
}

func newEnergyDTO(e catalog.EnergyDefinition) EnergyDTO {
	components := make([]ComponentDTO, 0, len(e.CostComponents))
	for _, c := range e.CostComponents {
		components = append(components, newComponentDTO(c))
	}
	return EnergyDTO{
		ID:                        e.ID,
		Code:                      e.Code,
		Name:                      e.Name,
		Mode:                      string(e.Mode),
		Family:                    string(e.Family),
		PricePerUnit:              e.PricePerUnit,
		ConsumptionPer100:         e.ConsumptionPer100,
		RentingCostPerMonth:       e.RentingCostPerMonth,
		EmissionFactorPerUnit:     e.EmissionFactorPerUnit,
		RenewableShare:            e.RenewableShare,
		EmissionReduction:         e.EmissionReduction,
		BaseEnergyID:              e.BaseEnergyID,
		EmissionReferenceEnergyID: e.EmissionReferenceEnergyID,
		InheritEmissionFromBase:   e.InheritEmissionFromBase,
		IsActive:                  e.IsActive,
		CostComponents:            components,
	}
}

func newComponentDTO(c catalog.CostComponent) ComponentDTO {
	return ComponentDTO{
		ID:         c.ID,
		EnergyID:   c.EnergyID,
		Key:        c.Key,
		Name:       c.Name,
		Category:   string(c.Category),
		ValueType:  string(c.ValueType),
		Value:      c.Value,
		Order:      c.Order,
		IsEditable: c.IsEditable,
		Notes:      c.Notes,
	}
}

func newParameterDTO(p catalog.SystemParameter) ParameterDTO {
	return ParameterDTO{
		ID:          p.ID,
		Key:         p.Key,
		Name:        p.Name,
		Description: p.Description,
		Category:    string(p.Category),
		Value:       p.Value,
		Unit:        p.Unit,
		MinValue:    p.MinValue,
		MaxValue:    p.MaxValue,
		IsEditable:  p.IsEditable,
	}
}

// toDomain parses the classifications strictly. Family is free to be empty.
func (dto EnergyDTO) toDomain() (catalog.EnergyDefinition, error) {
	mode, err := catalog.ParseEnergyMode(dto.Mode)
	if err != nil {
		return catalog.EnergyDefinition{}, err
	}
	var family catalog.Family
	if dto.Family != "" {
		if family, err = catalog.ParseFamily(dto.Family); err != nil {
			return catalog.EnergyDefinition{}, err
		}
	}

	components := make([]catalog.CostComponent, 0, len(dto.CostComponents))
	for _, c := range dto.CostComponents {
		component, err := c.toDomain()
		if err != nil {
			return catalog.EnergyDefinition{}, err
		}
		components = append(components, component)
	}

	return catalog.EnergyDefinition{
		ID:                        dto.ID,
		Code:                      dto.Code,
		Name:                      dto.Name,
		Family:                    family,
		Mode:                      mode,
		BaseEnergyID:              dto.BaseEnergyID,
		EmissionReferenceEnergyID: dto.EmissionReferenceEnergyID,
		PricePerUnit:              dto.PricePerUnit,
		ConsumptionPer100:         dto.ConsumptionPer100,
		RentingCostPerMonth:       dto.RentingCostPerMonth,
		EmissionFactorPerUnit:     dto.EmissionFactorPerUnit,
		RenewableShare:            dto.RenewableShare,
		EmissionReduction:         dto.EmissionReduction,
		InheritEmissionFromBase:   dto.InheritEmissionFromBase,
		IsActive:                  dto.IsActive,
		CostComponents:            components,
	}, nil
}

func (dto ComponentDTO) toDomain() (catalog.CostComponent, error) {
	category, err := catalog.ParseCostCategory(dto.Category)
	if err != nil {
		return catalog.CostComponent{}, err
	}
	valueType, err := catalog.ParseValueType(dto.ValueType)
	if err != nil {
		return catalog.CostComponent{}, err
	}
	return catalog.CostComponent{
		ID:         dto.ID,
		EnergyID:   dto.EnergyID,
		Key:        dto.Key,
		Name:       dto.Name,
		Category:   category,
		ValueType:  valueType,
		Value:      dto.Value,
		Order:      dto.Order,
		IsEditable: dto.IsEditable,
		Notes:      dto.Notes,
	}, nil
}

func (dto ParameterDTO) toDomain() (catalog.SystemParameter, error) {
	var category catalog.ParameterCategory
	if dto.Category != "" {
		var err error
		if category, err = catalog.ParseParameterCategory(dto.Category); err != nil {
			return catalog.SystemParameter{}, err
		}
	}
	return catalog.SystemParameter{
		ID:          dto.ID,
		Key:         dto.Key,
		Name:        dto.Name,
		Description: dto.Description,
		Category:    category,
		Value:       dto.Value,
		Unit:        dto.Unit,
		MinValue:    dto.MinValue,
		MaxValue:    dto.MaxValue,
		IsEditable:  dto.IsEditable,
	}, nil
}

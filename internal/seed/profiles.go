package seed

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rshade/fleetcost/internal/catalog"
)

// energyProfile holds the emission settings and links a seeded energy gets
// from its name. The seed document carries prices only.
type energyProfile struct {
	family            catalog.Family
	mode              catalog.EnergyMode
	emissionFactor    decimal.Decimal
	renewableShare    decimal.NullDecimal
	emissionReduction decimal.NullDecimal
	baseEnergy        string
	emissionReference string
	inheritEmission   bool
}

var (
	dieselFactor = decimal.RequireFromString("2.493")
	gasFactor    = decimal.RequireFromString("2.721")
	fullShare    = decimal.NewNullDecimal(decimal.NewFromInt(1))
	ninetyPct    = decimal.NewNullDecimal(decimal.RequireFromString("0.9"))
)

// energyProfiles is keyed by upper-case energy name.
var energyProfiles = map[string]energyProfile{
	"DIESEL":      {family: catalog.FamilyDiesel, mode: catalog.ModeSimple, emissionFactor: dieselFactor},
	"GAS NATURAL": {family: catalog.FamilyNaturalGas, mode: catalog.ModeSimple, emissionFactor: gasFactor},
	"H2":          {family: catalog.FamilyHydrogen, mode: catalog.ModeSimple},
	"BIOMETANO": {
		family: catalog.FamilyBiomethane, mode: catalog.ModeSimple, emissionFactor: gasFactor,
		renewableShare: fullShare, emissionReduction: ninetyPct, emissionReference: "GAS NATURAL",
	},
	"ELECTRICO": {family: catalog.FamilyElectric, mode: catalog.ModeSimple},
	"HVO": {
		family: catalog.FamilyHVO, mode: catalog.ModeSimple, emissionFactor: dieselFactor,
		renewableShare: fullShare, emissionReduction: ninetyPct, emissionReference: "DIESEL",
	},
	"DUO H2": {family: catalog.FamilyHydrogen, mode: catalog.ModeCombined, baseEnergy: "H2"},
	"DUO GASOIL": {
		family: catalog.FamilyDiesel, mode: catalog.ModeCombined, emissionFactor: dieselFactor,
		baseEnergy: "DIESEL", inheritEmission: true,
	},
	"DUO BIOMETANO": {
		family: catalog.FamilyBiomethane, mode: catalog.ModeCombined, emissionFactor: gasFactor,
		renewableShare: fullShare, emissionReduction: ninetyPct, baseEnergy: "BIOMETANO", inheritEmission: true,
	},
	"DUO HVO": {
		family: catalog.FamilyHVO, mode: catalog.ModeCombined, emissionFactor: dieselFactor,
		renewableShare: fullShare, emissionReduction: ninetyPct, baseEnergy: "HVO", inheritEmission: true,
	},
	"DUO ELECTRICO": {family: catalog.FamilyElectric, mode: catalog.ModeCombined, baseEnergy: "ELECTRICO"},
}

var defaultProfile = energyProfile{family: catalog.FamilyOther, mode: catalog.ModeSimple}

func profileFor(name string) energyProfile {
	if p, ok := energyProfiles[strings.ToUpper(strings.TrimSpace(name))]; ok {
		return p
	}
	return defaultProfile
}

// parameterDescriptor maps a seed document property to a system parameter.
type parameterDescriptor struct {
	property    string
	key         string
	name        string
	category    catalog.ParameterCategory
	description string
	unit        string
}

var parameterDescriptors = []parameterDescriptor{
	{"KmsPerDay", catalog.ParamDistancePerDayDefault, "Distance per day (default)", catalog.ParamCategoryOperation, "Initial distance per day suggested by the calculator", "km"},
	{"DaysPerMonth", catalog.ParamDaysPerMonthDefault, "Days per month (default)", catalog.ParamCategoryOperation, "Estimated operating days per month", "days"},
	{"DriverSalary", catalog.ParamDriverSalary, "Driver salary", catalog.ParamCategoryOperation, "Monthly salary per driver", "€"},
	{"Margin", catalog.ParamMargin, "Commercial margin", catalog.ParamCategoryPricing, "Margin applied over the daily cost", "%"},
	{"TrailerPrice", catalog.ParamTrailerPrice, "Trailer cost", catalog.ParamCategoryOperation, "Monthly fee of a standard trailer", "€"},
	{"DollyPrice", catalog.ParamDollyPrice, "Dolly cost", catalog.ParamCategoryOperation, "Monthly fee of the dolly used by combined setups", "€"},
	{"DuoConsumptionSaving", catalog.ParamDuoConsumptionSaving, "Combined consumption saving", catalog.ParamCategoryOperation, "Energy consumption saving factor of combined setups", "%"},
	{"YardCost", catalog.ParamYardCost, "Yard cost", catalog.ParamCategoryCorridor, "Additional yard cost per trip", "€"},
	{"TransportCost", catalog.ParamTransportCost, "Local transport cost", catalog.ParamCategoryCorridor, "Local transport cost per trip", "€"},
	{"DeliveriesPerMonth", catalog.ParamDeliveriesPerMonth, "Deliveries per month", catalog.ParamCategoryCorridor, "Monthly number of deliveries", "units"},
	{"CorridorKmDuo", catalog.ParamCorridorDuoDistance, "Combined corridor distance", catalog.ParamCategoryCorridor, "Estimated distance of the combined corridor", "km"},
	{"TripsPerMonth", catalog.ParamTripsPerMonth, "Hauls per trip", catalog.ParamCategoryCorridor, "Number of hauls per trip", "trips"},
	{"TollKmSimple", catalog.ParamTollDistanceSimple, "Toll distance (simple)", catalog.ParamCategoryCorridor, "Motorway distance for a simple vehicle", "km"},
	{"TollKmDuo", catalog.ParamTollDistanceDuo, "Toll distance (combined)", catalog.ParamCategoryCorridor, "Motorway distance for a combined vehicle", "km"},
	{"TollPricePerKmSimple", catalog.ParamTollPricePerDistSimple, "Toll price (simple)", catalog.ParamCategoryCorridor, "Motorway price per km for a simple vehicle", "€/km"},
	{"TollPricePerKmDuo", catalog.ParamTollPricePerDistDuo, "Toll price (combined)", catalog.ParamCategoryCorridor, "Motorway price per km for a combined vehicle", "€/km"},
	{"ExtraDriverFactor", catalog.ParamExtraDriverFactor, "Extra driver factor", catalog.ParamCategoryOperation, "Surcharge per additional driver on special vehicles", "%"},
	{"PricePerTonCO2", catalog.ParamCO2PricePerTon, "CO₂ price per ton", catalog.ParamCategoryEmissions, "Cost per metric ton of CO₂ emitted", "€/t"},
	{"TariffCorrectionFactor", catalog.ParamTariffCorrectionFactor, "Tariff correction factor", catalog.ParamCategoryPricing, "Correction applied to the computed tariff", "%"},
	{"SecondDriverThreshold", catalog.ParamSecondDriverThreshold, "Second driver threshold", catalog.ParamCategoryOperation, "Distance from which a second driver is required", "km"},
}

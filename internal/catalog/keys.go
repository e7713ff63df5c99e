package catalog

import "strings"

// Energy codes the engine gives special meaning to.
const (
	CodeDiesel       = "DIESEL"
	CodeNaturalGas   = "GAS_NATURAL"
	CodeHydrogen     = "H2"
	CodeHVO          = "HVO"
	CodeBiomethane   = "BIOMETANO"
	CodeElectric     = "ELECTRICO"
	CodeDuoGasoil    = "DUO_GASOIL"
	CodeDuoHVO       = "DUO_HVO"
	CodeDuoBiometano = "DUO_BIOMETANO"
	CodeDuoH2        = "DUO_H2"
	CodeDuoElectrico = "DUO_ELECTRICO"
)

// System parameter keys.
const (
	ParamDistancePerDayDefault  = "operation.kmsPerDayDefault"
	ParamDaysPerMonthDefault    = "operation.daysPerMonthDefault"
	ParamDriverSalary           = "operation.driverSalary"
	ParamMargin                 = "pricing.margin"
	ParamSecondDriverThreshold  = "operation.secondDriverThreshold"
	ParamExtraDriverFactor      = "operation.extraDriverFactor"
	ParamTrailerPrice           = "assets.trailerPrice"
	ParamDollyPrice             = "assets.dollyPrice"
	ParamDuoConsumptionSaving   = "operation.duoConsumptionSaving"
	ParamYardCost               = "corridor.yardCost"
	ParamTransportCost          = "corridor.transportCost"
	ParamDeliveriesPerMonth     = "corridor.deliveriesPerMonth"
	ParamCorridorDuoDistance    = "corridor.duoKm"
	ParamTripsPerMonth          = "corridor.tripsPerMonth"
	ParamTollDistanceSimple     = "corridor.tollKmSimple"
	ParamTollDistanceDuo        = "corridor.tollKmDuo"
	ParamTollPricePerDistSimple = "corridor.tollPricePerKmSimple"
	ParamTollPricePerDistDuo    = "corridor.tollPricePerKmDuo"
	ParamCO2PricePerTon         = "emissions.priceTonCo2"
	ParamTariffCorrectionFactor = "pricing.tariffCorrectionFactor"
)

// Well-known cost component keys.
const (
	ComponentTractorRent         = "tractor.rent"
	ComponentTractorInsurance    = "tractor.insurance"
	ComponentTractorTax          = "tractor.tax"
	ComponentTractorMaintenance  = "tractor.maintenance"
	ComponentTractorRepair       = "tractor.repair"
	ComponentTractorEquipment    = "tractor.equipment"
	ComponentTractorIncident     = "tractor.incident"
	ComponentPlatformRent        = "platform.rent"
	ComponentPlatformInsurance   = "platform.insurance"
	ComponentPlatformTax         = "platform.tax"
	ComponentPlatformMaintenance = "platform.maintenance"
	ComponentPlatformIncident    = "platform.incident"
	ComponentTelephone           = "general.telephone"
	ComponentMiscellaneous       = "general.miscellaneous"
	ComponentFuel                = "energy.fuel"
	ComponentDriverSalary        = "personnel.drivers"
	ComponentToll                = "operation.toll"
	ComponentTiresTractor        = "tires.tractor"
	ComponentTiresTrailer        = "tires.trailer"
	ComponentOtherVariable       = "variable.other"
	ComponentFleetPlanning       = "overhead.fleetPlanning"
	ComponentMarginPercent       = "overhead.marginPercent"
)

// componentKeys resolves generated names to the well-known component keys.
// Every well-known key resolves to itself regardless of case.
var componentKeys = func() map[string]string {
	known := []string{
		ComponentTractorRent, ComponentTractorInsurance, ComponentTractorTax,
		ComponentTractorMaintenance, ComponentTractorRepair, ComponentTractorEquipment,
		ComponentTractorIncident, ComponentPlatformRent, ComponentPlatformInsurance,
		ComponentPlatformTax, ComponentPlatformMaintenance, ComponentPlatformIncident,
		ComponentTelephone, ComponentMiscellaneous, ComponentFuel, ComponentDriverSalary,
		ComponentToll, ComponentTiresTractor, ComponentTiresTrailer, ComponentOtherVariable,
		ComponentFleetPlanning, ComponentMarginPercent,
	}
	m := make(map[string]string, len(known)+12)
	for _, k := range known {
		m[strings.ToLower(k)] = k
	}

	aliases := map[string]string{
		"telephone":      ComponentTelephone,
		"miscellaneous":  ComponentMiscellaneous,
		"fuel":           ComponentFuel,
		"drivers":        ComponentDriverSalary,
		"driver.salary":  ComponentDriverSalary,
		"toll":           ComponentToll,
		"tolls":          ComponentToll,
		"other.variable": ComponentOtherVariable,
		"fleet.planning": ComponentFleetPlanning,
		"margin":         ComponentMarginPercent,
		"margin.percent": ComponentMarginPercent,
	}
	for alias, k := range aliases {
		m[alias] = k
	}
	return m
}()

// ComponentKeyFor returns the well-known key a component display name stands
// for, or the key generated from the name when it matches none.
func ComponentKeyFor(name string) string {
	key := GenerateKey(name)
	if known, ok := componentKeys[key]; ok {
		return known
	}
	return key
}

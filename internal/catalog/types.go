// Package catalog defines the energy catalog consumed by the cost engine:
// energy definitions, their cost components and the tunable system parameters.
package catalog

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrUnrecognizedClassification is returned when a mode, category or value
// type falls outside its closed set.
var ErrUnrecognizedClassification = errors.New("unrecognized classification")

// EnergyDefinition describes one energy option in the catalog.
type EnergyDefinition struct {
	ID     uuid.UUID
	Code   string
	Name   string
	Family Family
	Mode   EnergyMode

	// BaseEnergyID links a Combined energy to the energy it builds on.
	BaseEnergyID uuid.NullUUID
	// EmissionReferenceEnergyID borrows the emission factor of another energy.
	EmissionReferenceEnergyID uuid.NullUUID

	// PricePerUnit is the price per consumption unit (litre, kg, kWh).
	PricePerUnit decimal.Decimal
	// ConsumptionPer100 is units consumed per 100 distance units.
	ConsumptionPer100   decimal.Decimal
	RentingCostPerMonth decimal.Decimal
	// EmissionFactorPerUnit is kg CO2 per consumption unit.
	EmissionFactorPerUnit decimal.Decimal
	RenewableShare        decimal.NullDecimal
	EmissionReduction     decimal.NullDecimal

	InheritEmissionFromBase bool
	IsActive                bool

	CostComponents []CostComponent
}

// ConsumptionPerDistance returns the units consumed per single distance unit.
func (e EnergyDefinition) ConsumptionPerDistance() decimal.Decimal {
	return e.ConsumptionPer100.Div(decimal.NewFromInt(100))
}

// Validate checks every classification carried by the energy and its
// components.
func (e EnergyDefinition) Validate() error {
	if !e.Mode.Valid() {
		return fmt.Errorf("energy %s: %w: mode %q", e.Code, ErrUnrecognizedClassification, e.Mode)
	}
	for _, c := range e.CostComponents {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("energy %s: %w", e.Code, err)
		}
	}
	return nil
}

// Clone returns a deep copy so callers can hand out definitions without
// sharing the component slice.
func (e EnergyDefinition) Clone() EnergyDefinition {
	if e.CostComponents != nil {
		components := make([]CostComponent, len(e.CostComponents))
		copy(components, e.CostComponents)
		e.CostComponents = components
	}
	return e
}

// CostComponent is one monthly cost line attached to an energy.
type CostComponent struct {
	ID         uuid.UUID
	EnergyID   uuid.UUID
	Key        string
	Name       string
	Category   CostCategory
	ValueType  ValueType
	Value      decimal.Decimal
	Order      int
	IsEditable bool
	Notes      string
}

// Validate checks the component category and value type.
func (c CostComponent) Validate() error {
	if !c.Category.Valid() {
		return fmt.Errorf("component %s: %w: category %q", c.Key, ErrUnrecognizedClassification, c.Category)
	}
	if !c.ValueType.Valid() {
		return fmt.Errorf("component %s: %w: value type %q", c.Key, ErrUnrecognizedClassification, c.ValueType)
	}
	return nil
}

// SystemParameter is a named, tunable numeric value.
type SystemParameter struct {
	ID          uuid.UUID
	Key         string
	Name        string
	Description string
	Category    ParameterCategory
	Value       decimal.Decimal
	Unit        string
	MinValue    decimal.NullDecimal
	MaxValue    decimal.NullDecimal
	IsEditable  bool
}

// CheckBounds reports whether the value sits inside the optional bounds.
func (p SystemParameter) CheckBounds() error {
	if p.MinValue.Valid && p.Value.LessThan(p.MinValue.Decimal) {
		return fmt.Errorf("parameter %s: value %s below minimum %s", p.Key, p.Value, p.MinValue.Decimal)
	}
	if p.MaxValue.Valid && p.Value.GreaterThan(p.MaxValue.Decimal) {
		return fmt.Errorf("parameter %s: value %s above maximum %s", p.Key, p.Value, p.MaxValue.Decimal)
	}
	return nil
}

// ParameterSet maps parameter keys to values.
type ParameterSet map[string]decimal.Decimal

// NewParameterSet indexes parameters by key. Keys must be unique.
func NewParameterSet(params []SystemParameter) (ParameterSet, error) {
	set := make(ParameterSet, len(params))
	for _, p := range params {
		if _, dup := set[p.Key]; dup {
			return nil, fmt.Errorf("duplicate parameter key %q", p.Key)
		}
		set[p.Key] = p.Value
	}
	return set, nil
}

// Value returns the value stored under key, or zero when absent.
func (s ParameterSet) Value(key string) decimal.Decimal {
	if v, ok := s[key]; ok {
		return v
	}
	return decimal.Zero
}

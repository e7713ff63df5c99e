package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/rshade/fleetcost/internal/catalog"
	"github.com/rshade/fleetcost/internal/metrics"
	"github.com/rshade/fleetcost/internal/seed"
	"github.com/rshade/fleetcost/internal/store"
)

// ListEnergies returns the whole catalog, inactive energies included.
func (s *CalculationService) ListEnergies(ctx context.Context) ([]catalog.EnergyDefinition, error) {
	return s.repo.ListEnergies(ctx)
}

// GetEnergy looks an energy up by code, case-insensitively.
func (s *CalculationService) GetEnergy(ctx context.Context, code string) (catalog.EnergyDefinition, error) {
	return s.repo.GetEnergyByCode(ctx, code)
}

// CreateEnergy stores a new energy with its components. Missing ids are
// generated, a missing code is derived from the name and components without
// a key get one derived from their name.
func (s *CalculationService) CreateEnergy(ctx context.Context, e catalog.EnergyDefinition) (catalog.EnergyDefinition, error) {
	if err := checkEnergy(&e); err != nil {
		return catalog.EnergyDefinition{}, err
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	for i := range e.CostComponents {
		c := &e.CostComponents[i]
		c.EnergyID = e.ID
		if err := checkComponent(c); err != nil {
			return catalog.EnergyDefinition{}, fmt.Errorf("energy %s: %w", e.Code, err)
		}
	}
	if err := e.Validate(); err != nil {
		return catalog.EnergyDefinition{}, err
	}

	if err := s.repo.CreateEnergy(ctx, e); err != nil {
		return catalog.EnergyDefinition{}, err
	}
	s.Invalidate()
	s.loggerFrom(ctx).Info().Str("energy", e.Code).Int("components", len(e.CostComponents)).Msg("energy created")
	return s.repo.GetEnergyByID(ctx, e.ID)
}

// UpdateEnergy replaces the scalar fields of the energy stored under id.
// Its components are kept as they are.
func (s *CalculationService) UpdateEnergy(ctx context.Context, id uuid.UUID, e catalog.EnergyDefinition) (catalog.EnergyDefinition, error) {
	e.ID = id
	e.CostComponents = nil
	if err := checkEnergy(&e); err != nil {
		return catalog.EnergyDefinition{}, err
	}
	if err := e.Validate(); err != nil {
		return catalog.EnergyDefinition{}, err
	}

	if err := s.repo.UpdateEnergy(ctx, e); err != nil {
		return catalog.EnergyDefinition{}, err
	}
	s.Invalidate()
	s.loggerFrom(ctx).Info().Str("energy", e.Code).Msg("energy updated")
	return s.repo.GetEnergyByID(ctx, id)
}

// DeleteEnergy removes an energy and its components. Unknown ids succeed.
func (s *CalculationService) DeleteEnergy(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteEnergy(ctx, id); err != nil {
		return err
	}
	s.Invalidate()
	s.loggerFrom(ctx).Info().Str("energy_id", id.String()).Msg("energy deleted")
	return nil
}

// UpsertComponent attaches c to the energy stored under energyID, or updates
// it when c.ID already exists.
func (s *CalculationService) UpsertComponent(ctx context.Context, energyID uuid.UUID, c catalog.CostComponent) (catalog.CostComponent, error) {
	if _, err := s.repo.GetEnergyByID(ctx, energyID); err != nil {
		return catalog.CostComponent{}, err
	}
	c.EnergyID = energyID
	if err := checkComponent(&c); err != nil {
		return catalog.CostComponent{}, err
	}
	if err := c.Validate(); err != nil {
		return catalog.CostComponent{}, err
	}

	if err := s.repo.UpsertComponent(ctx, c); err != nil {
		return catalog.CostComponent{}, err
	}
	s.Invalidate()
	s.loggerFrom(ctx).Info().
		Str("energy_id", energyID.String()).
		Str("component", c.Key).
		Msg("cost component saved")

	e, err := s.repo.GetEnergyByID(ctx, energyID)
	if err != nil {
		return catalog.CostComponent{}, err
	}
	for _, stored := range e.CostComponents {
		if stored.ID == c.ID {
			return stored, nil
		}
	}
	// The id belonged to a component of another energy.
	return c, nil
}

// DeleteComponent removes a component. Unknown ids succeed.
func (s *CalculationService) DeleteComponent(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteComponent(ctx, id); err != nil {
		return err
	}
	s.Invalidate()
	return nil
}

// ListParameters returns every system parameter.
func (s *CalculationService) ListParameters(ctx context.Context) ([]catalog.SystemParameter, error) {
	return s.repo.ListParameters(ctx)
}

// UpsertParameter stores p under key. Bounds not supplied are taken from the
// stored parameter and the value must respect them.
func (s *CalculationService) UpsertParameter(ctx context.Context, key string, p catalog.SystemParameter) (catalog.SystemParameter, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return catalog.SystemParameter{}, fmt.Errorf("%w: parameter key is required", ErrInvalid)
	}
	p.Key = key

	existing, err := s.repo.GetParameter(ctx, key)
	switch {
	case err == nil:
		p.ID = existing.ID
		if !p.MinValue.Valid {
			p.MinValue = existing.MinValue
		}
		if !p.MaxValue.Valid {
			p.MaxValue = existing.MaxValue
		}
	case errors.Is(err, store.ErrNotFound):
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
	default:
		return catalog.SystemParameter{}, err
	}

	if p.Category == "" {
		p.Category = catalog.ParamCategoryGeneral
	}
	if err := p.CheckBounds(); err != nil {
		return catalog.SystemParameter{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	if err := s.repo.UpsertParameter(ctx, p); err != nil {
		return catalog.SystemParameter{}, err
	}
	s.Invalidate()
	s.loggerFrom(ctx).Info().Str("parameter", key).Str("value", p.Value.String()).Msg("parameter saved")
	return s.repo.GetParameter(ctx, key)
}

// ImportEnergies replaces energies and parameters with the seed document.
func (s *CalculationService) ImportEnergies(ctx context.Context) (seed.Report, error) {
	report, err := s.importer.ApplyFile(ctx, s.seedPath, true)
	if err != nil {
		return seed.Report{}, err
	}
	s.Invalidate()
	metrics.RecordImport("energies", report.Energies)
	metrics.RecordImport("parameters", report.Parameters)
	return report, nil
}

// ImportParameters upserts the parameters of the seed document by key.
func (s *CalculationService) ImportParameters(ctx context.Context) (int, error) {
	n, err := s.importer.ImportParametersFile(ctx, s.seedPath)
	if err != nil {
		return 0, err
	}
	s.Invalidate()
	metrics.RecordImport("parameters", n)
	return n, nil
}

// Seed imports the seed document into empty stores; see seed.Importer.Apply.
func (s *CalculationService) Seed(ctx context.Context, overwrite bool) (seed.Report, error) {
	report, err := s.importer.ApplyFile(ctx, s.seedPath, overwrite)
	if err != nil {
		return seed.Report{}, err
	}
	s.Invalidate()
	return report, nil
}

func checkEnergy(e *catalog.EnergyDefinition) error {
	e.Name = strings.TrimSpace(e.Name)
	if e.Name == "" {
		return fmt.Errorf("%w: energy name is required", ErrInvalid)
	}
	e.Code = strings.TrimSpace(e.Code)
	if e.Code == "" {
		e.Code = catalog.GenerateCode(e.Name)
	}
	if e.Family == "" {
		e.Family = catalog.FamilyOther
	}
	if e.PricePerUnit.IsNegative() || e.ConsumptionPer100.IsNegative() {
		return fmt.Errorf("%w: energy %s: price and consumption must not be negative", ErrInvalid, e.Code)
	}
	return nil
}

func checkComponent(c *catalog.CostComponent) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return fmt.Errorf("%w: component name is required", ErrInvalid)
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if strings.TrimSpace(c.Key) == "" {
		c.Key = catalog.ComponentKeyFor(c.Name)
	}
	return nil
}

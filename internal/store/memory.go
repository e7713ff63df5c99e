package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/rshade/fleetcost/internal/catalog"
)

// Memory is a Repository kept in process memory.
type Memory struct {
	mu         sync.RWMutex
	energies   map[uuid.UUID]catalog.EnergyDefinition
	parameters map[string]catalog.SystemParameter
}

// NewMemory returns an empty in-memory repository.
func NewMemory() *Memory {
	return &Memory{
		energies:   make(map[uuid.UUID]catalog.EnergyDefinition),
		parameters: make(map[string]catalog.SystemParameter),
	}
}

func (m *Memory) ListEnergies(_ context.Context) ([]catalog.EnergyDefinition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]catalog.EnergyDefinition, 0, len(m.energies))
	for _, e := range m.energies {
		out = append(out, withSortedComponents(e))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Code < out[j].Code
	})
	return out, nil
}

func (m *Memory) GetEnergyByCode(_ context.Context, code string) (catalog.EnergyDefinition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, e := range m.energies {
		if strings.EqualFold(e.Code, code) {
			return withSortedComponents(e), nil
		}
	}
	return catalog.EnergyDefinition{}, fmt.Errorf("energy %s: %w", code, ErrNotFound)
}

func (m *Memory) GetEnergyByID(_ context.Context, id uuid.UUID) (catalog.EnergyDefinition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.energies[id]
	if !ok {
		return catalog.EnergyDefinition{}, fmt.Errorf("energy %s: %w", id, ErrNotFound)
	}
	return withSortedComponents(e), nil
}

func (m *Memory) CreateEnergy(_ context.Context, e catalog.EnergyDefinition) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.energies[e.ID]; ok {
		return fmt.Errorf("energy %s: %w", e.ID, ErrConflict)
	}
	if m.codeTaken(e.Code, e.ID) {
		return fmt.Errorf("energy code %s: %w", e.Code, ErrConflict)
	}
	m.energies[e.ID] = e.Clone()
	return nil
}

func (m *Memory) UpdateEnergy(_ context.Context, e catalog.EnergyDefinition) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.energies[e.ID]
	if !ok {
		return fmt.Errorf("energy %s: %w", e.ID, ErrNotFound)
	}
	if m.codeTaken(e.Code, e.ID) {
		return fmt.Errorf("energy code %s: %w", e.Code, ErrConflict)
	}
	updated := e.Clone()
	updated.CostComponents = existing.CostComponents
	m.energies[e.ID] = updated
	return nil
}

func (m *Memory) DeleteEnergy(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.energies, id)
	return nil
}

func (m *Memory) ReplaceEnergies(_ context.Context, energies []catalog.EnergyDefinition) error {
	next := make(map[uuid.UUID]catalog.EnergyDefinition, len(energies))
	codes := make(map[string]struct{}, len(energies))
	for _, e := range energies {
		code := strings.ToUpper(e.Code)
		if _, dup := codes[code]; dup {
			return fmt.Errorf("energy code %s: %w", e.Code, ErrConflict)
		}
		codes[code] = struct{}{}
		next[e.ID] = e.Clone()
	}

	m.mu.Lock()
	m.energies = next
	m.mu.Unlock()
	return nil
}

func (m *Memory) UpsertComponent(_ context.Context, c catalog.CostComponent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, e := range m.energies {
		for i, existing := range e.CostComponents {
			if existing.ID != c.ID {
				continue
			}
			e = e.Clone()
			c.EnergyID = existing.EnergyID
			c.Key = existing.Key
			e.CostComponents[i] = c
			m.energies[id] = e
			return nil
		}
	}

	e, ok := m.energies[c.EnergyID]
	if !ok {
		return fmt.Errorf("energy %s: %w", c.EnergyID, ErrNotFound)
	}
	e = e.Clone()
	e.CostComponents = append(e.CostComponents, c)
	m.energies[c.EnergyID] = e
	return nil
}

func (m *Memory) DeleteComponent(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for energyID, e := range m.energies {
		for i, c := range e.CostComponents {
			if c.ID != id {
				continue
			}
			components := make([]catalog.CostComponent, 0, len(e.CostComponents)-1)
			components = append(components, e.CostComponents[:i]...)
			components = append(components, e.CostComponents[i+1:]...)
			e.CostComponents = components
			m.energies[energyID] = e
			return nil
		}
	}
	return nil
}

func (m *Memory) ListParameters(_ context.Context) ([]catalog.SystemParameter, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]catalog.SystemParameter, 0, len(m.parameters))
	for _, p := range m.parameters {
		out = append(out, p)
	}
	sortParameters(out)
	return out, nil
}

func (m *Memory) GetParameter(_ context.Context, key string) (catalog.SystemParameter, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.parameters[key]
	if !ok {
		return catalog.SystemParameter{}, fmt.Errorf("parameter %s: %w", key, ErrNotFound)
	}
	return p, nil
}

func (m *Memory) UpsertParameter(_ context.Context, p catalog.SystemParameter) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.parameters[p.Key]; ok {
		p.ID = existing.ID
	}
	m.parameters[p.Key] = p
	return nil
}

func (m *Memory) ReplaceParameters(_ context.Context, params []catalog.SystemParameter) error {
	next := make(map[string]catalog.SystemParameter, len(params))
	for _, p := range params {
		if _, dup := next[p.Key]; dup {
			return fmt.Errorf("parameter %s: %w", p.Key, ErrConflict)
		}
		next[p.Key] = p
	}

	m.mu.Lock()
	m.parameters = next
	m.mu.Unlock()
	return nil
}

func (m *Memory) Ping(_ context.Context) error {
	return nil
}

func (m *Memory) Close() {}

// codeTaken reports whether another energy already uses code. Callers hold mu.
func (m *Memory) codeTaken(code string, self uuid.UUID) bool {
	for id, e := range m.energies {
		if id != self && strings.EqualFold(e.Code, code) {
			return true
		}
	}
	return false
}

func withSortedComponents(e catalog.EnergyDefinition) catalog.EnergyDefinition {
	e = e.Clone()
	sort.SliceStable(e.CostComponents, func(i, j int) bool {
		return e.CostComponents[i].Order < e.CostComponents[j].Order
	})
	return e
}

func sortParameters(params []catalog.SystemParameter) {
	sort.SliceStable(params, func(i, j int) bool {
		if params[i].Category != params[j].Category {
			return params[i].Category < params[j].Category
		}
		return params[i].Name < params[j].Name
	})
}

// Package store persists the energy catalog and system parameters.
//
// Two backends are provided: an in-memory store for tests and local runs, and
// a PostgreSQL store built on pgxpool. Both return copies, so callers may
// keep what they read without further locking.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/rshade/fleetcost/internal/catalog"
)

// ErrNotFound is returned when a lookup matches nothing.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a unique code or key is already taken.
var ErrConflict = errors.New("already exists")

// Repository is the catalog persistence contract.
type Repository interface {
	// ListEnergies returns every energy, active or not, ordered by name, with
	// components ordered by Order.
	ListEnergies(ctx context.Context) ([]catalog.EnergyDefinition, error)
	GetEnergyByCode(ctx context.Context, code string) (catalog.EnergyDefinition, error)
	GetEnergyByID(ctx context.Context, id uuid.UUID) (catalog.EnergyDefinition, error)
	// CreateEnergy inserts an energy together with its components.
	CreateEnergy(ctx context.Context, e catalog.EnergyDefinition) error
	// UpdateEnergy replaces the scalar fields of an energy; components are
	// left untouched.
	UpdateEnergy(ctx context.Context, e catalog.EnergyDefinition) error
	// DeleteEnergy removes an energy and its components. Missing ids are ignored.
	DeleteEnergy(ctx context.Context, id uuid.UUID) error
	// ReplaceEnergies swaps the whole energy catalog atomically.
	ReplaceEnergies(ctx context.Context, energies []catalog.EnergyDefinition) error

	// UpsertComponent inserts a component or updates it by id.
	UpsertComponent(ctx context.Context, c catalog.CostComponent) error
	// DeleteComponent removes a component. Missing ids are ignored.
	DeleteComponent(ctx context.Context, id uuid.UUID) error

	// ListParameters returns parameters ordered by category then name.
	ListParameters(ctx context.Context) ([]catalog.SystemParameter, error)
	GetParameter(ctx context.Context, key string) (catalog.SystemParameter, error)
	// UpsertParameter inserts a parameter or updates it by key, keeping the
	// stored id.
	UpsertParameter(ctx context.Context, p catalog.SystemParameter) error
	// ReplaceParameters swaps the whole parameter set atomically.
	ReplaceParameters(ctx context.Context, params []catalog.SystemParameter) error

	Ping(ctx context.Context) error
	Close()
}

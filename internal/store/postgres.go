package store

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/rshade/fleetcost/internal/catalog"
)

//go:embed schema.sql
var schemaSQL string

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

const energyColumns = `id, code, name, family, mode, base_energy_id, emission_reference_energy_id,
	price_per_unit, consumption_per_100, renting_cost_per_month, emission_factor_per_unit,
	renewable_share, emission_reduction, inherit_emission_from_base, is_active`

const componentColumns = `id, energy_id, key, name, category, value_type, value, sort_order, is_editable, notes`

const parameterColumns = `id, key, name, description, category, value, unit, min_value, max_value, is_editable`

// Postgres is a Repository backed by a pgx connection pool.
type Postgres struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPostgres connects to databaseURL and verifies the connection.
func NewPostgres(ctx context.Context, databaseURL string, logger zerolog.Logger) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Postgres{pool: pool, logger: logger}, nil
}

// EnsureSchema creates the catalog tables when missing.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	p.logger.Debug().Msg("database schema ensured")
	return nil
}

func (p *Postgres) ListEnergies(ctx context.Context) ([]catalog.EnergyDefinition, error) {
	rows, err := p.pool.Query(ctx, `SELECT `+energyColumns+` FROM energies ORDER BY name, code`)
	if err != nil {
		return nil, fmt.Errorf("list energies: %w", err)
	}
	energies, err := collect(rows, scanEnergy)
	if err != nil {
		return nil, fmt.Errorf("scan energies: %w", err)
	}

	rows, err = p.pool.Query(ctx,
		`SELECT `+componentColumns+` FROM energy_cost_components ORDER BY energy_id, sort_order, name`)
	if err != nil {
		return nil, fmt.Errorf("list components: %w", err)
	}
	components, err := collect(rows, scanComponent)
	if err != nil {
		return nil, fmt.Errorf("scan components: %w", err)
	}

	byEnergy := make(map[uuid.UUID][]catalog.CostComponent, len(energies))
	for _, c := range components {
		byEnergy[c.EnergyID] = append(byEnergy[c.EnergyID], c)
	}
	for i := range energies {
		energies[i].CostComponents = byEnergy[energies[i].ID]
	}
	return energies, nil
}

func (p *Postgres) GetEnergyByCode(ctx context.Context, code string) (catalog.EnergyDefinition, error) {
	row := p.pool.QueryRow(ctx, `SELECT `+energyColumns+` FROM energies WHERE upper(code) = upper($1)`, code)
	return p.loadEnergy(ctx, row, code)
}

func (p *Postgres) GetEnergyByID(ctx context.Context, id uuid.UUID) (catalog.EnergyDefinition, error) {
	row := p.pool.QueryRow(ctx, `SELECT `+energyColumns+` FROM energies WHERE id = $1`, id)
	return p.loadEnergy(ctx, row, id.String())
}

func (p *Postgres) loadEnergy(ctx context.Context, row pgx.Row, ref string) (catalog.EnergyDefinition, error) {
	e, err := scanEnergy(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return catalog.EnergyDefinition{}, fmt.Errorf("energy %s: %w", ref, ErrNotFound)
	}
	if err != nil {
		return catalog.EnergyDefinition{}, fmt.Errorf("get energy %s: %w", ref, err)
	}

	rows, err := p.pool.Query(ctx,
		`SELECT `+componentColumns+` FROM energy_cost_components WHERE energy_id = $1 ORDER BY sort_order, name`, e.ID)
	if err != nil {
		return catalog.EnergyDefinition{}, fmt.Errorf("list components of %s: %w", e.Code, err)
	}
	e.CostComponents, err = collect(rows, scanComponent)
	if err != nil {
		return catalog.EnergyDefinition{}, fmt.Errorf("scan components of %s: %w", e.Code, err)
	}
	return e, nil
}

func (p *Postgres) CreateEnergy(ctx context.Context, e catalog.EnergyDefinition) error {
	return pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		return insertEnergy(ctx, tx, e)
	})
}

func (p *Postgres) UpdateEnergy(ctx context.Context, e catalog.EnergyDefinition) error {
	tag, err := p.pool.Exec(ctx, `
		UPDATE energies SET
			code = $2, name = $3, family = $4, mode = $5,
			base_energy_id = $6, emission_reference_energy_id = $7,
			price_per_unit = $8, consumption_per_100 = $9, renting_cost_per_month = $10,
			emission_factor_per_unit = $11, renewable_share = $12, emission_reduction = $13,
			inherit_emission_from_base = $14, is_active = $15
		WHERE id = $1`,
		energyArgs(e)...)
	if err != nil {
		return translateError(fmt.Sprintf("update energy %s", e.Code), err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("energy %s: %w", e.ID, ErrNotFound)
	}
	return nil
}

func (p *Postgres) DeleteEnergy(ctx context.Context, id uuid.UUID) error {
	if _, err := p.pool.Exec(ctx, `DELETE FROM energies WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete energy %s: %w", id, err)
	}
	return nil
}

func (p *Postgres) ReplaceEnergies(ctx context.Context, energies []catalog.EnergyDefinition) error {
	return pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM energies`); err != nil {
			return fmt.Errorf("clear energies: %w", err)
		}
		for _, e := range energies {
			if err := insertEnergy(ctx, tx, e); err != nil {
				return err
			}
		}
		p.logger.Debug().Int("energies", len(energies)).Msg("energy catalog replaced")
		return nil
	})
}

func (p *Postgres) UpsertComponent(ctx context.Context, c catalog.CostComponent) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO energy_cost_components (`+componentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, category = EXCLUDED.category, value_type = EXCLUDED.value_type,
			value = EXCLUDED.value, sort_order = EXCLUDED.sort_order,
			is_editable = EXCLUDED.is_editable, notes = EXCLUDED.notes`,
		componentArgs(c)...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return fmt.Errorf("energy %s: %w", c.EnergyID, ErrNotFound)
		}
		return fmt.Errorf("upsert component %s: %w", c.Key, err)
	}
	return nil
}

func (p *Postgres) DeleteComponent(ctx context.Context, id uuid.UUID) error {
	if _, err := p.pool.Exec(ctx, `DELETE FROM energy_cost_components WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete component %s: %w", id, err)
	}
	return nil
}

func (p *Postgres) ListParameters(ctx context.Context) ([]catalog.SystemParameter, error) {
	rows, err := p.pool.Query(ctx, `SELECT `+parameterColumns+` FROM system_parameters ORDER BY category, name`)
	if err != nil {
		return nil, fmt.Errorf("list parameters: %w", err)
	}
	params, err := collect(rows, scanParameter)
	if err != nil {
		return nil, fmt.Errorf("scan parameters: %w", err)
	}
	return params, nil
}

func (p *Postgres) GetParameter(ctx context.Context, key string) (catalog.SystemParameter, error) {
	row := p.pool.QueryRow(ctx, `SELECT `+parameterColumns+` FROM system_parameters WHERE key = $1`, key)
	param, err := scanParameter(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return catalog.SystemParameter{}, fmt.Errorf("parameter %s: %w", key, ErrNotFound)
	}
	if err != nil {
		return catalog.SystemParameter{}, fmt.Errorf("get parameter %s: %w", key, err)
	}
	return param, nil
}

func (p *Postgres) UpsertParameter(ctx context.Context, param catalog.SystemParameter) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO system_parameters (`+parameterColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (key) DO UPDATE SET
			name = EXCLUDED.name, description = EXCLUDED.description, category = EXCLUDED.category,
			value = EXCLUDED.value, unit = EXCLUDED.unit, min_value = EXCLUDED.min_value,
			max_value = EXCLUDED.max_value, is_editable = EXCLUDED.is_editable`,
		parameterArgs(param)...)
	if err != nil {
		return fmt.Errorf("upsert parameter %s: %w", param.Key, err)
	}
	return nil
}

func (p *Postgres) ReplaceParameters(ctx context.Context, params []catalog.SystemParameter) error {
	return pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM system_parameters`); err != nil {
			return fmt.Errorf("clear parameters: %w", err)
		}
		batch := &pgx.Batch{}
		for _, param := range params {
			batch.Queue(`INSERT INTO system_parameters (`+parameterColumns+`)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`, parameterArgs(param)...)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return translateError("insert parameters", err)
		}
		return nil
	})
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *Postgres) Close() {
	p.pool.Close()
}

func insertEnergy(ctx context.Context, tx pgx.Tx, e catalog.EnergyDefinition) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO energies (`+energyColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		energyArgs(e)...)
	if err != nil {
		return translateError(fmt.Sprintf("insert energy %s", e.Code), err)
	}

	if len(e.CostComponents) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, c := range e.CostComponents {
		c.EnergyID = e.ID
		batch.Queue(`INSERT INTO energy_cost_components (`+componentColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`, componentArgs(c)...)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return translateError(fmt.Sprintf("insert components of %s", e.Code), err)
	}
	return nil
}

func collect[T any](rows pgx.Rows, scan func(pgx.Row) (T, error)) ([]T, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (T, error) {
		return scan(row)
	})
}

func translateError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w", op, ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func energyArgs(e catalog.EnergyDefinition) []any {
	return []any{
		e.ID, e.Code, e.Name, string(e.Family), string(e.Mode),
		e.BaseEnergyID, e.EmissionReferenceEnergyID,
		e.PricePerUnit, e.ConsumptionPer100, e.RentingCostPerMonth, e.EmissionFactorPerUnit,
		e.RenewableShare, e.EmissionReduction, e.InheritEmissionFromBase, e.IsActive,
	}
}

func componentArgs(c catalog.CostComponent) []any {
	return []any{
		c.ID, c.EnergyID, c.Key, c.Name, string(c.Category), string(c.ValueType),
		c.Value, c.Order, c.IsEditable, c.Notes,
	}
}

func parameterArgs(p catalog.SystemParameter) []any {
	return []any{
		p.ID, p.Key, p.Name, p.Description, string(p.Category),
		p.Value, p.Unit, p.MinValue, p.MaxValue, p.IsEditable,
	}
}

// Classifications are stored verbatim; the engine rejects unknown values.
func scanEnergy(row pgx.Row) (catalog.EnergyDefinition, error) {
	var (
		e            catalog.EnergyDefinition
		family, mode string
	)
	err := row.Scan(
		&e.ID, &e.Code, &e.Name, &family, &mode,
		&e.BaseEnergyID, &e.EmissionReferenceEnergyID,
		&e.PricePerUnit, &e.ConsumptionPer100, &e.RentingCostPerMonth, &e.EmissionFactorPerUnit,
		&e.RenewableShare, &e.EmissionReduction, &e.InheritEmissionFromBase, &e.IsActive,
	)
	e.Family = catalog.Family(family)
	e.Mode = catalog.EnergyMode(mode)
	return e, err
}

func scanComponent(row pgx.Row) (catalog.CostComponent, error) {
	var (
		c                   catalog.CostComponent
		category, valueType string
	)
	err := row.Scan(
		&c.ID, &c.EnergyID, &c.Key, &c.Name, &category, &valueType,
		&c.Value, &c.Order, &c.IsEditable, &c.Notes,
	)
	c.Category = catalog.CostCategory(category)
	c.ValueType = catalog.ValueType(valueType)
	return c, err
}

func scanParameter(row pgx.Row) (catalog.SystemParameter, error) {
	var (
		p        catalog.SystemParameter
		category string
	)
	err := row.Scan(
		&p.ID, &p.Key, &p.Name, &p.Description, &category,
		&p.Value, &p.Unit, &p.MinValue, &p.MaxValue, &p.IsEditable,
	)
	p.Category = catalog.ParameterCategory(category)
	return p, err
}

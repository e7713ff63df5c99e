package seed

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rshade/fleetcost/internal/store"
)

// Importer writes seed documents into a repository.
type Importer struct {
	repo   store.Repository
	logger zerolog.Logger
}

// NewImporter creates an Importer.
func NewImporter(repo store.Repository, logger zerolog.Logger) *Importer {
	return &Importer{repo: repo, logger: logger.With().Str("component", "seed").Logger()}
}

// Report summarizes an import.
type Report struct {
	Energies   int  `json:"energies"`
	Parameters int  `json:"parameters"`
	Skipped    bool `json:"skipped"`
}

// Apply imports the document. Without overwrite, energies and parameters
// are each written only when the repository holds none yet. With overwrite
// both sets are replaced.
func (im *Importer) Apply(ctx context.Context, f *File, overwrite bool) (Report, error) {
	built, err := Build(f)
	if err != nil {
		return Report{}, fmt.Errorf("build seed catalog: %w", err)
	}

	writeEnergies, writeParameters := overwrite, overwrite
	if !overwrite {
		energies, err := im.repo.ListEnergies(ctx)
		if err != nil {
			return Report{}, err
		}
		params, err := im.repo.ListParameters(ctx)
		if err != nil {
			return Report{}, err
		}
		writeEnergies = len(energies) == 0
		writeParameters = len(params) == 0
	}

	if !writeEnergies && !writeParameters {
		im.logger.Info().Msg("seed skipped: energies and parameters already exist")
		return Report{Skipped: true}, nil
	}

	var report Report
	if writeEnergies {
		if err := im.repo.ReplaceEnergies(ctx, built.Energies); err != nil {
			return Report{}, fmt.Errorf("import energies: %w", err)
		}
		report.Energies = len(built.Energies)
	}
	if writeParameters {
		if err := im.repo.ReplaceParameters(ctx, built.Parameters); err != nil {
			return report, fmt.Errorf("import parameters: %w", err)
		}
		report.Parameters = len(built.Parameters)
	}

	im.logger.Info().
		Int("energies", report.Energies).
		Int("parameters", report.Parameters).
		Bool("overwrite", overwrite).
		Msg("seed data imported")
	return report, nil
}

// ApplyFile loads path and applies it.
func (im *Importer) ApplyFile(ctx context.Context, path string, overwrite bool) (Report, error) {
	f, err := Load(path)
	if err != nil {
		return Report{}, err
	}
	im.logger.Debug().Str("path", path).Msg("seed file loaded")
	return im.Apply(ctx, f, overwrite)
}

// ImportParameters upserts every known parameter of the document by key.
// Stored ids are kept and energies are not touched.
func (im *Importer) ImportParameters(ctx context.Context, f *File) (int, error) {
	if len(f.Parameters) == 0 {
		im.logger.Warn().Msg("seed document has no parameters section")
		return 0, nil
	}

	params := BuildParameters(f)
	for _, p := range params {
		if err := im.repo.UpsertParameter(ctx, p); err != nil {
			return 0, fmt.Errorf("import parameter %s: %w", p.Key, err)
		}
	}
	im.logger.Info().Int("parameters", len(params)).Msg("parameters imported from seed")
	return len(params), nil
}

// ImportParametersFile loads path and imports its parameters.
func (im *Importer) ImportParametersFile(ctx context.Context, path string) (int, error) {
	f, err := Load(path)
	if err != nil {
		return 0, err
	}
	return im.ImportParameters(ctx, f)
}

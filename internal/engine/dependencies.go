package engine

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/rshade/fleetcost/internal/catalog"
)

// DependencyIssueKind classifies a reference problem that makes a combined
// energy fall back to zero or to its own factor.
type DependencyIssueKind string

const (
	IssueMissingBase              DependencyIssueKind = "missing-base"
	IssueInactiveBase             DependencyIssueKind = "inactive-base"
	IssueBaseProcessedLater       DependencyIssueKind = "base-processed-later"
	IssueMissingEmissionReference DependencyIssueKind = "missing-emission-reference"
)

// DependencyIssue describes one reference problem.
type DependencyIssue struct {
	EnergyCode  string
	ReferenceID uuid.UUID
	Kind        DependencyIssueKind
}

func (d DependencyIssue) String() string {
	return fmt.Sprintf("%s: %s (%s)", d.EnergyCode, d.Kind, d.ReferenceID)
}

// UnorderedCombinedDependencies reports active energies whose references
// cannot be honored by the two-pass evaluation: dangling references, inactive
// bases and combined bases evaluated after their dependent. The engine
// tolerates all of these; callers log them.
func UnorderedCombinedDependencies(energies []catalog.EnergyDefinition) []DependencyIssue {
	index := NewIndex(energies)
	position := make(map[uuid.UUID]int, len(energies))
	for i, e := range energies {
		position[e.ID] = i
	}

	var issues []DependencyIssue
	for i, e := range energies {
		if !e.IsActive {
			continue
		}

		if e.EmissionReferenceEnergyID.Valid {
			if _, ok := index.Lookup(e.EmissionReferenceEnergyID); !ok {
				issues = append(issues, DependencyIssue{
					EnergyCode:  e.Code,
					ReferenceID: e.EmissionReferenceEnergyID.UUID,
					Kind:        IssueMissingEmissionReference,
				})
			}
		}

		if e.Mode != catalog.ModeCombined || !e.BaseEnergyID.Valid {
			continue
		}

		base, ok := index.Lookup(e.BaseEnergyID)
		issue := DependencyIssue{EnergyCode: e.Code, ReferenceID: e.BaseEnergyID.UUID}
		switch {
		case !ok:
			issue.Kind = IssueMissingBase
		case !base.IsActive:
			issue.Kind = IssueInactiveBase
		case base.Mode == catalog.ModeCombined && position[base.ID] >= i:
			issue.Kind = IssueBaseProcessedLater
		default:
			continue
		}
		issues = append(issues, issue)
	}
	return issues
}

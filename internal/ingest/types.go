// GameHoard - Game Library Import and Catalog Reconciliation
// Copyright 2026 GameHoard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamehoard/gamehoard

// Package ingest implements the import reconciliation engine: the
// sequential pass that diffs one Playnite export batch against stored
// state, materializes catalog entities and copies, and soft-removes
// entries absent from the batch.
package ingest

// Outcome classifies the effect of reconciling or projecting one entry.
// Ordering matters: created > updated > unchanged, and an import's
// per-entry outcome is the more significant of the reconciler's and the
// projector's signals.
type Outcome int

const (
	OutcomeUnchanged Outcome = iota
	OutcomeUpdated
	OutcomeCreated
)

// String returns the lowercase outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeUpdated:
		return "updated"
	default:
		return "unchanged"
	}
}

// maxOutcome returns the more significant of two outcomes.
func maxOutcome(a, b Outcome) Outcome {
	if a > b {
		return a
	}
	return b
}

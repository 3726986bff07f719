// Package loader reads the raw jobs CSV, cleans it, reconciles it against the
// job ids already in the warehouse and inserts the new rows.
//
// Run stages:
//
//	START ──► READ_CSV ──► CLEAN ──► FETCH_EXISTING_IDS ──► FILTER ──► INSERT ──► COMMIT ──► DONE
//	                                                           │                             ▲
//	                                                           └─────── nothing new ─────────┘
//
// DONE is terminal. Every run starts again from START.
package loader

import (
	"errors"
	"fmt"
)

// Stage is one step of a loader run.
type Stage string

const (
	StageStart            Stage = "START"
	StageReadCSV          Stage = "READ_CSV"
	StageClean            Stage = "CLEAN"
	StageFetchExistingIDs Stage = "FETCH_EXISTING_IDS"
	StageFilter           Stage = "FILTER"
	StageInsert           Stage = "INSERT"
	StageCommit           Stage = "COMMIT"
	StageDone             Stage = "DONE"
)

// ErrIllegalTransition is returned when a run tries to skip or repeat a stage.
var ErrIllegalTransition = errors.New("illegal loader stage transition")

// validTransitions lists every allowed (from → to) pair.
var validTransitions = map[Stage][]Stage{
	StageStart:            {StageReadCSV},
	StageReadCSV:          {StageClean},
	StageClean:            {StageFetchExistingIDs},
	StageFetchExistingIDs: {StageFilter},
	StageFilter:           {StageInsert, StageDone},
	StageInsert:           {StageCommit},
	StageCommit:           {StageDone},
	// DONE is terminal, no outgoing transitions
}

// IsTransitionAllowed returns true when moving from → to is permitted.
func IsTransitionAllowed(from, to Stage) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether s has no outgoing transitions.
func IsTerminal(s Stage) bool {
	return len(validTransitions[s]) == 0
}

// tracker records the stages a run has passed through.
type tracker struct {
	path []Stage
}

func newTracker() *tracker {
	return &tracker{path: []Stage{StageStart}}
}

func (t *tracker) current() Stage {
	return t.path[len(t.path)-1]
}

func (t *tracker) advance(to Stage) error {
	if from := t.current(); !IsTransitionAllowed(from, to) {
		return fmt.Errorf("%w: %s → %s", ErrIllegalTransition, from, to)
	}
	t.path = append(t.path, to)
	return nil
}

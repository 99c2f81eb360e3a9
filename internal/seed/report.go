package seed

import (
	"fmt"
	"strings"
)

// Stage is one phase of a seeding run.
type Stage string

const (
	StagePracticeAreas Stage = "practice_areas"
	StageLawFirm       Stage = "law_firm"
	StageUsers         Stage = "users"
	StageCases         Stage = "cases"
	StageParticipants  Stage = "case_participants"
	StageMessages      Stage = "messages"
	StageNotes         Stage = "notes"
	StageEvents        Stage = "calendar_events"
)

// StageReport counts item outcomes for one stage.
type StageReport struct {
	Stage    Stage
	Created  int
	Existing int
	Skipped  int
	Removed  int
}

// Report lists stage reports in the order the stages ran.
type Report struct {
	Stages []StageReport
}

// Stage returns the report for s, or a zero report if s never ran.
func (r Report) Stage(s Stage) StageReport {
	for _, sr := range r.Stages {
		if sr.Stage == s {
			return sr
		}
	}
	return StageReport{Stage: s}
}

func (r Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-18s %8s %8s %8s\n", "stage", "created", "existing", "skipped")
	for _, sr := range r.Stages {
		fmt.Fprintf(&b, "%-18s %8d %8d %8d\n", sr.Stage, sr.Created, sr.Existing, sr.Skipped)
	}
	return b.String()
}

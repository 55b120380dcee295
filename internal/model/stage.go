package model

import (
	"encoding/json"
	"math"
	"time"
)

// Stage is one named step in a subtask's fixed work pipeline.
// CompletedBy/CompletedAt are set if and only if Completed is true.
type Stage struct {
	Name        string     `json:"name"`
	Completed   bool       `json:"completed"`
	CompletedBy string     `json:"completed_by,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// UnmarshalJSON also accepts the legacy bare-string shape still present in
// historical rows, normalizing it to an incomplete stage once at ingestion.
func (s *Stage) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*s = Stage{Name: name}
		return nil
	}
	type stageAlias Stage
	var a stageAlias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*s = Stage(a)
	return nil
}

// StagePipeline is the ordered stage list of one subtask. Order is fixed at
// creation. CurrentStageIndex, when present, is authoritative for the current
// stage; otherwise it is derived from the completion flags.
type StagePipeline struct {
	Stages            []Stage `json:"stages"`
	CurrentStageIndex *int    `json:"current_stage_index,omitempty"`
}

// NewStagePipeline builds an all-incomplete pipeline from stage names.
func NewStagePipeline(names []string) StagePipeline {
	stages := make([]Stage, 0, len(names))
	for _, n := range names {
		stages = append(stages, Stage{Name: n})
	}
	return StagePipeline{Stages: stages}
}

// CompleteStage marks stages[index] completed and stamps who and when.
// Stages may be completed out of order; re-completing restamps attribution.
func (p *StagePipeline) CompleteStage(index int, by string, at time.Time) error {
	if index < 0 || index >= len(p.Stages) {
		return ErrInvalidStageIndex
	}
	if by == "" {
		return ErrEmptyEmployeeID
	}
	p.Stages[index].Completed = true
	p.Stages[index].CompletedBy = by
	t := at
	p.Stages[index].CompletedAt = &t
	return nil
}

func (p *StagePipeline) CompletedStageCount() int {
	n := 0
	for _, s := range p.Stages {
		if s.Completed {
			n++
		}
	}
	return n
}

// ProgressPercent returns the rounded completion percentage, 0 for an empty
// pipeline.
func (p *StagePipeline) ProgressPercent() int {
	if len(p.Stages) == 0 {
		return 0
	}
	return int(math.Round(100 * float64(p.CompletedStageCount()) / float64(len(p.Stages))))
}

// CurrentIndex returns the authoritative current stage index when tracked and
// in range, else the first incomplete stage, else the last stage. Returns -1
// for an empty pipeline.
func (p *StagePipeline) CurrentIndex() int {
	if len(p.Stages) == 0 {
		return -1
	}
	if p.CurrentStageIndex != nil {
		if i := *p.CurrentStageIndex; i >= 0 && i < len(p.Stages) {
			return i
		}
	}
	for i, s := range p.Stages {
		if !s.Completed {
			return i
		}
	}
	return len(p.Stages) - 1
}

// CurrentStageName is the single derivation every screen must use.
func (p *StagePipeline) CurrentStageName() string {
	i := p.CurrentIndex()
	if i < 0 {
		return ""
	}
	return p.Stages[i].Name
}

/*
PURPOSE:
  Defines the core data structures shared across mccabe-thiele.
  These models represent process parameters, plot geometry and run results.

REQUIREMENTS:
  User-specified:
  - Record R_min, R, whole/fractional stage counts, feed stage, bottoms reached.
  - Carry every plotted curve, line and step segment for a renderer.
  - Distinguish converged, infeasible and stage-limited runs structurally.

  Implementation-discovered:
  - Need JSON tags for the JSONL writer.
  - Need yaml tags so the config can embed Parameters directly.

ARCHITECTURE INTEGRATION:
  - Used by: internal/engine, internal/output, internal/config, internal/cli
  - Shared across boundaries.

ERROR HANDLING:
  - None (pure data structs).

IMPLEMENTATION RULES:
  - Keep structs simple and public.
  - A Result is built once per run and never mutated afterwards.

RELATED FILES:
  - internal/output/csv.go
  - internal/output/json.go
*/

package model

import (
	"fmt"
	"strings"
)

// Point is a (liquid, vapor) mole-fraction pair.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Segment is one plotted step line, horizontal or vertical.
type Segment [2]Point

// Parameters are the process inputs of one run.
type Parameters struct {
	XD      float64 `json:"xd" yaml:"xd"`             // distillate composition
	XB      float64 `json:"xb" yaml:"xb"`             // bottoms composition
	ZF      float64 `json:"zf" yaml:"zf"`             // feed composition
	Q       float64 `json:"q" yaml:"q"`               // feed quality
	RFactor float64 `json:"r_factor" yaml:"r_factor"` // R / R_min
	NM      float64 `json:"nm" yaml:"nm"`             // Murphree efficiency
	SC      float64 `json:"sc" yaml:"sc"`             // reflux sub-cooling, K
}

// Status tags how a run ended.
type Status string

const (
	StatusConverged          Status = "converged"
	StatusInfeasible         Status = "infeasible"
	StatusStageLimitExceeded Status = "stage_limit_exceeded"
	// StatusError marks a batch or sweep row whose run returned an error.
	StatusError Status = "error"
)

// Plot holds every curve the renderer draws.
type Plot struct {
	IdealCurve     []Point   `json:"ideal_eq_curve"`
	EffectiveCurve []Point   `json:"effective_curve"`
	Line45         []Point   `json:"line_45"`
	QLine          []Point   `json:"q_line"`
	ESOL           []Point   `json:"esol_line"`
	SSOL           []Point   `json:"ssol_line"`
	Steps          []Segment `json:"steps"`
}

// Result represents the outcome of a single McCabe-Thiele run.
type Result struct {
	Name       string     `json:"name,omitempty"`
	Status     Status     `json:"status"`
	Parameters Parameters `json:"parameters"`

	RMin             float64 `json:"r_min"`
	R                float64 `json:"r"`
	RInternal        float64 `json:"r_internal"`
	SubcoolingFactor float64 `json:"subcooling_factor"`

	Stages           int     `json:"stages"`
	FeedStage        int     `json:"feed_stage"`
	FractionalStages float64 `json:"fractional_stages"`
	BottomsActual    float64 `json:"xb_actual"`

	// Azeotropes lists every crossing found on a feasible run, or only the
	// offending ones when Status is StatusInfeasible.
	Azeotropes []float64 `json:"azeotropes"`

	Plot  *Plot  `json:"plot,omitempty"`
	Error string `json:"error,omitempty"`
}

// AzeotropeList formats the azeotropes as "0.567, 0.812".
func (r Result) AzeotropeList() string {
	parts := make([]string, len(r.Azeotropes))
	for i, x := range r.Azeotropes {
		parts[i] = fmt.Sprintf("%.3f", x)
	}
	return strings.Join(parts, ", ")
}

package engine

import (
	"github.com/daryltucker/mccabe-thiele/internal/model"
	"github.com/daryltucker/mccabe-thiele/internal/vle"
)

// MaxStages bounds the stepping loop.
const MaxStages = 200

// Steps is the outcome of stepping off stages.
type Steps struct {
	Status model.Status
	// Stages counts every stage stepped, the partial last one included.
	Stages int
	// FeedStage is the 1-based stage where stepping first used the stripping line.
	FeedStage int
	// Fractional replaces the partial last stage by the fraction of it needed
	// to reach xb exactly; it lies in (Stages-1, Stages].
	Fractional float64
	// BottomsActual is the liquid composition entering the last stage.
	BottomsActual float64
	Segments      []model.Segment
}

// StepStages walks from (xd, xd) down the effective curve, alternating a
// horizontal move to the curve with a vertical move to the operating line,
// until the liquid composition reaches or drops below xb or MaxStages is
// reached. Landing exactly on xb completes a whole stage.
func StepStages(effective []model.Point, ol OperatingLines, xd, xb float64) Steps {
	out := Steps{Status: model.StatusStageLimitExceeded}

	x, y := xd, xd
	for stage := 1; stage <= MaxStages; stage++ {
		nextX := vle.XForY(effective, y)

		var nextY float64
		if nextX > ol.Feed.X {
			nextY = ol.Rectifying.Y(nextX)
		} else {
			nextY = ol.Stripping.Y(nextX)
			if out.FeedStage == 0 {
				out.FeedStage = stage
			}
		}

		out.Segments = append(out.Segments,
			model.Segment{{X: x, Y: y}, {X: nextX, Y: y}},
			model.Segment{{X: nextX, Y: y}, {X: nextX, Y: nextY}},
		)
		out.Stages = stage

		if nextX <= xb {
			out.Status = model.StatusConverged
			out.Fractional = float64(stage-1) + (x-xb)/(x-nextX)
			break
		}
		x, y = nextX, nextY
	}

	out.BottomsActual = x
	if out.FeedStage == 0 {
		out.FeedStage = 1
	}
	return out
}

package difficulty

import (
	"math"

	"ai-interview-be/internal/entity"
)

const (
	WarmupProgress   = 0.3
	PerformingWell   = 8.0
	StrugglingAnswer = 5.0
)

// Next picks the difficulty for the following question. The opening stretch
// of an interview is pinned to medium regardless of score.
func Next(current entity.Difficulty, rollingAverage, progress float64) entity.Difficulty {
	if Clamp(progress) < WarmupProgress {
		return entity.DifficultyMedium
	}

	switch {
	case rollingAverage >= PerformingWell:
		return current.StepUp()
	case rollingAverage <= StrugglingAnswer:
		return current.StepDown()
	default:
		if !current.IsValid() {
			return entity.DifficultyMedium
		}
		return current
	}
}

// Progress is questions asked over the planned total, clamped to [0,1].
func Progress(asked, planned int) float64 {
	if planned <= 0 {
		return 1
	}
	return Clamp(float64(asked) / float64(planned))
}

func Clamp(fraction float64) float64 {
	switch {
	case fraction < 0 || math.IsNaN(fraction):
		return 0
	case fraction > 1:
		return 1
	default:
		return fraction
	}
}

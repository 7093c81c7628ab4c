package difficulty

import (
	"math"
	"testing"

	"ai-interview-be/internal/entity"

	"github.com/stretchr/testify/assert"
)

var levels = []entity.Difficulty{entity.DifficultyEasy, entity.DifficultyMedium, entity.DifficultyHard}

func TestNext_OpeningIsAlwaysMedium(t *testing.T) {
	for _, current := range levels {
		for _, score := range []float64{0, 2.5, 5, 6.5, 8, 10} {
			for _, progress := range []float64{-0.5, 0, 0.1, 0.29} {
				assert.Equal(t, entity.DifficultyMedium, Next(current, score, progress),
					"current=%s score=%.1f progress=%.2f", current, score, progress)
			}
		}
	}
}

func TestNext_Monotonicity(t *testing.T) {
	progresses := []float64{0.3, 0.5, 0.99, 1, 1.7}

	for _, current := range levels {
		for _, progress := range progresses {
			for _, score := range []float64{8, 8.5, 10} {
				got := Next(current, score, progress)
				assert.GreaterOrEqual(t, got.Rank(), current.Rank(), "score %.1f lowered %s", score, current)
			}
			for _, score := range []float64{0, 3, 5} {
				got := Next(current, score, progress)
				assert.LessOrEqual(t, got.Rank(), current.Rank(), "score %.1f raised %s", score, current)
			}
			for _, score := range []float64{5.01, 6.5, 7.99} {
				assert.Equal(t, current, Next(current, score, progress))
			}
		}
	}
}

func TestNext_Table(t *testing.T) {
	tests := []struct {
		name     string
		current  entity.Difficulty
		score    float64
		progress float64
		expected entity.Difficulty
	}{
		{"CeilingClamp", entity.DifficultyHard, 9.0, 0.5, entity.DifficultyHard},
		{"FloorClamp", entity.DifficultyEasy, 2.0, 0.5, entity.DifficultyEasy},
		{"StepUpAtBoundary", entity.DifficultyMedium, 8.0, 0.3, entity.DifficultyHard},
		{"StepDownAtBoundary", entity.DifficultyMedium, 5.0, 0.3, entity.DifficultyEasy},
		{"EasyToMedium", entity.DifficultyEasy, 9.5, 0.8, entity.DifficultyMedium},
		{"HardToMedium", entity.DifficultyHard, 4.0, 0.8, entity.DifficultyMedium},
		{"Unchanged", entity.DifficultyEasy, 7.0, 0.6, entity.DifficultyEasy},
		{"UnknownCurrentHoldsMedium", entity.Difficulty(""), 6.0, 0.6, entity.DifficultyMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Next(tt.current, tt.score, tt.progress))
		})
	}
}

func TestNext_StrongCandidateProgression(t *testing.T) {
	current := Next(entity.DifficultyEasy, 0, 0)
	progression := []entity.Difficulty{current}

	scores := []float64{9.0, 8.5, 9.2}
	sum := 0.0
	for i, score := range scores {
		sum += score
		current = Next(current, sum/float64(i+1), 0.5)
		progression = append(progression, current)
	}

	assert.Equal(t, []entity.Difficulty{
		entity.DifficultyMedium, entity.DifficultyHard, entity.DifficultyHard, entity.DifficultyHard,
	}, progression)
}

func TestProgress(t *testing.T) {
	tests := []struct {
		name     string
		asked    int
		planned  int
		expected float64
	}{
		{"Start", 0, 10, 0},
		{"Half", 5, 10, 0.5},
		{"Overflow", 12, 10, 1},
		{"NoPlan", 0, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Progress(tt.asked, tt.planned))
		})
	}
}

func TestClamp_NonFinite(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(math.NaN()))
	assert.Equal(t, 1.0, Clamp(math.Inf(1)))
	assert.Equal(t, 0.0, Clamp(math.Inf(-1)))
}

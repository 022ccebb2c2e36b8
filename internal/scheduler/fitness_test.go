package scheduler

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFitnessSumsRatingPerSlot(t *testing.T) {
	table := RatingTable{"A": {1.0, 2.0}}

	assert.InDelta(t, 3.0, Fitness(Schedule{"A", "A"}, table), 1e-9)
}

func TestFitnessMissingRatings(t *testing.T) {
	table := RatingTable{
		"A": {1.0, 2.0},
		"B": {4.0},
	}

	// 不在表中的节目贡献为 0
	assert.Equal(t, 0.0, Fitness(Schedule{"X", "Y"}, table))
	assert.InDelta(t, 1.0, Fitness(Schedule{"A", "X"}, table), 1e-9)

	// B 在第 1 个时段没有收视率
	assert.InDelta(t, 4.0, Fitness(Schedule{"B", "B"}, table), 1e-9)
	assert.InDelta(t, 6.0, Fitness(Schedule{"B", "A"}, table), 1e-9)
}

func TestFitnessEmptySchedule(t *testing.T) {
	assert.Equal(t, 0.0, Fitness(nil, RatingTable{"A": {1}}))
	assert.Equal(t, 0.0, Fitness(Schedule{"A"}, nil))
}

func TestFitnessWithinBounds(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	programs := []string{"news", "drama", "sports", "kids", "movie"}
	slots := 12

	table := RatingTable{}
	for _, p := range programs {
		// 部分节目的收视率长度不足
		ratings := make([]float64, rng.IntN(slots+1))
		for i := range ratings {
			ratings[i] = rng.Float64() * 10
		}
		table[p] = ratings
	}

	bound := UpperBound(table, slots)
	for i := 0; i < 200; i++ {
		schedule := make(Schedule, slots)
		for j := range schedule {
			schedule[j] = programs[rng.IntN(len(programs))]
		}

		f := Fitness(schedule, table)
		assert.GreaterOrEqual(t, f, 0.0)
		assert.LessOrEqual(t, f, bound+1e-9)
	}
}

func TestUpperBound(t *testing.T) {
	table := RatingTable{
		"A": {10, 1},
		"B": {1, 10},
	}

	assert.InDelta(t, 20.0, UpperBound(table, 2), 1e-9)
	assert.InDelta(t, 10.0, UpperBound(table, 1), 1e-9)
	assert.InDelta(t, 20.0, UpperBound(table, 3), 1e-9)
}

package scheduler

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParametersValidate(t *testing.T) {
	valid := DefaultParameters()
	assert.NoError(t, valid.Validate())

	for name, mutate := range map[string]func(p *Parameters){
		"zero population":       func(p *Parameters) { p.PopulationSize = 0 },
		"negative generations":  func(p *Parameters) { p.MaxGenerations = -1 },
		"negative elite":        func(p *Parameters) { p.EliteCount = -1 },
		"crossover above one":   func(p *Parameters) { p.CrossoverRate = 1.01 },
		"crossover below zero":  func(p *Parameters) { p.CrossoverRate = -0.1 },
		"crossover NaN":         func(p *Parameters) { p.CrossoverRate = math.NaN() },
		"mutation above one":    func(p *Parameters) { p.MutationRate = 2 },
		"unknown selection":     func(p *Parameters) { p.Selection = "random-walk" },
		"empty tournament":      func(p *Parameters) { p.Selection = SelectionTournament; p.TournamentSize = 0 },
		"negative worker count": func(p *Parameters) { p.Workers = -2 },
	} {
		t.Run(name, func(t *testing.T) {
			p := DefaultParameters()
			mutate(p)
			assert.ErrorIs(t, p.Validate(), ErrInvalidParameters)
		})
	}
}

func TestParametersValidateBoundaries(t *testing.T) {
	for _, p := range []*Parameters{
		{PopulationSize: 1},
		{PopulationSize: 3, EliteCount: 10, CrossoverRate: 1, MutationRate: 1},
		{PopulationSize: 3, CrossoverRate: 0, MutationRate: 0, Selection: SelectionRoulette},
	} {
		assert.NoError(t, p.Validate())
	}
}

func TestScheduleCloneDoesNotAlias(t *testing.T) {
	original := Schedule{"A", "B"}
	c := original.Clone()
	c[0] = "C"

	assert.Equal(t, Schedule{"A", "B"}, original)
}

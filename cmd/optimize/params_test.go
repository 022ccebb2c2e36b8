package main

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/tv-scheduler/backend/internal/scheduler"
)

func defaultOptions() options {
	d := scheduler.DefaultParameters()
	return options{
		generations:    int(d.MaxGenerations),
		populationSize: int(d.PopulationSize),
		eliteCount:     int(d.EliteCount),
		crossoverRate:  d.CrossoverRate,
		mutationRate:   d.MutationRate,
		selection:      string(d.Selection),
		tournamentSize: int(d.TournamentSize),
		seed:           10,
		workers:        d.Workers,
		trials:         3,
	}
}

func TestTrialParameters(t *testing.T) {
	opts := defaultOptions()

	parameters, err := opts.trialParameters()
	require.NoError(t, err)
	require.Len(t, parameters, 3)

	for i, p := range parameters {
		assert.Equal(t, uint64(10+i), p.Seed)
		assert.Equal(t, int32(50), p.PopulationSize)
		assert.Equal(t, int32(100), p.MaxGenerations)
	}
}

func TestTrialParametersRejectsOverflow(t *testing.T) {
	// 2^32 + 5 转换为 int32 后会变成 5，必须在转换前拒绝
	wrapped := math.MaxUint32 + 6

	for name, mutate := range map[string]func(o *options){
		"population":  func(o *options) { o.populationSize = wrapped },
		"generations": func(o *options) { o.generations = wrapped },
		"elite":       func(o *options) { o.eliteCount = wrapped },
		"tournament":  func(o *options) { o.tournamentSize = wrapped },
		"negative":    func(o *options) { o.generations = math.MinInt32 - 1 },
	} {
		t.Run(name, func(t *testing.T) {
			opts := defaultOptions()
			mutate(&opts)

			_, err := opts.trialParameters()
			assert.ErrorIs(t, err, scheduler.ErrInvalidParameters)
		})
	}
}

func TestTrialParametersRejectsInvalid(t *testing.T) {
	opts := defaultOptions()
	opts.trials = 0
	_, err := opts.trialParameters()
	assert.Error(t, err)

	opts = defaultOptions()
	opts.mutationRate = 2
	_, err = opts.trialParameters()
	assert.ErrorIs(t, err, scheduler.ErrInvalidParameters)
}

package main

import (
	"fmt"
	"math"

	"github.com/sysu-ecnc-dev/tv-scheduler/backend/internal/scheduler"
)

// options 对应命令行参数
type options struct {
	generations    int
	populationSize int
	eliteCount     int
	crossoverRate  float64
	mutationRate   float64
	selection      string
	tournamentSize int
	seed           uint64
	workers        int
	trials         int
}

// toInt32 拒绝超出 int32 范围的值，避免转换时回绕成一个看似合法的数
func toInt32(name string, v int) (int32, error) {
	if v > math.MaxInt32 || v < math.MinInt32 {
		return 0, fmt.Errorf("%w: -%s 超出范围（当前为 %d）", scheduler.ErrInvalidParameters, name, v)
	}
	return int32(v), nil
}

// trialParameters 为每次运行生成参数，种子从 -seed 开始依次加一
func (o *options) trialParameters() ([]*scheduler.Parameters, error) {
	if o.trials < 1 {
		return nil, fmt.Errorf("运行次数必须大于 0（当前为 %d）", o.trials)
	}

	generations, err := toInt32("generations", o.generations)
	if err != nil {
		return nil, err
	}
	populationSize, err := toInt32("population", o.populationSize)
	if err != nil {
		return nil, err
	}
	eliteCount, err := toInt32("elite", o.eliteCount)
	if err != nil {
		return nil, err
	}
	tournamentSize, err := toInt32("tournament", o.tournamentSize)
	if err != nil {
		return nil, err
	}

	parameters := make([]*scheduler.Parameters, o.trials)
	for i := range parameters {
		parameters[i] = &scheduler.Parameters{
			PopulationSize: populationSize,
			MaxGenerations: generations,
			CrossoverRate:  o.crossoverRate,
			MutationRate:   o.mutationRate,
			EliteCount:     eliteCount,
			Selection:      scheduler.SelectionStrategy(o.selection),
			TournamentSize: tournamentSize,
			Seed:           o.seed + uint64(i),
			Workers:        o.workers,
		}
	}

	if err := parameters[0].Validate(); err != nil {
		return nil, err
	}

	return parameters, nil
}

package scheduler

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidParameters = errors.New("遗传算法参数不合法")
	ErrDegenerateInput   = errors.New("节目或时段为空，无法排班")
)

// Schedule: 一张节目表，下标为时段下标，值为节目名
type Schedule []string

func (s Schedule) Clone() Schedule {
	c := make(Schedule, len(s))
	copy(c, s)
	return c
}

// RatingTable: 节目 -> 各时段的收视率
type RatingTable map[string][]float64

// Chromosome: 种群中的一个个体
type Chromosome struct {
	genes   Schedule
	fitness float64
}

func (ch *Chromosome) clone() *Chromosome {
	return &Chromosome{
		genes:   ch.genes.Clone(),
		fitness: ch.fitness,
	}
}

type SelectionStrategy string

const (
	SelectionUniform    SelectionStrategy = "uniform"    // 均匀随机选择
	SelectionRoulette   SelectionStrategy = "roulette"   // 轮盘赌
	SelectionTournament SelectionStrategy = "tournament" // 锦标赛
)

// 遗传算法参数
type Parameters struct {
	PopulationSize int32             // 种群大小
	MaxGenerations int32             // 迭代次数
	CrossoverRate  float64           // 交叉概率
	MutationRate   float64           // 变异概率
	EliteCount     int32             // 精英数量，大于等于种群大小时种群保持不变
	Selection      SelectionStrategy // 父本选择策略，为空时使用均匀随机选择
	TournamentSize int32             // 锦标赛规模，仅在锦标赛选择时使用
	Seed           uint64            // 随机数种子
	Workers        int               // 并行计算适应度的协程数，小于等于 1 时串行计算
}

func DefaultParameters() *Parameters {
	return &Parameters{
		PopulationSize: 50,
		MaxGenerations: 100,
		CrossoverRate:  0.8,
		MutationRate:   0.02,
		EliteCount:     2,
		Selection:      SelectionUniform,
		TournamentSize: 3,
		Workers:        1,
	}
}

func (p *Parameters) Validate() error {
	if p.PopulationSize < 1 {
		return fmt.Errorf("%w: 种群大小必须大于 0（当前为 %d）", ErrInvalidParameters, p.PopulationSize)
	}
	if p.MaxGenerations < 0 {
		return fmt.Errorf("%w: 迭代次数不能为负数（当前为 %d）", ErrInvalidParameters, p.MaxGenerations)
	}
	if p.EliteCount < 0 {
		return fmt.Errorf("%w: 精英数量不能为负数（当前为 %d）", ErrInvalidParameters, p.EliteCount)
	}
	// 注意 NaN 与任何数比较都为 false，所以这里用取反的写法
	if !(p.CrossoverRate >= 0 && p.CrossoverRate <= 1) {
		return fmt.Errorf("%w: 交叉概率必须在 [0, 1] 之间（当前为 %v）", ErrInvalidParameters, p.CrossoverRate)
	}
	if !(p.MutationRate >= 0 && p.MutationRate <= 1) {
		return fmt.Errorf("%w: 变异概率必须在 [0, 1] 之间（当前为 %v）", ErrInvalidParameters, p.MutationRate)
	}

	switch p.Selection {
	case "", SelectionUniform, SelectionRoulette:
	case SelectionTournament:
		if p.TournamentSize < 1 {
			return fmt.Errorf("%w: 锦标赛规模必须大于 0（当前为 %d）", ErrInvalidParameters, p.TournamentSize)
		}
	default:
		return fmt.Errorf("%w: 不支持的选择策略 %q", ErrInvalidParameters, p.Selection)
	}

	if p.Workers < 0 {
		return fmt.Errorf("%w: 协程数不能为负数（当前为 %d）", ErrInvalidParameters, p.Workers)
	}

	return nil
}

package scheduler

import (
	"context"
	"slices"

	"golang.org/x/sync/errgroup"
)

// randomInitChromosome 随机初始化一个染色体，每个时段独立地从所有节目中有放回地抽取
func (s *Scheduler) randomInitChromosome() *Chromosome {
	genes := make(Schedule, s.slots)
	for i := range genes {
		genes[i] = s.programs[s.rng.IntN(len(s.programs))]
	}

	return &Chromosome{
		genes: genes,
	}
}

func (s *Scheduler) calcFitness(ch *Chromosome) {
	ch.fitness = Fitness(ch.genes, s.table)
}

// evaluate 计算整个种群的适应度。
// 适应度计算不涉及随机数，且每个协程只写自己下标的染色体，所以并行与否结果都一样
func (s *Scheduler) evaluate(ctx context.Context, pop []*Chromosome) {
	if s.parameters.Workers <= 1 || len(pop) < 2 {
		for _, ch := range pop {
			s.calcFitness(ch)
		}
		return
	}

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(s.parameters.Workers)
	for _, ch := range pop {
		g.Go(func() error {
			s.calcFitness(ch)
			return nil
		})
	}
	_ = g.Wait()
}

// rank 按适应度从高到低排序，适应度相同时保持原有顺序
func rank(pop []*Chromosome) {
	slices.SortStableFunc(pop, func(a, b *Chromosome) int {
		switch {
		case a.fitness > b.fitness:
			return -1
		case a.fitness < b.fitness:
			return 1
		default:
			return 0
		}
	})
}

func (s *Scheduler) selectParent(pop []*Chromosome) *Chromosome {
	switch s.parameters.Selection {
	case SelectionRoulette:
		return s.selectByRoulette(pop)
	case SelectionTournament:
		return s.selectByTournament(pop)
	default:
		return pop[s.rng.IntN(len(pop))]
	}
}

// 使用轮盘赌来进行选择
func (s *Scheduler) selectByRoulette(pop []*Chromosome) *Chromosome {
	sumFit := 0.0
	for _, ch := range pop {
		sumFit += ch.fitness
	}

	// 所有个体适应度都为 0 时退化为均匀随机选择
	if sumFit <= 0 {
		return pop[s.rng.IntN(len(pop))]
	}

	pick := s.rng.Float64() * sumFit
	partial := 0.0

	for _, ch := range pop {
		partial += ch.fitness
		if partial >= pick {
			return ch
		}
	}

	// 浮点误差时才会运行到这里
	return pop[len(pop)-1]
}

// 锦标赛选择，规模大于种群时按种群大小计算
func (s *Scheduler) selectByTournament(pop []*Chromosome) *Chromosome {
	k := min(int(s.parameters.TournamentSize), len(pop))

	best := pop[s.rng.IntN(len(pop))]
	for i := 1; i < k; i++ {
		candidate := pop[s.rng.IntN(len(pop))]
		if candidate.fitness > best.fitness {
			best = candidate
		}
	}
	return best
}

// 单点交叉，返回两个新的子代，不会修改父本。
// 切点在 [1, len-2] 中均匀选取，长度小于 3 时没有合法切点，子代直接复制父本
func (s *Scheduler) singlePointCrossover(p1, p2 Schedule) (Schedule, Schedule) {
	length := len(p1)
	if length < 3 || len(p2) != length {
		return p1.Clone(), p2.Clone()
	}

	cut := 1 + s.rng.IntN(length-2)

	c1 := make(Schedule, length)
	c2 := make(Schedule, length)
	copy(c1[:cut], p1[:cut])
	copy(c1[cut:], p2[cut:])
	copy(c2[:cut], p2[:cut])
	copy(c2[cut:], p1[cut:])

	return c1, c2
}

// 变异：随机选择一个时段，换成随机的一个节目（可能和原来的相同）
func (s *Scheduler) mutate(genes Schedule) {
	if len(genes) == 0 {
		return
	}
	genes[s.rng.IntN(len(genes))] = s.programs[s.rng.IntN(len(s.programs))]
}

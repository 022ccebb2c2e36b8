package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/sysu-ecnc-dev/tv-scheduler/backend/internal/domain"
)

// Scheduler 在 New 中复制参数和收视率，之后调用方对它们的修改不会影响运行。
// 同一个 Scheduler 不能并发调用 Schedule
type Scheduler struct {
	parameters Parameters
	datasetID  int64
	labels     []string
	programs   []string // 按数据集中的顺序排列，保证同一个种子下的结果可复现
	slots      int
	table      RatingTable
	rng        *rand.Rand
	onGen      func(generation int, bestFitness float64)
	onDone     func(res *domain.ScheduleResult, elapsed time.Duration, err error)
}

type Option func(*Scheduler)

// WithGenerationHook 在每一代排序完成后调用 fn，第 0 代为初始种群
func WithGenerationHook(fn func(generation int, bestFitness float64)) Option {
	return func(s *Scheduler) {
		s.onGen = fn
	}
}

// WithRunHook 在每次 Schedule 返回前调用 fn，elapsed 为本次运行的耗时
func WithRunHook(fn func(res *domain.ScheduleResult, elapsed time.Duration, err error)) Option {
	return func(s *Scheduler) {
		s.onDone = fn
	}
}

func New(parameters *Parameters, dataset *domain.RatingDataset, opts ...Option) (*Scheduler, error) {
	if parameters == nil {
		return nil, fmt.Errorf("%w: 参数为空", ErrInvalidParameters)
	}
	if err := parameters.Validate(); err != nil {
		return nil, err
	}

	if dataset == nil || len(dataset.Programs) == 0 || len(dataset.SlotLabels) == 0 {
		return nil, ErrDegenerateInput
	}

	s := &Scheduler{
		parameters: *parameters,
		datasetID:  dataset.ID,
		labels:     slices.Clone(dataset.SlotLabels),
		programs:   make([]string, 0, len(dataset.Programs)),
		slots:      len(dataset.SlotLabels),
		table:      make(RatingTable, len(dataset.Programs)),
	}
	s.resetRNG()

	for _, program := range dataset.Programs {
		if _, exists := s.table[program.Name]; exists {
			return nil, fmt.Errorf("节目 %q 在数据集中重复出现", program.Name)
		}
		s.programs = append(s.programs, program.Name)
		s.table[program.Name] = slices.Clone(program.Ratings)
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// resetRNG 按种子重新创建随机数生成器，使每次 Schedule 都从相同的状态开始
func (s *Scheduler) resetRNG() {
	s.rng = rand.New(rand.NewPCG(s.parameters.Seed, s.parameters.Seed^0x9e3779b97f4a7c15))
}

// Schedule 运行遗传算法并返回最优的节目表。
// ctx 在每一代开始前检查，被取消时返回当前完整种群中的最优个体以及 ctx 的错误
func (s *Scheduler) Schedule(ctx context.Context) (res *domain.ScheduleResult, err error) {
	if s.onDone != nil {
		start := time.Now()
		defer func() {
			s.onDone(res, time.Since(start), err)
		}()
	}

	s.resetRNG()

	populationSize := int(s.parameters.PopulationSize)
	eliteCount := min(int(s.parameters.EliteCount), populationSize)

	// 生成初始种群
	pop := make([]*Chromosome, populationSize)
	for i := range pop {
		pop[i] = s.randomInitChromosome()
	}
	s.evaluate(ctx, pop)

	history := make([]float64, 0, s.parameters.MaxGenerations+1)

	gen := 0
	for ; gen < int(s.parameters.MaxGenerations); gen++ {
		rank(pop)
		history = append(history, pop[0].fitness)

		if ctxErr := ctx.Err(); ctxErr != nil {
			return s.result(pop[0], gen, history), ctxErr
		}

		slog.Debug("开始新一代进化", "generation", gen, "bestFitness", pop[0].fitness)
		if s.onGen != nil {
			s.onGen(gen, pop[0].fitness)
		}

		// 繁殖
		newPop := make([]*Chromosome, 0, populationSize+1)

		// 保留精英，需要深拷贝，防止后续操作修改到上一代的个体
		for i := 0; i < eliteCount; i++ {
			newPop = append(newPop, pop[i].clone())
		}

		for len(newPop) < populationSize {
			// 有放回地选择两个父本
			p1 := s.selectParent(pop)
			p2 := s.selectParent(pop)

			var c1, c2 Schedule
			if s.rng.Float64() < s.parameters.CrossoverRate {
				c1, c2 = s.singlePointCrossover(p1.genes, p2.genes)
			} else {
				c1, c2 = p1.genes.Clone(), p2.genes.Clone()
			}

			if s.rng.Float64() < s.parameters.MutationRate {
				s.mutate(c1)
			}
			if s.rng.Float64() < s.parameters.MutationRate {
				s.mutate(c2)
			}

			newPop = append(newPop, &Chromosome{genes: c1}, &Chromosome{genes: c2})
		}

		// 种群大小减去精英数量为奇数时最后会多出一个
		newPop = newPop[:populationSize]
		s.evaluate(ctx, newPop)
		pop = newPop
	}

	// 最后一代繁殖后种群是无序的，必须重新排序
	rank(pop)
	history = append(history, pop[0].fitness)
	if s.onGen != nil {
		s.onGen(gen, pop[0].fitness)
	}

	return s.result(pop[0], gen, history), nil
}

func (s *Scheduler) result(best *Chromosome, generations int, history []float64) *domain.ScheduleResult {
	res := &domain.ScheduleResult{
		DatasetID:          s.datasetID,
		Seed:               s.parameters.Seed,
		Programs:           best.genes.Clone(),
		Slots:              make([]domain.ScheduleResultSlot, len(best.genes)),
		TotalRating:        best.fitness,
		Generations:        int32(generations),
		BestFitnessHistory: history,
	}

	for i, program := range best.genes {
		rating := 0.0
		if ratings := s.table[program]; i < len(ratings) {
			rating = ratings[i]
		}
		res.Slots[i] = domain.ScheduleResultSlot{
			Slot:    i,
			Label:   s.labels[i],
			Program: program,
			Rating:  rating,
		}
	}

	return res
}

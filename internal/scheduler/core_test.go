package scheduler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/tv-scheduler/backend/internal/domain"
)

func newDataset(slots int, programs ...domain.ProgramRating) *domain.RatingDataset {
	labels := make([]string, slots)
	for i := range labels {
		labels[i] = string(rune('a' + i))
	}
	return &domain.RatingDataset{
		ID:         1,
		Name:       "test",
		SlotLabels: labels,
		Programs:   programs,
	}
}

func program(name string, ratings ...float64) domain.ProgramRating {
	return domain.ProgramRating{Name: name, Slug: name, Ratings: ratings}
}

func newTestScheduler(t *testing.T, parameters *Parameters, dataset *domain.RatingDataset) *Scheduler {
	t.Helper()
	s, err := New(parameters, dataset)
	require.NoError(t, err)
	return s
}

func TestCrossoverPreservesLength(t *testing.T) {
	ds := newDataset(6, program("A"), program("B"))
	s := newTestScheduler(t, DefaultParameters(), ds)

	p1 := Schedule{"A", "A", "A", "A", "A", "A"}
	p2 := Schedule{"B", "B", "B", "B", "B", "B"}

	for i := 0; i < 100; i++ {
		c1, c2 := s.singlePointCrossover(p1, p2)
		require.Len(t, c1, len(p1))
		require.Len(t, c2, len(p2))

		// 切点在 [1, len-2] 之间：子代 1 以 A 开头、以 B 结尾
		assert.Equal(t, "A", c1[0])
		assert.Equal(t, "B", c1[len(c1)-1])
		assert.Equal(t, "B", c2[0])
		assert.Equal(t, "A", c2[len(c2)-1])

		// 父本不应被修改
		assert.Equal(t, Schedule{"A", "A", "A", "A", "A", "A"}, p1)
		assert.Equal(t, Schedule{"B", "B", "B", "B", "B", "B"}, p2)
	}
}

func TestCrossoverShortSchedules(t *testing.T) {
	ds := newDataset(2, program("A"), program("B"))
	s := newTestScheduler(t, DefaultParameters(), ds)

	for _, tc := range []struct {
		p1, p2 Schedule
	}{
		{Schedule{}, Schedule{}},
		{Schedule{"A"}, Schedule{"B"}},
		{Schedule{"A", "B"}, Schedule{"B", "A"}},
	} {
		c1, c2 := s.singlePointCrossover(tc.p1, tc.p2)
		assert.Equal(t, tc.p1, c1)
		assert.Equal(t, tc.p2, c2)

		// 复制出来的子代与父本不共享底层数组
		if len(c1) > 0 {
			c1[0] = "Z"
			assert.NotEqual(t, "Z", tc.p1[0])
		}
	}
}

func TestMutationChangesAtMostOneSlot(t *testing.T) {
	ds := newDataset(8, program("A"), program("B"), program("C"))
	s := newTestScheduler(t, DefaultParameters(), ds)

	original := Schedule{"A", "A", "A", "A", "A", "A", "A", "A"}
	for i := 0; i < 200; i++ {
		genes := original.Clone()
		s.mutate(genes)

		changed := 0
		for j := range genes {
			if genes[j] != original[j] {
				changed++
			}
		}
		assert.LessOrEqual(t, changed, 1)
	}
}

func TestMutationSingleProgramIsNoop(t *testing.T) {
	ds := newDataset(3, program("A", 1, 2, 3))
	s := newTestScheduler(t, DefaultParameters(), ds)

	genes := Schedule{"A", "A", "A"}
	s.mutate(genes)
	assert.Equal(t, Schedule{"A", "A", "A"}, genes)
}

func TestRandomInitChromosomeUsesKnownPrograms(t *testing.T) {
	ds := newDataset(5, program("A"), program("B"), program("C"))
	s := newTestScheduler(t, DefaultParameters(), ds)

	for i := 0; i < 50; i++ {
		ch := s.randomInitChromosome()
		require.Len(t, ch.genes, 5)
		for _, g := range ch.genes {
			assert.Contains(t, []string{"A", "B", "C"}, g)
		}
	}
}

func TestRankIsStable(t *testing.T) {
	pop := []*Chromosome{
		{genes: Schedule{"first"}, fitness: 1},
		{genes: Schedule{"best"}, fitness: 5},
		{genes: Schedule{"second"}, fitness: 1},
		{genes: Schedule{"third"}, fitness: 1},
	}

	rank(pop)

	got := make([]string, len(pop))
	for i, ch := range pop {
		got[i] = ch.genes[0]
	}
	assert.Equal(t, []string{"best", "first", "second", "third"}, got)
}

func TestSelectionStrategies(t *testing.T) {
	ds := newDataset(1, program("A", 1), program("B", 100))

	pop := []*Chromosome{
		{genes: Schedule{"A"}, fitness: 1},
		{genes: Schedule{"B"}, fitness: 100},
	}

	for _, strategy := range []SelectionStrategy{SelectionUniform, SelectionRoulette, SelectionTournament} {
		t.Run(string(strategy), func(t *testing.T) {
			parameters := DefaultParameters()
			parameters.Selection = strategy
			parameters.TournamentSize = 4
			s := newTestScheduler(t, parameters, ds)

			picks := map[string]int{}
			for i := 0; i < 1000; i++ {
				picks[s.selectParent(pop).genes[0]]++
			}

			if strategy == SelectionUniform {
				// 均匀选择与适应度无关
				assert.InDelta(t, 500, picks["B"], 100)
			} else {
				// 按适应度选择时高适应度个体占多数（规模为 2 的锦标赛期望为 75%）
				assert.Greater(t, picks["B"], 650)
			}
		})
	}
}

func TestRouletteWithZeroFitness(t *testing.T) {
	ds := newDataset(1, program("A"), program("B"))
	parameters := DefaultParameters()
	parameters.Selection = SelectionRoulette
	s := newTestScheduler(t, parameters, ds)

	pop := []*Chromosome{
		{genes: Schedule{"A"}},
		{genes: Schedule{"B"}},
	}
	for i := 0; i < 20; i++ {
		assert.NotNil(t, s.selectParent(pop))
	}
}

func TestEvaluateParallelMatchesSequential(t *testing.T) {
	ds := newDataset(4,
		program("A", 1, 2, 3, 4),
		program("B", 4, 3, 2, 1),
		program("C", 2, 2, 2),
	)

	sequential := newTestScheduler(t, DefaultParameters(), ds)
	parallel := DefaultParameters()
	parallel.Workers = 4
	concurrent := newTestScheduler(t, parallel, ds)

	pop1 := make([]*Chromosome, 64)
	pop2 := make([]*Chromosome, 64)
	for i := range pop1 {
		pop1[i] = sequential.randomInitChromosome()
		pop2[i] = pop1[i].clone()
	}

	sequential.evaluate(context.Background(), pop1)
	concurrent.evaluate(context.Background(), pop2)

	for i := range pop1 {
		assert.Equal(t, pop1[i].fitness, pop2[i].fitness)
	}
}

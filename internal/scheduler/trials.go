package scheduler

import (
	"context"

	"github.com/sysu-ecnc-dev/tv-scheduler/backend/internal/domain"
	"golang.org/x/sync/errgroup"
)

// RunTrials 用多组参数独立地运行遗传算法，每组参数拥有自己的种群和随机数，
// 结果按参数的顺序返回。任意一组出错时返回第一个错误
func RunTrials(ctx context.Context, dataset *domain.RatingDataset, trials []*Parameters, workers int, opts ...Option) ([]*domain.ScheduleResult, error) {
	// 先全部构建好，参数不合法时不必启动任何一组
	schedulers := make([]*Scheduler, len(trials))
	for i, parameters := range trials {
		s, err := New(parameters, dataset, opts...)
		if err != nil {
			return nil, err
		}
		schedulers[i] = s
	}

	results := make([]*domain.ScheduleResult, len(trials))

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, s := range schedulers {
		g.Go(func() error {
			res, err := s.Schedule(ctx)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sysu-ecnc-dev/tv-scheduler/backend/internal/domain"
	"github.com/sysu-ecnc-dev/tv-scheduler/backend/internal/ratings"
	"github.com/sysu-ecnc-dev/tv-scheduler/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/tv-scheduler/backend/internal/seed"
)

func main() {
	defaults := scheduler.DefaultParameters()

	var (
		file    string
		opts    options
		timeout time.Duration
		verbose bool
	)

	flag.StringVar(&file, "file", seed.DefaultDataPath, "收视率 CSV 文件")
	flag.IntVar(&opts.generations, "generations", int(defaults.MaxGenerations), "迭代次数")
	flag.IntVar(&opts.populationSize, "population", int(defaults.PopulationSize), "种群规模")
	flag.IntVar(&opts.eliteCount, "elite", int(defaults.EliteCount), "每一代保留的精英数量")
	flag.Float64Var(&opts.crossoverRate, "crossover", defaults.CrossoverRate, "交叉概率")
	flag.Float64Var(&opts.mutationRate, "mutation", defaults.MutationRate, "变异概率")
	flag.StringVar(&opts.selection, "selection", string(defaults.Selection), "父本选择策略 (uniform, roulette, tournament)")
	flag.IntVar(&opts.tournamentSize, "tournament", int(defaults.TournamentSize), "锦标赛规模")
	flag.Uint64Var(&opts.seed, "seed", uint64(time.Now().UnixNano()), "随机种子，默认使用当前时间")
	flag.IntVar(&opts.workers, "workers", defaults.Workers, "并行计算适应度的协程数")
	flag.IntVar(&opts.trials, "trials", 1, "使用连续的种子运行的次数，大于 1 时输出每次的结果并给出最优的一次")
	flag.DurationVar(&timeout, "timeout", 0, "运行超时时间，0 表示不限制")
	flag.BoolVar(&verbose, "v", false, "输出每一代的进化日志")
	flag.Parse()

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	/**********************************************
	 * 读取收视率数据
	 **********************************************/
	ds, err := ratings.Load(file)
	if err != nil {
		logger.Error("无法读取收视率数据", "file", file, "error", err)
		os.Exit(1)
	}

	parameters, err := opts.trialParameters()
	if err != nil {
		logger.Error("参数不合法", "error", err)
		os.Exit(1)
	}

	/**********************************************
	 * 运行遗传算法
	 **********************************************/
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	results, err := runTrials(ctx, ds, parameters)
	if err != nil {
		logger.Error("排期生成失败", "error", err)
		os.Exit(1)
	}
	logger.Info("排期生成完成", "trials", len(parameters), "duration", time.Since(start))

	/**********************************************
	 * 输出结果
	 **********************************************/
	if len(parameters) > 1 {
		if err := printTrials(os.Stdout, results); err != nil {
			logger.Error("无法输出结果", "error", err)
			os.Exit(1)
		}
		fmt.Println()
	}

	if err := printSchedule(os.Stdout, bestResult(results)); err != nil {
		logger.Error("无法输出结果", "error", err)
		os.Exit(1)
	}
}

func runTrials(ctx context.Context, ds *domain.RatingDataset, parameters []*scheduler.Parameters) ([]*domain.ScheduleResult, error) {
	if len(parameters) == 1 {
		s, err := scheduler.New(parameters[0], ds)
		if err != nil {
			return nil, err
		}

		res, err := s.Schedule(ctx)
		if err != nil {
			return nil, err
		}
		return []*domain.ScheduleResult{res}, nil
	}

	return scheduler.RunTrials(ctx, ds, parameters, 0)
}

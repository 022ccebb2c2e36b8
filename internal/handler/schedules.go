package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"runtime"
	"slices"
	"strconv"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/tv-scheduler/backend/internal/domain"
	"github.com/sysu-ecnc-dev/tv-scheduler/backend/internal/scheduler"
)

// scheduleParametersRequest 中所有字段都是可选的，缺省时使用配置中的默认值
type scheduleParametersRequest struct {
	Generations    *int32   `json:"generations" validate:"omitempty,min=0,max=10000"`
	PopulationSize *int32   `json:"populationSize" validate:"omitempty,min=1,max=10000"`
	EliteCount     *int32   `json:"eliteCount" validate:"omitempty,min=0"`
	CrossoverRate  *float64 `json:"crossoverRate" validate:"omitempty,min=0,max=1"`
	MutationRate   *float64 `json:"mutationRate" validate:"omitempty,min=0,max=1"`
	Selection      *string  `json:"selection" validate:"omitempty,oneof=uniform roulette tournament"`
	TournamentSize *int32   `json:"tournamentSize" validate:"omitempty,min=1"`
	Seed           *uint64  `json:"seed"`
}

// toParameters 将请求转换为算法参数，第二个返回值表示种子是否由客户端指定
func (h *Handler) toParameters(req *scheduleParametersRequest) (*scheduler.Parameters, bool) {
	opt := h.config.Optimizer
	parameters := &scheduler.Parameters{
		PopulationSize: opt.PopulationSize,
		MaxGenerations: opt.Generations,
		CrossoverRate:  opt.CrossoverRate,
		MutationRate:   opt.MutationRate,
		EliteCount:     opt.EliteCount,
		Selection:      scheduler.SelectionStrategy(opt.Selection),
		TournamentSize: opt.TournamentSize,
		Workers:        opt.Workers,
	}

	if req.Generations != nil {
		parameters.MaxGenerations = *req.Generations
	}
	if req.PopulationSize != nil {
		parameters.PopulationSize = *req.PopulationSize
	}
	if req.EliteCount != nil {
		parameters.EliteCount = *req.EliteCount
	}
	if req.CrossoverRate != nil {
		parameters.CrossoverRate = *req.CrossoverRate
	}
	if req.MutationRate != nil {
		parameters.MutationRate = *req.MutationRate
	}
	if req.Selection != nil {
		parameters.Selection = scheduler.SelectionStrategy(*req.Selection)
	}
	if req.TournamentSize != nil {
		parameters.TournamentSize = *req.TournamentSize
	}

	// 没有指定种子时随机生成一个，并在结果中返回，便于之后复现
	if req.Seed == nil {
		parameters.Seed = rand.Uint64()
		return parameters, false
	}
	parameters.Seed = *req.Seed
	return parameters, true
}

func (h *Handler) GenerateSchedule(w http.ResponseWriter, r *http.Request) {
	ds := r.Context().Value(RatingDatasetCtx).(*domain.RatingDataset)

	var req struct {
		scheduleParametersRequest
		NotifyEmail string `json:"notifyEmail" validate:"omitempty,email"`
	}

	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	parameters, seeded := h.toParameters(&req.scheduleParametersRequest)
	if err := parameters.Validate(); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 指定了种子的结果是确定的，可以直接使用缓存
	var res *domain.ScheduleResult
	cacheKey := scheduleResultKey(ds, parameters)
	if seeded {
		res = h.getCachedScheduleResult(r.Context(), cacheKey)
	}

	if res == nil {
		var err error
		res, err = h.runScheduler(r.Context(), ds, parameters)
		if err != nil {
			h.handleSchedulerError(w, r, err)
			return
		}

		if seeded {
			h.cacheScheduleResult(r.Context(), cacheKey, res)
		}
	}

	if req.NotifyEmail != "" {
		if err := h.publishScheduleReport(r.Context(), req.NotifyEmail, ds, parameters, res); err != nil {
			h.internalServerError(w, r, err)
			return
		}
	}

	h.successResponse(w, r, "生成排期成功", res)
}

func (h *Handler) runScheduler(ctx context.Context, ds *domain.RatingDataset, parameters *scheduler.Parameters) (*domain.ScheduleResult, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(h.config.Optimizer.Timeout)*time.Second)
	defer cancel()

	s, err := scheduler.New(parameters, ds, h.observeRun(ds))
	if err != nil {
		return nil, err
	}

	return s.Schedule(ctx)
}

// observeRun 记录每一次运行的指标，多组参数并行运行时会被并发调用
func (h *Handler) observeRun(ds *domain.RatingDataset) scheduler.Option {
	dataset := strconv.FormatInt(ds.ID, 10)
	return scheduler.WithRunHook(func(res *domain.ScheduleResult, elapsed time.Duration, err error) {
		bestFitness, generations := 0.0, int32(0)
		if res != nil {
			bestFitness, generations = res.TotalRating, res.Generations
		}
		h.metrics.ObserveRun(dataset, bestFitness, generations, elapsed, err)
	})
}

// trialWorkers 返回同时运行的参数组数
func (h *Handler) trialWorkers() int {
	if h.config.Optimizer.TrialWorkers > 0 {
		return h.config.Optimizer.TrialWorkers
	}
	return runtime.GOMAXPROCS(0)
}

func (h *Handler) CompareScheduleTrials(w http.ResponseWriter, r *http.Request) {
	ds := r.Context().Value(RatingDatasetCtx).(*domain.RatingDataset)

	var req struct {
		Trials []scheduleParametersRequest `json:"trials" validate:"required,min=1,dive"`
	}

	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if len(req.Trials) > h.config.Optimizer.MaxTrials {
		h.errorResponse(w, r, fmt.Sprintf("一次最多比较 %d 组参数", h.config.Optimizer.MaxTrials))
		return
	}

	trials := make([]*scheduler.Parameters, len(req.Trials))
	for i := range req.Trials {
		trials[i], _ = h.toParameters(&req.Trials[i])
	}

	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(h.config.Optimizer.Timeout)*time.Second)
	defer cancel()

	results, err := scheduler.RunTrials(ctx, ds, trials, h.trialWorkers(), h.observeRun(ds))
	if err != nil {
		h.handleSchedulerError(w, r, err)
		return
	}

	type trialResult struct {
		Trial  int                    `json:"trial"` // 在请求中的下标
		Result *domain.ScheduleResult `json:"result"`
	}

	ranked := make([]trialResult, len(results))
	for i, res := range results {
		ranked[i] = trialResult{Trial: i, Result: res}
	}

	// 按总收视率从高到低排序，相同时保持请求中的顺序
	slices.SortStableFunc(ranked, func(a, b trialResult) int {
		switch {
		case a.Result.TotalRating > b.Result.TotalRating:
			return -1
		case a.Result.TotalRating < b.Result.TotalRating:
			return 1
		default:
			return 0
		}
	})

	h.successResponse(w, r, "参数比较完成", ranked)
}

func (h *Handler) handleSchedulerError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, scheduler.ErrInvalidParameters):
		h.badRequest(w, r, err)
	case errors.Is(err, scheduler.ErrDegenerateInput):
		h.errorResponse(w, r, "数据集中没有节目或时段，无法生成排期")
	case errors.Is(err, context.DeadlineExceeded):
		h.errorResponse(w, r, "生成排期超时，请减少迭代次数或种群规模")
	case errors.Is(err, context.Canceled):
		// 客户端已经断开连接，没有必要再返回
		slog.Warn("排期生成被取消", "path", r.URL.Path)
	default:
		h.internalServerError(w, r, err)
	}
}

func scheduleResultKey(ds *domain.RatingDataset, p *scheduler.Parameters) string {
	return fmt.Sprintf("schedule_result_%d_%d_%d_%d_%d_%g_%g_%s_%d_%d",
		ds.ID, ds.Version,
		p.MaxGenerations, p.PopulationSize, p.EliteCount,
		p.CrossoverRate, p.MutationRate,
		p.Selection, p.TournamentSize, p.Seed,
	)
}

func (h *Handler) redisContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, time.Duration(h.config.Redis.OperationTimeout)*time.Second)
}

// getCachedScheduleResult 缓存不可用时视为未命中，不影响正常生成
func (h *Handler) getCachedScheduleResult(ctx context.Context, key string) *domain.ScheduleResult {
	if h.redisClient == nil {
		return nil
	}

	ctx, cancel := h.redisContext(ctx)
	defer cancel()

	data, err := h.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("读取排期缓存失败", "key", key, "error", err)
		}
		h.metrics.CacheMissesTotal.Inc()
		return nil
	}

	var res domain.ScheduleResult
	if err := json.Unmarshal(data, &res); err != nil {
		slog.Warn("排期缓存格式错误", "key", key, "error", err)
		h.metrics.CacheMissesTotal.Inc()
		return nil
	}

	h.metrics.CacheHitsTotal.Inc()
	return &res
}

func (h *Handler) cacheScheduleResult(ctx context.Context, key string, res *domain.ScheduleResult) {
	if h.redisClient == nil {
		return
	}

	data, err := json.Marshal(res)
	if err != nil {
		slog.Warn("序列化排期结果失败", "error", err)
		return
	}

	ctx, cancel := h.redisContext(ctx)
	defer cancel()

	if err := h.redisClient.Set(ctx, key, data, time.Duration(h.config.Redis.ResultExpiration)*time.Second).Err(); err != nil {
		slog.Warn("写入排期缓存失败", "key", key, "error", err)
	}
}

func (h *Handler) evictScheduleResults(ctx context.Context, datasetID int64) {
	if h.redisClient == nil {
		return
	}

	ctx, cancel := h.redisContext(ctx)
	defer cancel()

	iter := h.redisClient.Scan(ctx, 0, fmt.Sprintf("schedule_result_%d_*", datasetID), 100).Iterator()
	for iter.Next(ctx) {
		if err := h.redisClient.Del(ctx, iter.Val()).Err(); err != nil {
			slog.Warn("删除排期缓存失败", "key", iter.Val(), "error", err)
		}
	}
	if err := iter.Err(); err != nil {
		slog.Warn("遍历排期缓存失败", "datasetID", datasetID, "error", err)
	}
}

func (h *Handler) publishScheduleReport(ctx context.Context, to string, ds *domain.RatingDataset, parameters *scheduler.Parameters, res *domain.ScheduleResult) error {
	// 准备邮件
	mailMessage := domain.MailMessage{
		Type: "schedule_report",
		To:   to,
		Data: domain.ScheduleReportMailData{
			DatasetName:    ds.Name,
			Seed:           res.Seed,
			Generations:    res.Generations,
			PopulationSize: parameters.PopulationSize,
			CrossoverRate:  parameters.CrossoverRate,
			MutationRate:   parameters.MutationRate,
			Slots:          res.Slots,
			TotalRating:    res.TotalRating,
		},
	}

	// 序列化邮件
	mailData, err := json.Marshal(mailMessage)
	if err != nil {
		return err
	}

	// 发送邮件到消息队列中
	ctx, cancel := context.WithTimeout(ctx, time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	return h.mailChannel.PublishWithContext(
		ctx,
		"",
		"email_queue",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        mailData,
		},
	)
}

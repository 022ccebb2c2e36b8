package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/sysu-ecnc-dev/tv-scheduler/backend/internal/config"
	"github.com/sysu-ecnc-dev/tv-scheduler/backend/internal/repository"
	"github.com/sysu-ecnc-dev/tv-scheduler/backend/internal/seed"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var programs int
	var slots int
	var file string
	var name string
	var description string

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机数据集, 2: 导入 CSV 文件)")
	flag.IntVar(&n, "n", 5, "要插入的随机数据集数量")
	flag.IntVar(&programs, "programs", 10, "随机数据集中的节目数量")
	flag.IntVar(&slots, "slots", 18, "随机数据集中的时段数量")
	flag.StringVar(&file, "file", seed.DefaultDataPath, "要导入的 CSV 文件")
	flag.StringVar(&name, "name", "", "导入后的数据集名称，默认使用文件名")
	flag.StringVar(&description, "description", "", "导入后的数据集描述")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 || programs <= 0 || slots <= 0 {
			slog.Error("请输入合法的数据集数量、节目数量和时段数量")
			return
		}

		cnt := seed.SeedRandomDatasets(repo, n, programs, cfg.Optimizer.FirstSlotHour, slots)
		slog.Info("插入数据集成功", slog.Int("count", cnt))
	case 2:
		if _, err := seed.ImportRatingDataset(repo, file, name, description); err != nil {
			slog.Error("无法导入数据集", slog.String("file", file), slog.String("error", err.Error()))
		}
	default:
		slog.Error("指定的操作非法")
	}
}

package seed

import (
	"log/slog"

	"github.com/sysu-ecnc-dev/tv-scheduler/backend/internal/domain"
	"github.com/sysu-ecnc-dev/tv-scheduler/backend/internal/ratings"
	"github.com/sysu-ecnc-dev/tv-scheduler/backend/internal/repository"
	"github.com/sysu-ecnc-dev/tv-scheduler/backend/internal/utils"
)

const DefaultDataPath = "./internal/seed/data/program_ratings.csv"

type DatasetCreator interface {
	CreateRatingDataset(ds *domain.RatingDataset) error
}

var _ DatasetCreator = (*repository.Repository)(nil)

// ImportRatingDataset 读取 CSV 文件并插入数据库，name 为空时使用文件名
func ImportRatingDataset(r DatasetCreator, path string, name string, description string) (*domain.RatingDataset, error) {
	ds, err := ratings.Load(path)
	if err != nil {
		return nil, err
	}

	if name != "" {
		ds.Name = name
	}
	ds.Description = description

	if err := utils.ValidateRatingDataset(ds); err != nil {
		return nil, err
	}

	if err := r.CreateRatingDataset(ds); err != nil {
		return nil, err
	}

	slog.Info("导入数据集成功", "id", ds.ID, "name", ds.Name, "programs", len(ds.Programs), "slots", len(ds.SlotLabels))
	return ds, nil
}

// SeedRandomDatasets 插入 n 个随机数据集，返回成功插入的数量
func SeedRandomDatasets(r DatasetCreator, n int, programs int, firstHour int, slots int) int {
	cnt := 0
	for i := 0; i < n; i++ {
		ds := utils.GenerateRandomRatingDataset(programs, firstHour, slots)
		if err := r.CreateRatingDataset(ds); err != nil {
			slog.Error("无法插入数据集", "name", ds.Name, "error", err)
			continue
		}

		cnt++
	}

	return cnt
}

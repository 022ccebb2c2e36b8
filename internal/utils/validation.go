package utils

import (
	"errors"
	"fmt"
	"math"

	"github.com/sysu-ecnc-dev/tv-scheduler/backend/internal/domain"
)

func ValidateRatingDataset(ds *domain.RatingDataset) error {
	if len(ds.SlotLabels) == 0 {
		return errors.New("数据集中至少需要一个时段")
	}
	if len(ds.Programs) == 0 {
		return errors.New("数据集中至少需要一个节目")
	}

	// 检查时段名称是否重复
	seenLabels := make(map[string]bool)
	for i, label := range ds.SlotLabels {
		if label == "" {
			return fmt.Errorf("第 %d 个时段的名称为空", i+1)
		}
		if seenLabels[label] {
			return fmt.Errorf("时段 %q 重复", label)
		}
		seenLabels[label] = true
	}

	// 检查节目是否重复，以及收视率是否合法
	seenPrograms := make(map[string]bool)
	for i, program := range ds.Programs {
		if program.Name == "" {
			return fmt.Errorf("第 %d 个节目的名称为空", i+1)
		}
		if seenPrograms[program.Name] {
			return fmt.Errorf("节目 %q 重复", program.Name)
		}
		seenPrograms[program.Name] = true

		// 收视率可以少于时段数（缺失部分视为 0），但不能多于时段数
		if len(program.Ratings) > len(ds.SlotLabels) {
			return fmt.Errorf("节目 %q 的收视率数量 %d 超过了时段数量 %d", program.Name, len(program.Ratings), len(ds.SlotLabels))
		}
		for j, rating := range program.Ratings {
			if math.IsNaN(rating) || math.IsInf(rating, 0) || rating < 0 {
				return fmt.Errorf("节目 %q 在时段 %q 的收视率 %v 不合法", program.Name, ds.SlotLabels[j], rating)
			}
		}
	}

	return nil
}

// FillProgramSlugs 为没有 slug 的节目生成 slug
func FillProgramSlugs(ds *domain.RatingDataset) {
	for i := range ds.Programs {
		if ds.Programs[i].Slug == "" {
			ds.Programs[i].Slug = GenerateProgramSlug(ds.Programs[i].Name)
		}
	}
}

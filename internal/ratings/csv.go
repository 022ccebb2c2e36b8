package ratings

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sysu-ecnc-dev/tv-scheduler/backend/internal/domain"
	"github.com/sysu-ecnc-dev/tv-scheduler/backend/internal/utils"
)

var ErrDataUnavailable = errors.New("收视率数据不可用")

// Load 从 CSV 文件中读取收视率数据集，数据集名称为不带扩展名的文件名
func Load(path string) (*domain.RatingDataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDataUnavailable, err)
	}
	defer file.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return Read(file, name)
}

// Read 解析 CSV 格式的收视率表：
// 第一行为表头，第一列是节目列的名称，其余每一列是一个时段；
// 之后每一行是一个节目及其在各时段的收视率，空单元格或缺失的单元格视为 0
func Read(r io.Reader, name string) (*domain.RatingDataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // 允许每行的列数不一致
	reader.TrimLeadingSpace = true

	// 读取表头
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: 文件为空", ErrDataUnavailable)
		}
		return nil, fmt.Errorf("%w: 读取表头失败: %w", ErrDataUnavailable, err)
	}

	// Excel 导出的 UTF-8 文件可能带有 BOM
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	if len(header) < 2 {
		return nil, fmt.Errorf("%w: 表头中没有时段列", ErrDataUnavailable)
	}

	ds := &domain.RatingDataset{
		Name:       name,
		SlotLabels: make([]string, 0, len(header)-1),
		Programs:   make([]domain.ProgramRating, 0),
	}
	for _, label := range header[1:] {
		ds.SlotLabels = append(ds.SlotLabels, strings.TrimSpace(label))
	}

	seen := make(map[string]bool)
	line := 1
	for {
		row, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("%w: 读取文件失败: %w", ErrDataUnavailable, err)
		}
		line++

		programName := strings.TrimSpace(row[0])
		if programName == "" {
			// 跳过空行
			if isBlank(row) {
				continue
			}
			return nil, fmt.Errorf("%w: 第 %d 行缺少节目名称", ErrDataUnavailable, line)
		}
		if seen[programName] {
			return nil, fmt.Errorf("%w: 第 %d 行的节目 %q 重复", ErrDataUnavailable, line, programName)
		}
		seen[programName] = true

		if len(row)-1 > len(ds.SlotLabels) {
			return nil, fmt.Errorf("%w: 第 %d 行的列数超过了表头", ErrDataUnavailable, line)
		}

		ratings := make([]float64, len(ds.SlotLabels))
		for i, cell := range row[1:] {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}

			rating, err := strconv.ParseFloat(cell, 64)
			if err != nil || math.IsNaN(rating) || math.IsInf(rating, 0) || rating < 0 {
				return nil, fmt.Errorf("%w: 第 %d 行第 %d 列的收视率 %q 不合法", ErrDataUnavailable, line, i+2, cell)
			}
			ratings[i] = rating
		}

		ds.Programs = append(ds.Programs, domain.ProgramRating{
			Name:    programName,
			Slug:    utils.GenerateProgramSlug(programName),
			Ratings: ratings,
		})
	}

	if len(ds.Programs) == 0 {
		return nil, fmt.Errorf("%w: 文件中没有任何节目", ErrDataUnavailable)
	}

	return ds, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

package seed

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/tv-scheduler/backend/internal/domain"
	"github.com/sysu-ecnc-dev/tv-scheduler/backend/internal/ratings"
)

type memoryCreator struct {
	datasets []*domain.RatingDataset
	failAt   int // 第几次插入失败，从 1 开始，0 表示不失败
}

func (m *memoryCreator) CreateRatingDataset(ds *domain.RatingDataset) error {
	if m.failAt == len(m.datasets)+1 {
		m.failAt = 0
		return errors.New("插入失败")
	}
	ds.ID = int64(len(m.datasets) + 1)
	m.datasets = append(m.datasets, ds)
	return nil
}

func TestImportBundledRatingDataset(t *testing.T) {
	creator := &memoryCreator{}

	ds, err := ImportRatingDataset(creator, "data/program_ratings.csv", "", "示例数据")
	require.NoError(t, err)

	assert.Equal(t, "program_ratings", ds.Name)
	assert.Equal(t, "示例数据", ds.Description)
	assert.Len(t, ds.SlotLabels, 18)
	assert.Equal(t, "6:00", ds.SlotLabels[0])
	assert.Equal(t, "23:00", ds.SlotLabels[17])
	assert.Len(t, ds.Programs, 10)
	assert.Len(t, creator.datasets, 1)
}

func TestImportRatingDatasetWithName(t *testing.T) {
	creator := &memoryCreator{}

	ds, err := ImportRatingDataset(creator, "data/program_ratings.csv", "周末", "")
	require.NoError(t, err)
	assert.Equal(t, "周末", ds.Name)
}

func TestImportMissingFile(t *testing.T) {
	_, err := ImportRatingDataset(&memoryCreator{}, "data/missing.csv", "", "")
	assert.ErrorIs(t, err, ratings.ErrDataUnavailable)
}

func TestSeedRandomDatasets(t *testing.T) {
	creator := &memoryCreator{failAt: 2}

	cnt := SeedRandomDatasets(creator, 4, 5, 6, 18)
	assert.Equal(t, 3, cnt)
	for _, ds := range creator.datasets {
		assert.Len(t, ds.SlotLabels, 18)
		assert.Len(t, ds.Programs, 5)
	}
}

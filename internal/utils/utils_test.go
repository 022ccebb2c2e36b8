package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/tv-scheduler/backend/internal/domain"
)

func TestGenerateProgramSlug(t *testing.T) {
	for name, want := range map[string]string{
		"Boxing":            "boxing",
		"Live Soccer":       "live-soccer",
		"新闻联播":              "xin-wen-lian-bo",
		"新闻联播 2024":         "xin-wen-lian-bo-2024",
		"Tonight秀":          "tonight-xiu",
		"  --Music & Talk-": "music-talk",
		"!!!":               "program",
	} {
		assert.Equal(t, want, GenerateProgramSlug(name), name)
	}
}

func TestGenerateSlotLabels(t *testing.T) {
	assert.Equal(t, []string{"06:00", "07:00", "08:00"}, GenerateSlotLabels(6, 3))
	assert.Equal(t, []string{"23:00", "00:00"}, GenerateSlotLabels(23, 2))
	assert.Empty(t, GenerateSlotLabels(6, 0))
}

func TestGenerateRandomRatingDatasetIsValid(t *testing.T) {
	ds := GenerateRandomRatingDataset(10, 6, 18)

	require.NoError(t, ValidateRatingDataset(ds))
	assert.Len(t, ds.Programs, 10)
	assert.Len(t, ds.SlotLabels, 18)
	for _, p := range ds.Programs {
		assert.NotEmpty(t, p.Slug)
		assert.Len(t, p.Ratings, 18)
	}
}

func TestValidateRatingDataset(t *testing.T) {
	valid := func() *domain.RatingDataset {
		return &domain.RatingDataset{
			SlotLabels: []string{"06:00", "07:00"},
			Programs: []domain.ProgramRating{
				{Name: "A", Ratings: []float64{1, 2}},
				{Name: "B", Ratings: []float64{3}},
			},
		}
	}
	require.NoError(t, ValidateRatingDataset(valid()))

	for name, mutate := range map[string]func(ds *domain.RatingDataset){
		"no slots":          func(ds *domain.RatingDataset) { ds.SlotLabels = nil },
		"no programs":       func(ds *domain.RatingDataset) { ds.Programs = nil },
		"empty slot label":  func(ds *domain.RatingDataset) { ds.SlotLabels[1] = "" },
		"duplicate slot":    func(ds *domain.RatingDataset) { ds.SlotLabels[1] = "06:00" },
		"empty program":     func(ds *domain.RatingDataset) { ds.Programs[0].Name = "" },
		"duplicate program": func(ds *domain.RatingDataset) { ds.Programs[1].Name = "A" },
		"too many ratings":  func(ds *domain.RatingDataset) { ds.Programs[0].Ratings = []float64{1, 2, 3} },
		"negative rating":   func(ds *domain.RatingDataset) { ds.Programs[0].Ratings[0] = -1 },
		"NaN rating":        func(ds *domain.RatingDataset) { ds.Programs[0].Ratings[1] = math.NaN() },
	} {
		t.Run(name, func(t *testing.T) {
			ds := valid()
			mutate(ds)
			assert.Error(t, ValidateRatingDataset(ds))
		})
	}
}

func TestFillProgramSlugs(t *testing.T) {
	ds := &domain.RatingDataset{
		Programs: []domain.ProgramRating{
			{Name: "晚间新闻"},
			{Name: "Movie", Slug: "custom"},
		},
	}

	FillProgramSlugs(ds)

	assert.Equal(t, "wan-jian-xin-wen", ds.Programs[0].Slug)
	assert.Equal(t, "custom", ds.Programs[1].Slug)
}

package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/tv-scheduler/backend/internal/domain"
	"github.com/sysu-ecnc-dev/tv-scheduler/backend/internal/scheduler"
)

func TestPrintSchedule(t *testing.T) {
	res := &domain.ScheduleResult{
		Slots: []domain.ScheduleResultSlot{
			{Slot: 0, Label: "06:00", Program: "news", Rating: 0.1},
			{Slot: 1, Label: "07:00", Program: "live_soccer", Rating: 0.4},
		},
		TotalRating: 0.5,
	}

	var buf bytes.Buffer
	require.NoError(t, printSchedule(&buf, res))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[1], "06:00")
	assert.Contains(t, lines[1], "news")
	assert.Contains(t, lines[2], "live_soccer")
	assert.Contains(t, lines[2], "0.40")
	assert.Contains(t, lines[3], "0.50")
}

func TestBestResult(t *testing.T) {
	results := []*domain.ScheduleResult{
		{Seed: 1, TotalRating: 3},
		{Seed: 2, TotalRating: 5},
		{Seed: 3, TotalRating: 5},
	}

	assert.Equal(t, uint64(2), bestResult(results).Seed)
}

func TestRunTrials(t *testing.T) {
	ds := &domain.RatingDataset{
		SlotLabels: []string{"06:00", "07:00"},
		Programs: []domain.ProgramRating{
			{Name: "A", Ratings: []float64{10, 1}},
			{Name: "B", Ratings: []float64{1, 10}},
		},
	}

	parameters := make([]*scheduler.Parameters, 3)
	for i := range parameters {
		parameters[i] = scheduler.DefaultParameters()
		parameters[i].Seed = uint64(i + 1)
	}

	results, err := runTrials(context.Background(), ds, parameters)
	require.NoError(t, err)
	require.Len(t, results, 3)

	var buf bytes.Buffer
	require.NoError(t, printTrials(&buf, results))
	assert.Len(t, strings.Split(strings.TrimSpace(buf.String()), "\n"), 4)

	single, err := runTrials(context.Background(), ds, parameters[:1])
	require.NoError(t, err)
	assert.Equal(t, results[0], single[0])
}

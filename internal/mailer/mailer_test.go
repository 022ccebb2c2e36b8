package mailer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/tv-scheduler/backend/internal/domain"
)

func reportData() domain.ScheduleReportMailData {
	return domain.ScheduleReportMailData{
		DatasetName:    "evening",
		Seed:           42,
		Generations:    100,
		PopulationSize: 50,
		CrossoverRate:  0.8,
		MutationRate:   0.02,
		Slots: []domain.ScheduleResultSlot{
			{Slot: 0, Label: "19:00", Program: "news", Rating: 0.9},
			{Slot: 1, Label: "20:00", Program: "<movie>", Rating: 0.75},
		},
		TotalRating: 1.65,
	}
}

func TestRenderScheduleReport(t *testing.T) {
	data := reportData()

	html, err := RenderScheduleReport(&data)
	require.NoError(t, err)

	assert.Contains(t, html, "evening")
	assert.Contains(t, html, "19:00")
	assert.Contains(t, html, "news")
	assert.Contains(t, html, "0.75")
	assert.Contains(t, html, "1.65")

	// 节目名称需要转义
	assert.Contains(t, html, "&lt;movie&gt;")
	assert.NotContains(t, html, "<movie>")
}

func TestBuildMessage(t *testing.T) {
	body, err := json.Marshal(domain.MailMessage{
		Type: "schedule_report",
		To:   "operator@example.com",
		Data: reportData(),
	})
	require.NoError(t, err)

	msg, err := BuildMessage("noreply@example.com", body)
	require.NoError(t, err)
	to := msg.GetToString()
	require.Len(t, to, 1)
	assert.Contains(t, to[0], "operator@example.com")
}

func TestBuildMessageErrors(t *testing.T) {
	for name, body := range map[string]string{
		"invalid json":      `{`,
		"unknown type":      `{"type":"create_user","to":"a@example.com","data":{}}`,
		"invalid recipient": `{"type":"schedule_report","to":"not an address","data":{}}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := BuildMessage("noreply@example.com", []byte(body))
			assert.Error(t, err)
		})
	}
}

package domain

import "time"

type ProgramRating struct {
	Name    string    `json:"name"`
	Slug    string    `json:"slug"`
	Ratings []float64 `json:"ratings"` // 下标即时段下标，长度可能小于时段数，缺失部分视为 0
}

type RatingDataset struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	SlotLabels  []string        `json:"slotLabels"`
	Programs    []ProgramRating `json:"programs"`
	CreatedAt   time.Time       `json:"createdAt"`
	Version     int32           `json:"-"`
}

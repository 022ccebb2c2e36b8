package domain

type ScheduleResultSlot struct {
	Slot    int     `json:"slot"`
	Label   string  `json:"label"`
	Program string  `json:"program"`
	Rating  float64 `json:"rating"`
}

type ScheduleResult struct {
	DatasetID          int64                `json:"datasetID"`
	Seed               uint64               `json:"seed"`
	Programs           []string             `json:"programs"`
	Slots              []ScheduleResultSlot `json:"slots"`
	TotalRating        float64              `json:"totalRating"`
	Generations        int32                `json:"generations"`        // 实际完成的代数
	BestFitnessHistory []float64            `json:"bestFitnessHistory"` // 第 0 项为初始种群
}

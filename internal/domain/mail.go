package domain

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type ScheduleReportMailData struct {
	DatasetName    string               `json:"datasetName"`
	Seed           uint64               `json:"seed"`
	Generations    int32                `json:"generations"`
	PopulationSize int32                `json:"populationSize"`
	CrossoverRate  float64              `json:"crossoverRate"`
	MutationRate   float64              `json:"mutationRate"`
	Slots          []ScheduleResultSlot `json:"slots"`
	TotalRating    float64              `json:"totalRating"`
}

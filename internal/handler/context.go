package handler

type ContextKey string

var (
	SubCtxKey        ContextKey = "sub"
	RatingDatasetCtx ContextKey = "ratingDataset"
)

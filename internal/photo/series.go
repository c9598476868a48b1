package photo

// Series represents a named group of photos curated by their owner.
type Series struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	OwnerName   string `json:"ownerName"`
}

// NewSeriesParams holds parameters for creating a new Series.
type NewSeriesParams struct {
	Title       string
	Description string
	OwnerName   string
}

// NewSeries creates a Series with generated UUID.
func NewSeries(params NewSeriesParams) Series {
	return Series{
		ID:          generateUUID(),
		Title:       params.Title,
		Description: params.Description,
		OwnerName:   params.OwnerName,
	}
}

package model

type ChartResponse struct {
	ChartSummary
	Metadata *ChartMetadata `json:"metadata"`
}

type TickResponse struct {
	Tick    int     `json:"tick"`
	Elapsed float64 `json:"elapsed"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}

package plans

type Plan struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	DurationInDays int     `json:"duration_in_days"`
	Price          float64 `json:"price"`
	IsActive       bool    `json:"is_active"`
}

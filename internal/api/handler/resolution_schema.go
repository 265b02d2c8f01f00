package handler

import "time"

type resolveRequest struct {
	CityID       string   `json:"city_id"       validate:"required"`
	StartDate    string   `json:"start_date"    validate:"required"`
	EndDate      string   `json:"end_date"      validate:"required"`
	MinMagnitude *float64 `json:"min_magnitude" validate:"omitempty,gte=0"`
}

type resolveResponse struct {
	VerboseMsg string     `json:"verbose_msg"`
	Location   string     `json:"nearest_earthquake_location,omitempty"`
	Magnitude  *float64   `json:"nearest_earthquake_magnitude,omitempty"`
	Time       *time.Time `json:"nearest_earthquake_time,omitempty"`
	DistanceKm *float64   `json:"distance_km,omitempty"`
	Cached     bool       `json:"cached"`
	Warning    string     `json:"warning,omitempty"`
}

type historyItemResponse struct {
	CityName   string     `json:"city_name"`
	Location   string     `json:"nearest_earthquake_location,omitempty"`
	Magnitude  *float64   `json:"nearest_earthquake_magnitude,omitempty"`
	Time       *time.Time `json:"nearest_earthquake_time,omitempty"`
	DistanceKm *float64   `json:"distance_km,omitempty"`
	VerboseMsg string     `json:"verbose_msg"`
	CreatedAt  time.Time  `json:"created_at"`
}

type historyListResponse struct {
	Count       int64                 `json:"count"`
	TotalPages  int                   `json:"total_pages"`
	Next        *string               `json:"next"`
	Previous    *string               `json:"previous"`
	HasNext     bool                  `json:"has_next"`
	HasPrevious bool                  `json:"has_previous"`
	Results     []historyItemResponse `json:"results"`
}

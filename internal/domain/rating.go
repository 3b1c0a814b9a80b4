package domain

import "time"

// Rating is a post-trip review. One rating per (trip, rater, rated).
type Rating struct {
	ID          string    `json:"id"`
	TripID      string    `json:"trip_id"`
	RaterID     string    `json:"rater_id"`
	RatedID     string    `json:"rated_id"`
	Score       int32     `json:"score"` // 1..5
	Punctuality *int32    `json:"punctuality,omitempty"`
	Driving     *int32    `json:"driving,omitempty"`
	Comfort     *int32    `json:"comfort,omitempty"`
	Comment     string    `json:"comment,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	CreatedOn   time.Time `json:"created_on"`
}

type RatingSummary struct {
	RatedID string  `json:"rated_id"`
	Average float64 `json:"average"`
	Count   int32   `json:"count"`
}

package transport

import "time"

// SearchRequest is bound from the query string. Types is a comma separated
// subset of funnel, lead and resource.
type SearchRequest struct {
	Query string `form:"q" validate:"required,min=2,max=100"`
	Types string `form:"types" validate:"omitempty,max=40"`
	Limit int    `form:"limit" validate:"omitempty,min=1,max=50"`
}

// SearchHit is one ranked match. Status carries the publish state for
// funnels, the verdict for leads and the resource kind for resources.
type SearchHit struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	Title        string    `json:"title"`
	Subtitle     string    `json:"subtitle"`
	Status       string    `json:"status"`
	Link         string    `json:"link"`
	Score        float64   `json:"score"`
	MatchedField string    `json:"matchedField"`
	CreatedAt    time.Time `json:"createdAt"`
}

type SearchResponse struct {
	Items []SearchHit `json:"items"`
	Total int         `json:"total"`
}

package models

import "time"

// Workshop is a service business with a catalog and an aggregate rating.
// Rating is a running average over submitted reviews, kept to two decimals.
type Workshop struct {
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"owner_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Address     string    `json:"address"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Phone       *string   `json:"phone,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`
	Rating      float64   `json:"rating"`
	ReviewCount int       `json:"review_count"`
	Tags        []string  `json:"tags,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CatalogService is one service a workshop offers. Price is a decimal string
// in Bolivianos.
type CatalogService struct {
	ID              int64       `json:"id"`
	WorkshopID      int64       `json:"workshop_id"`
	Name            string      `json:"name"`
	Description     *string     `json:"description,omitempty"`
	Price           string      `json:"price"`
	DurationMinutes int         `json:"duration_minutes"`
	Type            ServiceType `json:"type"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// WorkshopDetail is a workshop with its catalog, most recent reviews and
// owner profile, as shown on the public detail page.
type WorkshopDetail struct {
	Workshop
	Services []CatalogService `json:"services"`
	Reviews  []Review         `json:"reviews"`
	Owner    *User            `json:"owner,omitempty"`
}

// MonthlyRevenue is one bucket of the dashboard revenue chart.
type MonthlyRevenue struct {
	Name  string  `json:"name"`
	Total float64 `json:"total"`
}

// WorkshopStats is the owner dashboard summary: revenue over completed
// assistance work, job count, rating and the monthly chart buckets.
type WorkshopStats struct {
	Revenue        float64          `json:"revenue"`
	Appointments   int              `json:"appointments"`
	Rating         float64          `json:"rating"`
	MonthlyRevenue []MonthlyRevenue `json:"monthly_revenue"`
}

// UpdateWorkshopRequest is the settings form a workshop owner submits.
// A changed description is run through AI classification before saving.
type UpdateWorkshopRequest struct {
	Name        string `json:"name" validate:"required"`
	Address     string `json:"address" validate:"required"`
	Phone       string `json:"phone,omitempty"`
	Description string `json:"description,omitempty"`
}

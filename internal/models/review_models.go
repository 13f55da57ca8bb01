package models

import "time"

// Review is one rating and comment left for a provider after a completed
// assistance request, or for a workshop.
type Review struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	WorkshopID *int64    `json:"workshop_id,omitempty"`
	ProviderID *int64    `json:"provider_id,omitempty"`
	Rating     int       `json:"rating"`
	Comment    *string   `json:"comment,omitempty"`
	User       *User     `json:"user,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// SubmitReviewRequest is the rating form shown when a tracked request
// completes.
type SubmitReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment,omitempty"`
}

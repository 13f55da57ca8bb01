package models

import "time"

// Vehicle is a car registered by a driver.
type Vehicle struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Make      string    `json:"make"`
	Model     string    `json:"model"`
	Year      int       `json:"year"`
	Plate     string    `json:"plate"`
	VIN       *string   `json:"vin,omitempty"`
	Color     *string   `json:"color,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateVehicleRequest is the form a driver submits to register a vehicle.
type CreateVehicleRequest struct {
	Make  string `json:"make" validate:"required"`
	Model string `json:"model" validate:"required"`
	Year  int    `json:"year" validate:"required,min=1900,max=2100"`
	Plate string `json:"plate" validate:"required"`
	Color string `json:"color,omitempty"`
}

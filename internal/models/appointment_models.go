package models

import "time"

// AppointmentStatus follows a simple two-state flow (pending/confirmed) plus
// the terminal completed/cancelled states, with no transition guards.
type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "pending"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// Appointment is a workshop booking for a catalog service.
type Appointment struct {
	ID         int64             `json:"id"`
	UserID     int64             `json:"user_id"`
	WorkshopID int64             `json:"workshop_id"`
	VehicleID  int64             `json:"vehicle_id"`
	ServiceID  int64             `json:"service_id"`
	Date       time.Time         `json:"date"`
	Status     AppointmentStatus `json:"status"`
	Notes      *string           `json:"notes,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// AppointmentDetail joins an appointment with the client, vehicle and service
// rows, as the calendar and the CSV report need them.
type AppointmentDetail struct {
	Appointment
	User    *User           `json:"user,omitempty"`
	Vehicle *Vehicle        `json:"vehicle,omitempty"`
	Service *CatalogService `json:"service,omitempty"`
}

// CreateBookingRequest is a driver's booking form. Time is "HH:MM" and is
// combined with Date into the appointment timestamp.
type CreateBookingRequest struct {
	WorkshopID int64     `json:"workshop_id" validate:"required"`
	ServiceID  int64     `json:"service_id" validate:"required"`
	Date       time.Time `json:"date" validate:"required"`
	Time       string    `json:"time" validate:"required"`
}

// CreateManualAppointmentRequest is the calendar form a workshop owner uses to
// register an appointment directly. The client is inferred from the vehicle.
type CreateManualAppointmentRequest struct {
	VehicleID int64     `json:"vehicle_id" validate:"required"`
	ServiceID int64     `json:"service_id" validate:"required"`
	Date      time.Time `json:"date" validate:"required"`
	Notes     string    `json:"notes,omitempty"`
}

// ClientSummary is a driver with their vehicles, for the workshop's client
// picker.
type ClientSummary struct {
	User
	Vehicles []Vehicle `json:"vehicles"`
}

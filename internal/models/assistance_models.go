package models

import "time"

// ServiceType tags what kind of roadside help a request is asking for.
type ServiceType string

const (
	ServiceTow             ServiceType = "tow"
	ServiceBattery         ServiceType = "battery"
	ServiceTire            ServiceType = "tire"
	ServiceFuel            ServiceType = "fuel"
	ServiceMechanicalIssue ServiceType = "mechanical_issue"
	ServiceFuelDelivery    ServiceType = "fuel_delivery"
	ServiceLocksmith       ServiceType = "locksmith"
)

// ServiceTypes lists every valid tag, in display order.
var ServiceTypes = []ServiceType{
	ServiceTow,
	ServiceBattery,
	ServiceTire,
	ServiceFuel,
	ServiceMechanicalIssue,
	ServiceFuelDelivery,
	ServiceLocksmith,
}

// Valid reports whether t is one of the fixed service tags.
func (t ServiceType) Valid() bool {
	for _, known := range ServiceTypes {
		if t == known {
			return true
		}
	}
	return false
}

// RequestStatus is the lifecycle state of an assistance request.
type RequestStatus string

const (
	StatusPending    RequestStatus = "pending"
	StatusAccepted   RequestStatus = "accepted"
	StatusInProgress RequestStatus = "in_progress"
	StatusCompleted  RequestStatus = "completed"
	StatusCancelled  RequestStatus = "cancelled"
)

// requestTransitions is the legal state machine for assistance requests.
// Note that nothing ever writes "cancelled": the state is representable and
// list queries filter on it, but no operation performs the transition.
var requestTransitions = map[RequestStatus][]RequestStatus{
	StatusPending:    {StatusAccepted, StatusCancelled},
	StatusAccepted:   {StatusInProgress, StatusCompleted},
	StatusInProgress: {StatusCompleted},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

// CanTransition reports whether moving from one status to another is legal.
func (s RequestStatus) CanTransition(to RequestStatus) bool {
	for _, next := range requestTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether the status admits no further transitions.
func (s RequestStatus) Terminal() bool {
	return len(requestTransitions[s]) == 0
}

// AssistanceRequest is one roadside-help episode. ProviderID stays nil while
// the request is pending and is fixed once a provider accepts. Price is a
// decimal string in Bolivianos, matching how the store holds it.
type AssistanceRequest struct {
	ID          int64         `json:"id"`
	UserID      int64         `json:"user_id"`
	ProviderID  *int64        `json:"provider_id,omitempty"`
	VehicleID   *int64        `json:"vehicle_id,omitempty"`
	Type        ServiceType   `json:"type"`
	Description string        `json:"description"`
	Latitude    float64       `json:"latitude"`
	Longitude   float64       `json:"longitude"`
	Status      RequestStatus `json:"status"`
	Price       string        `json:"price"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// CreateAssistanceRequest is the payload a driver (or the AI assistant acting
// for them) submits to open a request. VehicleID is optional; the caller's
// first registered vehicle is used when absent.
type CreateAssistanceRequest struct {
	Latitude    float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude   float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
	ServiceType string  `json:"service_type" validate:"required,oneof=tow battery tire fuel mechanical_issue fuel_delivery locksmith"`
	Description string  `json:"description,omitempty"`
	VehicleID   *int64  `json:"vehicle_id,omitempty"`
}

// RequestStatusView is what the tracking poll reads: the request plus the
// assigned provider's public profile, when one exists.
type RequestStatusView struct {
	AssistanceRequest
	Provider *User `json:"provider,omitempty"`
}

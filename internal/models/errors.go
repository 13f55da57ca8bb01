package models

import "errors"

var ErrNotFound = errors.New("requested resource not found")
var ErrForbidden = errors.New("user does not have permission to access this resource")
var ErrConflict = errors.New("resource conflict, item already exists")
var ErrInvalidToken = errors.New("token not found or expired")

// ErrNoVehicle indicates that an operation needed a vehicle but the caller has
// none registered and supplied none.
var ErrNoVehicle = errors.New("no vehicle available")

// ErrNoProvider indicates a review was submitted for a request that has not
// been accepted by any provider yet.
var ErrNoProvider = errors.New("request has no assigned provider")

// ErrWorkshopNotFound indicates the caller does not own a workshop.
var ErrWorkshopNotFound = errors.New("workshop not found for user")

// ErrAssistantUnavailable indicates the hosted model call failed or returned
// content that could not be parsed.
var ErrAssistantUnavailable = errors.New("assistant service unavailable")

// ErrorResponse is the JSON body returned for any failed request.
type ErrorResponse struct {
	Message string `json:"message"`
}

package models

// ChatMessage is one turn of the assistant conversation.
type ChatMessage struct {
	ID      string `json:"id,omitempty"`
	Role    string `json:"role" validate:"required,oneof=user assistant system"`
	Content string `json:"content" validate:"required"`
}

// ChatRequest is the payload for the streamed assistant endpoint.
type ChatRequest struct {
	Messages       []ChatMessage `json:"messages" validate:"required,min=1,dive"`
	VehicleContext string        `json:"vehicle_context,omitempty"`
}

// MaintenanceItem is one recommended service in a maintenance report.
type MaintenanceItem struct {
	Service       string `json:"service"`
	Urgency       string `json:"urgency"`
	Reason        string `json:"reason"`
	EstimatedCost string `json:"estimatedCost"`
}

// MaintenanceReport is the fixed shape the hosted model must return for a
// maintenance analysis.
type MaintenanceReport struct {
	Summary  string            `json:"summary"`
	Services []MaintenanceItem `json:"services"`
}

// MaintenanceRequest asks for a preventive-maintenance analysis of a vehicle.
type MaintenanceRequest struct {
	VehicleDetails string `json:"vehicle_details" validate:"required"`
}

// WorkshopClassification is the result of running a raw workshop description
// through the hosted model: category tags plus a polished description.
type WorkshopClassification struct {
	Tags                []string `json:"tags"`
	ImprovedDescription string   `json:"improvedDescription"`
}

// AIErrorPayload is the structured error returned when the hosted model fails
// or produces unparseable output. Raw carries the offending text when present.
type AIErrorPayload struct {
	Error string `json:"error"`
	Raw   string `json:"raw,omitempty"`
}

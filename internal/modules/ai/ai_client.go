package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"hugo-automotriz/internal/models"
	"hugo-automotriz/internal/observability"
)

// WorkerClientInterface defines the contract for the hosted-model worker.
type WorkerClientInterface interface {
	Chat(ctx context.Context, req models.ChatRequest) (io.ReadCloser, error)
	Maintenance(ctx context.Context, vehicleDetails, serviceHistory string) (*models.MaintenanceReport, *models.AIErrorPayload)
	Classify(ctx context.Context, rawDescription string) (*models.WorkshopClassification, error)
}

// WorkerClient talks to the hosted-model worker over HTTP. The worker exposes
// a single POST endpoint: a body with action "maintenance" or "classify" gets
// a JSON reply, anything else is treated as chat and streamed back as
// text/event-stream.
type WorkerClient struct {
	baseURL string
	http    *http.Client
}

// NewWorkerClient creates a client for the worker at baseURL.
func NewWorkerClient(baseURL string) *WorkerClient {
	return &WorkerClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 120 * time.Second},
	}
}

type chatPayload struct {
	Messages       []models.ChatMessage `json:"messages"`
	VehicleContext string               `json:"vehicleContext,omitempty"`
}

type maintenancePayload struct {
	Action         string `json:"action"`
	VehicleDetails string `json:"vehicleDetails"`
	ServiceHistory string `json:"serviceHistory"`
}

type classifyPayload struct {
	Action      string `json:"action"`
	Description string `json:"description"`
}

// Chat forwards the conversation to the worker and returns the raw streamed
// body. The caller copies it to the client verbatim and must close it.
func (c *WorkerClient) Chat(ctx context.Context, req models.ChatRequest) (io.ReadCloser, error) {
	resp, err := c.post(ctx, chatPayload{Messages: req.Messages, VehicleContext: req.VehicleContext})
	if err != nil {
		observability.AssistantFailures.Inc()
		return nil, fmt.Errorf("ai.Chat: %w: %v", models.ErrAssistantUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		observability.AssistantFailures.Inc()
		return nil, fmt.Errorf("ai.Chat: %w: worker returned %s", models.ErrAssistantUnavailable, resp.Status)
	}
	return resp.Body, nil
}

// Maintenance asks the worker for a preventive-maintenance report. The model
// tends to wrap its JSON in markdown fences, so the reply is unfenced before
// parsing. Any failure comes back as a structured payload, never an error the
// handler could leak as a 500 stack.
func (c *WorkerClient) Maintenance(ctx context.Context, vehicleDetails, serviceHistory string) (*models.MaintenanceReport, *models.AIErrorPayload) {
	resp, err := c.post(ctx, maintenancePayload{
		Action:         "maintenance",
		VehicleDetails: vehicleDetails,
		ServiceHistory: serviceHistory,
	})
	if err != nil {
		observability.AssistantFailures.Inc()
		return nil, &models.AIErrorPayload{Error: "AI worker unreachable"}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		observability.AssistantFailures.Inc()
		return nil, &models.AIErrorPayload{Error: "AI worker read failed"}
	}
	if resp.StatusCode != http.StatusOK {
		observability.AssistantFailures.Inc()
		return nil, &models.AIErrorPayload{Error: "AI worker error", Raw: string(body)}
	}

	report, perr := ParseMaintenanceReport(string(body))
	if perr != nil {
		observability.AssistantFailures.Inc()
		return nil, perr
	}
	return report, nil
}

// Classify turns a raw workshop description into tags plus a polished
// description. On any failure it degrades to a generic local fallback so a
// settings update never fails because of the model.
func (c *WorkerClient) Classify(ctx context.Context, rawDescription string) (*models.WorkshopClassification, error) {
	fallback := &models.WorkshopClassification{
		Tags:                []string{"Taller General"},
		ImprovedDescription: rawDescription,
	}

	resp, err := c.post(ctx, classifyPayload{Action: "classify", Description: rawDescription})
	if err != nil {
		observability.AssistantFailures.Inc()
		return fallback, nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil || resp.StatusCode != http.StatusOK {
		observability.AssistantFailures.Inc()
		return fallback, nil
	}

	var out models.WorkshopClassification
	if err := json.Unmarshal([]byte(StripFences(string(body))), &out); err != nil || len(out.Tags) == 0 {
		observability.AssistantFailures.Inc()
		return fallback, nil
	}
	if out.ImprovedDescription == "" {
		out.ImprovedDescription = rawDescription
	}
	return &out, nil
}

func (c *WorkerClient) post(ctx context.Context, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.http.Do(req)
}

// StripFences removes markdown code-fence markers from a model reply, so that
// "```json\n{...}\n```" parses the same as a bare object.
func StripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// ParseMaintenanceReport validates that a model reply is the expected report
// shape. A reply that does not parse, or parses to something without a summary
// or services, is returned as a structured error carrying the raw text.
func ParseMaintenanceReport(raw string) (*models.MaintenanceReport, *models.AIErrorPayload) {
	cleaned := StripFences(raw)

	var report models.MaintenanceReport
	if err := json.Unmarshal([]byte(cleaned), &report); err != nil {
		return nil, &models.AIErrorPayload{Error: "AI generated invalid JSON", Raw: cleaned}
	}
	if report.Summary == "" || len(report.Services) == 0 {
		return nil, &models.AIErrorPayload{Error: "AI report incomplete", Raw: cleaned}
	}
	for _, item := range report.Services {
		switch item.Urgency {
		case "low", "medium", "high":
		default:
			return nil, &models.AIErrorPayload{Error: "AI report has invalid urgency", Raw: cleaned}
		}
	}
	return &report, nil
}

package ai

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"hugo-automotriz/internal/models"

	"github.com/google/uuid"
)

const historyLimit = 5

// ServiceInterface defines the contract for the assistant.
type ServiceInterface interface {
	Chat(ctx context.Context, req models.ChatRequest) (io.ReadCloser, error)
	Maintenance(ctx context.Context, userID int64, req models.MaintenanceRequest) (*models.MaintenanceReport, *models.AIErrorPayload)
}

// Service implements the assistant on top of the worker client.
type Service struct {
	repo   RepositoryInterface
	worker WorkerClientInterface
	logger *slog.Logger
}

// NewService creates a new ai service.
func NewService(repo RepositoryInterface, worker WorkerClientInterface, logger *slog.Logger) *Service {
	return &Service{repo: repo, worker: worker, logger: logger}
}

// Chat forwards the conversation to the hosted model. Messages without an id
// get one assigned before the call so the client can key its transcript.
func (s *Service) Chat(ctx context.Context, req models.ChatRequest) (io.ReadCloser, error) {
	for i := range req.Messages {
		if req.Messages[i].ID == "" {
			req.Messages[i].ID = uuid.NewString()
		}
	}
	return s.worker.Chat(ctx, req)
}

// Maintenance builds the caller's service history and asks the model for a
// preventive-maintenance report.
func (s *Service) Maintenance(ctx context.Context, userID int64, req models.MaintenanceRequest) (*models.MaintenanceReport, *models.AIErrorPayload) {
	history := s.serviceHistory(ctx, userID)
	report, aiErr := s.worker.Maintenance(ctx, req.VehicleDetails, history)
	if aiErr != nil {
		s.logger.Warn("maintenance analysis failed", "user_id", userID, "error", aiErr.Error)
		return nil, aiErr
	}
	return report, nil
}

// serviceHistory summarizes the caller's five most recent appointments, one
// line each. A missing or failed read degrades to "No disponible" rather than
// blocking the analysis.
func (s *Service) serviceHistory(ctx context.Context, userID int64) string {
	entries, err := s.repo.ListRecentHistory(ctx, userID, historyLimit)
	if err != nil {
		s.logger.Warn("service history unavailable", "user_id", userID, "error", err)
		return "No disponible"
	}
	if len(entries) == 0 {
		return "No disponible"
	}

	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = fmt.Sprintf("- %s: %s (%s %s)", e.Date.Format("02/01/2006"), e.ServiceName, e.Make, e.Model)
	}
	return strings.Join(lines, "\n")
}

// FILE: internal/service/report_service.go
package service

import (
	"context"
	"strings"
	"time"

	"kelly-ai-client/internal/dto"
	"kelly-ai-client/internal/pkg/logger"
	"kelly-ai-client/internal/repository/contract"
	"kelly-ai-client/pkg/events"

	"github.com/google/uuid"
)

const (
	msgDescribeIssue  = "Please describe the issue"
	recentErrorsLimit = 5
)

type IReportService interface {
	Submit(ctx context.Context, req *dto.SubmitReportRequest) (*dto.SubmitReportResponse, error)
}

type reportService struct {
	publisher   IEventPublisher // nil when no broker is configured
	credentials contract.CredentialRepository
	logger      logger.ILogger
}

func NewReportService(publisher IEventPublisher, credentials contract.CredentialRepository, log logger.ILogger) IReportService {
	return &reportService{
		publisher:   publisher,
		credentials: credentials,
		logger:      log,
	}
}

// Submit sends the report to the broker with the user's email and the most
// recent error log lines. Delivery problems are logged; the user is always
// thanked once the text passes validation.
func (s *reportService) Submit(ctx context.Context, req *dto.SubmitReportRequest) (*dto.SubmitReportResponse, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, &ValidationError{Message: msgDescribeIssue}
	}

	res := &dto.SubmitReportResponse{
		Id:          uuid.NewString(),
		SubmittedAt: time.Now(),
	}

	email, err := s.credentials.UserEmail(ctx)
	if err != nil {
		s.logger.Warn("ReportService", "Could not read user email", map[string]interface{}{"error": err.Error()})
	}

	recent := []string{}
	if entries, err := s.logger.RecentErrors(recentErrorsLimit); err == nil {
		for _, e := range entries {
			recent = append(recent, e.Timestamp+" "+e.Module+": "+e.Message)
		}
	}

	data := map[string]interface{}{
		"report_id":     res.Id,
		"text":          text,
		"user_email":    email,
		"recent_errors": recent,
	}

	if s.publisher == nil {
		s.logger.Info("ReportService", "Issue report (no broker configured)", data)
		return res, nil
	}
	if err := s.publisher.Publish(ctx, events.New(events.IssueReported, data)); err != nil {
		s.logger.Error("ReportService", "Failed to publish issue report", map[string]interface{}{
			"report_id": res.Id,
			"error":     err.Error(),
		})
		return res, nil
	}
	res.Delivered = true
	return res, nil
}

package notify

import (
	"context"
	"fmt"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// ServiceInterface defines the contract for outbound customer notifications.
type ServiceInterface interface {
	AppointmentConfirmed(ctx context.Context, toEmail, clientName, serviceName string, date time.Time) error
}

// SESService sends notification emails through Amazon SES.
type SESService struct {
	client *sesv2.Client
	from   string
}

// NewSESService builds a notifier using the ambient AWS credential chain.
func NewSESService(ctx context.Context, region, fromEmail string) (*SESService, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("notify.NewSESService: %w", err)
	}
	return &SESService{client: sesv2.NewFromConfig(cfg), from: fromEmail}, nil
}

// AppointmentConfirmed emails the client that their workshop appointment is
// booked. Failures are the caller's to log; nothing is retried.
func (s *SESService) AppointmentConfirmed(ctx context.Context, toEmail, clientName, serviceName string, date time.Time) error {
	subject := "Cita confirmada - Hugo Automotriz"
	body := fmt.Sprintf(
		"Hola %s,\n\nTu cita para %s fue confirmada para el %s.\n\nHugo Automotriz",
		clientName, serviceName, date.Format("02/01/2006 15:04"),
	)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &s.from,
		Destination:      &types.Destination{ToAddresses: []string{toEmail}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body:    &types.Body{Text: &types.Content{Data: &body}},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("notify.AppointmentConfirmed: %w", err)
	}
	return nil
}

// Noop satisfies ServiceInterface when no email configuration is present.
type Noop struct{}

func (Noop) AppointmentConfirmed(context.Context, string, string, string, time.Time) error {
	return nil
}

package service

import (
	"context"
	"fmt"

	"fleetrent-backend/internal/domain"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// mailSender is the part of the SendGrid client the email service uses.
type mailSender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

type emailService struct {
	client    mailSender
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &emailService{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *emailService) SendReservationConfirmation(ctx context.Context, customer *domain.Customer, res *domain.Reservation, vehicle *domain.Vehicle) error {
	subject := fmt.Sprintf("Reservation %s confirmed", res.Number)
	plainText := fmt.Sprintf("Hello %s,\n\nYour reservation %s for the %s %s (%s) is confirmed.\n\nPickup: %s\nReturn: %s\nTotal: %s\n\nBest regards,\nThe FleetRent Team",
		customer.Name, res.Number, vehicle.Make, vehicle.Model, vehicle.Plate,
		res.Interval.Start().Format(domain.DateLayout), res.Interval.End().Format(domain.DateLayout),
		res.TotalPrice.StringFixed(2))
	htmlContent := fmt.Sprintf(`
		<html>
			<body>
				<h2>Reservation confirmed</h2>
				<p>Your reservation <strong>%s</strong> for the <strong>%s %s</strong> is confirmed.</p>
				<p>Pickup: %s<br/>Return: %s<br/>Total: %s</p>
			</body>
		</html>
	`, res.Number, vehicle.Make, vehicle.Model,
		res.Interval.Start().Format(domain.DateLayout), res.Interval.End().Format(domain.DateLayout),
		res.TotalPrice.StringFixed(2))

	return s.send(ctx, customer.Email, customer.Name, subject, plainText, htmlContent)
}

func (s *emailService) SendReservationCancellation(ctx context.Context, customer *domain.Customer, res *domain.Reservation) error {
	subject := fmt.Sprintf("Reservation %s cancelled", res.Number)
	plainText := fmt.Sprintf("Hello %s,\n\nYour reservation %s (%s) has been cancelled.\n\nBest regards,\nThe FleetRent Team",
		customer.Name, res.Number, res.Interval)
	htmlContent := fmt.Sprintf(`
		<html>
			<body>
				<h2>Reservation cancelled</h2>
				<p>Your reservation <strong>%s</strong> (%s) has been cancelled.</p>
			</body>
		</html>
	`, res.Number, res.Interval)

	return s.send(ctx, customer.Email, customer.Name, subject, plainText, htmlContent)
}

func (s *emailService) send(ctx context.Context, to, toName, subject, plainText, htmlContent string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, htmlContent)

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

type noopEmailService struct{}

// NewNoopEmailService returns an EmailService that drops every message. It is
// used when no SendGrid key is configured.
func NewNoopEmailService() EmailService {
	return noopEmailService{}
}

func (noopEmailService) SendReservationConfirmation(ctx context.Context, customer *domain.Customer, res *domain.Reservation, vehicle *domain.Vehicle) error {
	return nil
}

func (noopEmailService) SendReservationCancellation(ctx context.Context, customer *domain.Customer, res *domain.Reservation) error {
	return nil
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type emailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &emailService{apiKey: apiKey, fromEmail: fromEmail, fromName: fromName}
}

func (s *emailService) send(to, toName, subject, body string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, body, "")

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *emailService) SendRentalCreated(ctx context.Context, to, customerName, rentalNumber string, start, end time.Time) error {
	body := fmt.Sprintf("Hello %s,\n\nYour rental %s has been registered for %s through %s. We will notify you once it is confirmed.\n\nBest regards,\nThe CarFleet Team",
		customerName, rentalNumber, start.Format("2006-01-02"), end.Format("2006-01-02"))
	return s.send(to, customerName, fmt.Sprintf("Rental %s received", rentalNumber), body)
}

func (s *emailService) SendRentalConfirmed(ctx context.Context, to, customerName, rentalNumber string) error {
	body := fmt.Sprintf("Hello %s,\n\nYour rental %s has been confirmed. Please bring your license when picking up the car.\n\nBest regards,\nThe CarFleet Team",
		customerName, rentalNumber)
	return s.send(to, customerName, fmt.Sprintf("Rental %s confirmed", rentalNumber), body)
}

func (s *emailService) SendRentalExtended(ctx context.Context, to, customerName, rentalNumber string, newEnd time.Time) error {
	body := fmt.Sprintf("Hello %s,\n\nYour rental %s has been extended. The new return date is %s.\n\nBest regards,\nThe CarFleet Team",
		customerName, rentalNumber, newEnd.Format("2006-01-02"))
	return s.send(to, customerName, fmt.Sprintf("Rental %s extended", rentalNumber), body)
}

func (s *emailService) SendRentalCancelled(ctx context.Context, to, customerName, rentalNumber, reason string) error {
	body := fmt.Sprintf("Hello %s,\n\nYour rental %s has been cancelled.", customerName, rentalNumber)
	if reason != "" {
		body += fmt.Sprintf("\n\nReason: %s", reason)
	}
	body += "\n\nBest regards,\nThe CarFleet Team"
	return s.send(to, customerName, fmt.Sprintf("Rental %s cancelled", rentalNumber), body)
}

func (s *emailService) SendReturnReminder(ctx context.Context, to, customerName, rentalNumber string, end time.Time) error {
	body := fmt.Sprintf("Hello %s,\n\nThis is a reminder that your rental %s is due back on %s.\n\nBest regards,\nThe CarFleet Team",
		customerName, rentalNumber, end.Format("2006-01-02"))
	return s.send(to, customerName, fmt.Sprintf("Rental %s return reminder", rentalNumber), body)
}

func (s *emailService) SendOverdueNotice(ctx context.Context, to, customerName, rentalNumber string, end time.Time) error {
	body := fmt.Sprintf("Hello %s,\n\nYour rental %s was due back on %s and has not been returned. Please contact the branch as soon as possible.\n\nBest regards,\nThe CarFleet Team",
		customerName, rentalNumber, end.Format("2006-01-02"))
	return s.send(to, customerName, fmt.Sprintf("Rental %s overdue", rentalNumber), body)
}

// Package sender отправляет письма о продлении по уведомлениям планировщика.
package sender

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/gymhub/internal/lib/sl"
	"github.com/magabrotheeeer/gymhub/internal/lib/smtp"
	"github.com/magabrotheeeer/gymhub/internal/models"
)

// Service — отправитель писем.
type Service struct {
	transport smtp.TransportInterface
	publicURL string
	log       *slog.Logger
}

// NewService создаёт Service. publicURL — внешний адрес сайта для ссылки продления.
func NewService(transport smtp.TransportInterface, publicURL string, log *slog.Logger) *Service {
	return &Service{
		transport: transport,
		publicURL: strings.TrimRight(publicURL, "/"),
		log:       log,
	}
}

// Handler возвращает обработчик очереди для вида уведомления kind.
func (s *Service) Handler(kind string) (func(ctx context.Context, body []byte) error, error) {
	switch kind {
	case models.NotificationTrialExpired:
		return s.SendTrialExpired, nil
	case models.NotificationMembershipDue:
		return s.SendMembershipDue, nil
	default:
		return nil, fmt.Errorf("sender.Handler: unknown notification kind %q", kind)
	}
}

// SendTrialExpired уведомляет владельца об окончании пробного периода.
func (s *Service) SendTrialExpired(ctx context.Context, body []byte) error {
	const op = "sender.SendTrialExpired"
	n, err := decode(body)
	if err != nil {
		s.log.Error("failed to unmarshal message body", slog.String("op", op), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	subject := "Пробный период GymHub закончился"
	text := fmt.Sprintf("Здравствуйте, %s!\r\n\r\n"+
		"Пробный период зала %q закончился %s.\r\n"+
		"Данные сохранены. Чтобы продолжить работу, выберите тариф: %s\r\n",
		n.Name, n.GymName, n.DueAt.Format("02.01.2006 15:04"), s.renewURL(n))

	if err := s.sendEmail(ctx, n.Email, subject, text); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SendMembershipDue напоминает участнику об окончании оплаченного периода.
func (s *Service) SendMembershipDue(ctx context.Context, body []byte) error {
	const op = "sender.SendMembershipDue"
	n, err := decode(body)
	if err != nil {
		s.log.Error("failed to unmarshal message body", slog.String("op", op), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	subject := "Абонемент требует продления"
	text := fmt.Sprintf("Здравствуйте, %s!\r\n\r\n"+
		"Срок вашего абонемента в зале %q истёк %s.\r\n"+
		"Продлить его можно у администратора зала или по ссылке: %s\r\n",
		n.Name, n.GymName, n.DueAt.Format("02.01.2006"), s.renewURL(n))

	if err := s.sendEmail(ctx, n.Email, subject, text); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Service) renewURL(n *models.Notification) string {
	return s.publicURL + n.RenewPath
}

func decode(body []byte) (*models.Notification, error) {
	var n models.Notification
	if err := json.Unmarshal(body, &n); err != nil {
		return nil, fmt.Errorf("error unmarshalling message: %w", err)
	}
	if n.Email == "" {
		return nil, fmt.Errorf("notification for gym %s has no recipient", n.GymID)
	}
	return &n, nil
}

func (s *Service) sendEmail(ctx context.Context, to, subject, bodyText string) error {
	from := s.transport.GetSMTPUser()
	msg := strings.Join([]string{
		"From: " + from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect(ctx)
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(from); err != nil {
		s.log.Error("failed to set MAIL FROM", slog.String("from", from), sl.Err(err))
		return err
	}
	if err := client.Rcpt(to); err != nil {
		s.log.Error("failed to set RCPT TO", slog.String("recipient", to), sl.Err(err))
		return err
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get Data writer", sl.Err(err))
		return err
	}
	if _, err := wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}
	if err := wc.Close(); err != nil {
		s.log.Error("failed to close Data writer", sl.Err(err))
		return err
	}
	if err := client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", slog.String("to", to))
	return nil
}

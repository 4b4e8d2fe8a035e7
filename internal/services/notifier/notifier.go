// Package services содержит сервис отправки почтовых уведомлений
// об истёкших абонементах.
package services

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strings"

	"github.com/magabrotheeeer/gym-crm/internal/config"
	"github.com/magabrotheeeer/gym-crm/internal/lib/sl"
	"github.com/magabrotheeeer/gym-crm/internal/metrics"
	"github.com/magabrotheeeer/gym-crm/internal/models"
)

// NotifierService отправляет письма владельцам истёкших абонементов.
type NotifierService struct {
	cfg *config.Config
	log *slog.Logger
}

// NewNotifierService создает новый экземпляр NotifierService.
func NewNotifierService(cfg *config.Config, log *slog.Logger) *NotifierService {
	return &NotifierService{
		cfg: cfg,
		log: log,
	}
}

// SendExpiredMembershipNotice разбирает сообщение брокера и отправляет
// письмо владельцу абонемента через SMTP с STARTTLS.
func (s *NotifierService) SendExpiredMembershipNotice(body []byte) error {
	var message models.MembershipExpiryInfo
	if err := json.Unmarshal(body, &message); err != nil {
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	to := []string{message.Email}

	subject := "Уведомление об окончании абонемента"
	bodyText := fmt.Sprintf("Здравствуйте, %s!\n\nСрок действия вашего абонемента %s истёк %s.\n\nПожалуйста, продлите его, чтобы продолжить посещать занятия.",
		message.Name, message.Type, message.EndDate.Format("02.01.2006"))

	msg := strings.Join([]string{
		fmt.Sprintf("From: %s", s.cfg.SMTPUser),
		fmt.Sprintf("To: %s", strings.Join(to, ";")),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	addr := s.cfg.SMTPHost + ":" + s.cfg.SMTPPort

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		s.log.Error("failed to dial SMTP server", sl.Err(err))
		return fmt.Errorf("failed to dial SMTP server: %w", err)
	}

	client, err := smtp.NewClient(conn, s.cfg.SMTPHost)
	if err != nil {
		s.log.Error("failed to create SMTP client", sl.Err(err))
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Close()

	tlsConfig := &tls.Config{
		ServerName: s.cfg.SMTPHost,
	}
	ok, _ := client.Extension("STARTTLS")
	if !ok {
		s.log.Error("SMTP server does not support STARTTLS")
		return fmt.Errorf("smtp server does not support STARTTLS")
	}
	if err = client.StartTLS(tlsConfig); err != nil {
		s.log.Error("failed to start TLS", sl.Err(err))
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	auth := smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err = client.Auth(auth); err != nil {
		s.log.Error("smtp auth failed", sl.Err(err))
		return fmt.Errorf("smtp auth failed: %w", err)
	}

	if err = client.Mail(s.cfg.SMTPUser); err != nil {
		s.log.Error("failed to set mail sender", sl.Err(err))
		return fmt.Errorf("failed to set mail sender: %w", err)
	}

	for _, addr := range to {
		if err = client.Rcpt(addr); err != nil {
			s.log.Error("failed to set recipient", sl.Err(err))
			return fmt.Errorf("failed to set recipient %s: %w", addr, err)
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get write closer", sl.Err(err))
		return fmt.Errorf("failed to get write closer: %w", err)
	}
	_, err = wc.Write([]byte(msg))
	if err != nil {
		s.log.Error("failed to write message", sl.Err(err))
		return fmt.Errorf("failed to write message: %w", err)
	}
	err = wc.Close()
	if err != nil {
		s.log.Error("failed to close write closer", sl.Err(err))
		return fmt.Errorf("failed to close write closer: %w", err)
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return fmt.Errorf("failed to quit SMTP client: %w", err)
	}

	metrics.NotificationsSent.Inc()
	s.log.Info("email sent successfully", "to", to)
	return nil
}

// Package sender реализует отправку email-уведомлений по событиям
// учётных записей, полученным из очереди.
package sender

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	smtplib "github.com/magabrotheeeer/smart-wallet/internal/lib/smtp"
	"github.com/magabrotheeeer/smart-wallet/internal/lib/sl"
	"github.com/magabrotheeeer/smart-wallet/internal/models"
)

// Service отправляет письма по событиям учётных записей.
type Service struct {
	transport smtplib.TransportInterface
	log       *slog.Logger
}

// New создает новый экземпляр Service.
func New(transport smtplib.TransportInterface, log *slog.Logger) *Service {
	return &Service{transport: transport, log: log}
}

// SendRegistrationEmail отправляет приветственное письмо по событию
// регистрации. Событие без email пропускается: у нового пользователя
// контакт появляется только после редактирования профиля.
func (s *Service) SendRegistrationEmail(body []byte) error {
	var event models.NotificationEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}
	if event.Email == "" {
		s.log.Info("skipping registration email, no contact",
			slog.String("user_uid", event.UserUID))
		return nil
	}

	subject := "Добро пожаловать в Smart Wallet"
	bodyText := fmt.Sprintf("Здравствуйте, %s!\n\nВаша учётная запись создана. Вам открыт первый кошелёк и подключён тариф DEFAULT.",
		event.Username)

	return s.sendEmail([]string{event.Email}, subject, bodyText)
}

// SendUpgradeEmail отправляет письмо о смене тарифа подписки.
func (s *Service) SendUpgradeEmail(body []byte) error {
	var event models.NotificationEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}
	if event.Email == "" {
		s.log.Info("skipping upgrade email, no contact",
			slog.String("user_uid", event.UserUID))
		return nil
	}

	subject := "Ваш тариф Smart Wallet изменён"
	bodyText := fmt.Sprintf("Здравствуйте, %s!\n\nВаша подписка обновлена: %s.\n\nСпасибо, что пользуетесь Smart Wallet.",
		event.Username, event.Details)

	return s.sendEmail([]string{event.Email}, subject, bodyText)
}

func (s *Service) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", slog.Any("to", to))
	return nil
}

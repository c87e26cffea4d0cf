// Package notificationsender собирает сервис отправки email-уведомлений:
// подключение к RabbitMQ, SMTP транспорт и потребителей очередей.
package notificationsender

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/smart-wallet/internal/config"
	"github.com/magabrotheeeer/smart-wallet/internal/lib/rabbitmq"
	smtplib "github.com/magabrotheeeer/smart-wallet/internal/lib/smtp"
	senderservice "github.com/magabrotheeeer/smart-wallet/internal/services/sender"
)

// App сервис отправки уведомлений.
type App struct {
	conn   *amqp.Connection
	ch     *amqp.Channel
	sender *senderservice.Service
	logger *slog.Logger
}

// New собирает приложение из конфигурации.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}

	queues := rabbitmq.GetAccountEventQueues()
	ch, err := rabbitmq.SetupChannel(conn, queues)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	transport := smtplib.NewTransport(cfg, logger)
	sender := senderservice.New(transport, logger)

	return &App{
		conn:   conn,
		ch:     ch,
		sender: sender,
		logger: logger,
	}, nil
}

// Run запускает потребителей очередей и ждёт отмены контекста.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.ch, "account.registered", a.sender.SendRegistrationEmail)
	if err != nil {
		a.logger.Error("failed to start account.registered consumer", slog.Any("err", err))
		return err
	}

	err = rabbitmq.ConsumerMessage(ctx, a.ch, "account.upgraded", a.sender.SendUpgradeEmail)
	if err != nil {
		a.logger.Error("failed to start account.upgraded consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("notification sender shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}

	return nil
}

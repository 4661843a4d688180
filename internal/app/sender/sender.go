// Package sender собирает приложение почтовых уведомлений: подключается
// к брокеру событий и рассылает письма о принятии и отзыве донорства.
package sender

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/blood-donation-backend/internal/config"
	"github.com/magabrotheeeer/blood-donation-backend/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/blood-donation-backend/internal/lib/smtp"
	senderservice "github.com/magabrotheeeer/blood-donation-backend/internal/services/sender"
)

// App инкапсулирует соединение с брокером и сервис рассылки.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.SenderService
	logger        *slog.Logger
}

// New создает приложение рассылки уведомлений.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetDonationQueues())
	if err != nil {
		conn.Close()
		return nil, err
	}

	newTransport := smtp.NewTransport(cfg, logger)
	senderService := senderservice.NewSenderService(logger, newTransport)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderService,
		logger:        logger,
	}, nil
}

// Run запускает потребителей очередей и блокируется до отмены контекста.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.ch, "donation.accepted", a.senderService.SendDonationAccepted)
	if err != nil {
		a.logger.Error("failed to start donation.accepted consumer", slog.Any("err", err))
		return err
	}

	err = rabbitmq.ConsumerMessage(ctx, a.ch, "donation.withdrawn", a.senderService.SendDonationWithdrawn)
	if err != nil {
		a.logger.Error("failed to start donation.withdrawn consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("Sender service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}

	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}

	return nil
}

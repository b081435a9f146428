package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/winpay/platform/internal/domain"
	"github.com/winpay/platform/internal/infra"
)

const consumerGroup = "winpay-outbox-consumer"

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("outbox consumer failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := infra.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if !cfg.KafkaEnabled {
		return fmt.Errorf("KAFKA_ENABLED must be true for the outbox consumer")
	}

	aggregates := []domain.AggregateType{
		domain.AggregateAccount,
		domain.AggregateLedger,
		domain.AggregateRound,
		domain.AggregateGrid,
		domain.AggregatePayment,
	}

	var wg sync.WaitGroup
	for _, agg := range aggregates {
		topic := "winpay." + string(agg)
		consumer := infra.NewKafkaConsumer(cfg.KafkaBrokers, topic, consumerGroup, true, logger)

		wg.Add(1)
		go func(topic string, c *infra.KafkaConsumer) {
			defer wg.Done()
			defer c.Close()
			consume(ctx, topic, c, logger)
		}(topic, consumer)
	}

	logger.Info("outbox-consumer started", "brokers", cfg.KafkaBrokers, "topics", len(aggregates))
	wg.Wait()
	logger.Info("outbox-consumer shutting down")
	return nil
}

func consume(ctx context.Context, topic string, c *infra.KafkaConsumer, logger *slog.Logger) {
	for {
		msg, err := c.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			logger.Error("read message", "topic", topic, "error", err)
			continue
		}
		logger.Info("outbox event",
			"topic", topic,
			"partition", msg.Partition,
			"offset", msg.Offset,
			"key", string(msg.Key),
			"bytes", len(msg.Value),
		)
	}
}

package feed

import (
	"context"
	"errors"

	"github.com/segmentio/kafka-go"

	"market-book/src/config"
)

// MessageReader is the part of kafka.Reader the Consumer uses.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer applies feed messages read from a Kafka topic. A single partition
// keeps the market's event order; offsets are committed after each apply.
type Consumer struct {
	reader  MessageReader
	applier *Applier
}

func NewConsumer(cfg config.FeedConfig, applier *Applier) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       cfg.Topic,
		GroupID:     cfg.ConsumerGroup,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.FirstOffset,
	})
	return NewConsumerWithReader(reader, applier)
}

func NewConsumerWithReader(reader MessageReader, applier *Applier) *Consumer {
	return &Consumer{reader: reader, applier: applier}
}

// Run consumes until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	log := c.applier.log.With().Str("source", "kafka").Logger()
	log.Info().Msg("Feed consumer started")

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				log.Info().Msg("Feed consumer stopped")
				return nil
			}
			log.Error().Err(err).Msg("Failed to fetch feed message")
			return err
		}

		ev, err := Decode(msg.Value)
		if err != nil {
			log.Warn().
				Err(err).
				Int("partition", msg.Partition).
				Int64("offset", msg.Offset).
				Msg("Skipping malformed feed message")
		} else {
			_ = c.applier.Apply(ev)
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Error().
				Err(err).
				Int64("offset", msg.Offset).
				Msg("Failed to commit feed message")
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}

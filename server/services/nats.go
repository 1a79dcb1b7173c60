package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/JRI98/chatrescuer/internal/chat"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const (
	eventsStream    = "EVENTS"
	eventsFetchSize = 20
)

func eventsSubject(userID string) string {
	return fmt.Sprintf("%s.%s", eventsStream, userID)
}

func eventsConsumer(userID string) string {
	return fmt.Sprintf("%s_%s", eventsStream, userID)
}

// NATSService keeps one work-queue subject per user on a JetStream stream.
// Events wait there until the user's durable consumer fetches them.
type NATSService struct {
	nc *nats.Conn
	js jetstream.JetStream
}

func NewNATSService(ctx context.Context, natsURL string) (*NATSService, error) {
	nc, err := nats.Connect(natsURL)
	if err != nil {
		return nil, fmt.Errorf("could not connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("could not connect to NATS JetStream: %w", err)
	}

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      eventsStream,
		Subjects:  []string{eventsStream + ".*"},
		Retention: jetstream.WorkQueuePolicy,
		MaxAge:    7 * 24 * time.Hour,
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("could not create stream: %w", err)
	}

	return &NATSService{
		nc: nc,
		js: js,
	}, nil
}

func (s *NATSService) Publish(ctx context.Context, userID string, event chat.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("could not marshal event: %w", err)
	}

	if _, err := s.js.Publish(ctx, eventsSubject(userID), data); err != nil {
		return fmt.Errorf("could not publish event: %w", err)
	}

	return nil
}

func (s *NATSService) Receive(ctx context.Context, userID string) ([]chat.Event, error) {
	consumer, err := s.js.CreateOrUpdateConsumer(ctx, eventsStream, jetstream.ConsumerConfig{
		Name:          eventsConsumer(userID),
		Durable:       eventsConsumer(userID),
		FilterSubject: eventsSubject(userID),
		AckPolicy:     jetstream.AckExplicitPolicy,
	})
	if err != nil {
		return nil, fmt.Errorf("could not get consumer: %w", err)
	}

	messages, err := consumer.FetchNoWait(eventsFetchSize)
	if err != nil {
		return nil, fmt.Errorf("could not fetch events: %w", err)
	}

	events := make([]chat.Event, 0, eventsFetchSize)
	for msg := range messages.Messages() {
		var event chat.Event
		if err := json.Unmarshal(msg.Data(), &event); err != nil {
			if err := msg.Term(); err != nil {
				return nil, fmt.Errorf("could not drop undecodable event: %w", err)
			}
			continue
		}
		events = append(events, event)

		if err := msg.Ack(); err != nil {
			return nil, fmt.Errorf("could not ack event: %w", err)
		}
	}
	if err := messages.Error(); err != nil {
		return nil, fmt.Errorf("could not fetch events: %w", err)
	}

	return events, nil
}

func (s *NATSService) Close() {
	s.nc.Close()
}

// NopFeed is used when no NATS server is configured. It drops every event.
type NopFeed struct{}

func (NopFeed) Publish(context.Context, string, chat.Event) error {
	return nil
}

func (NopFeed) Receive(context.Context, string) ([]chat.Event, error) {
	return []chat.Event{}, nil
}

func (NopFeed) Close() {}

package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/participa-df/ouvidoria"
)

// statusChannel carries manifestation status events across instances.
const statusChannel = "ouvidoria:status"

type SignalService struct {
	rdb *redis.Client
}

func NewSignalService(redisClient *redis.Client) *SignalService {
	return &SignalService{
		rdb: redisClient,
	}
}

// Publish broadcasts a status event to every realtime subscriber.
func (s *SignalService) Publish(ctx context.Context, event ouvidoria.Event) error {

	jsonstr, err := json.Marshal(event)
	if err != nil {
		return err
	}

	err = s.rdb.Publish(ctx, statusChannel, jsonstr).Err()
	if err != nil {
		return err
	}

	return nil
}

// Realtime forwards status events to response, filtered by the protocol
// prefixes most recently received on request. Runs until ctx is done or
// request closes.
func (s *SignalService) Realtime(ctx context.Context, request <-chan []string, response chan<- ouvidoria.Event) {
	pubsub := s.rdb.Subscribe(ctx, statusChannel)
	defer pubsub.Close()

	events := pubsub.Channel()
	var prefixes []string

	for {
		select {
		case <-ctx.Done():
			return
		case p, ok := <-request:
			if !ok {
				return
			}
			prefixes = p
		case msg, ok := <-events:
			if !ok {
				return
			}

			var event ouvidoria.Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				slog.ErrorContext(
					ctx, "Failed to decode status event",
					slog.String("error", err.Error()),
					slog.String("module", "signal"),
				)
				continue
			}

			if !matchesAny(prefixes, event.Protocolo) {
				continue
			}

			select {
			case response <- event:
			case <-ctx.Done():
				return
			}
		}
	}
}

func matchesAny(prefixes []string, protocolo string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(protocolo, p) {
			return true
		}
	}
	return false
}

package services

import (
	"context"
	"fmt"

	"github.com/H4ZEY86/Opure-Nexus-sub003/pkg/logx"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Publisher announces room lifecycle events to sibling services.
type Publisher interface {
	Publish(message string) error
}

// PublisherService fans lifecycle events out over Redis pub/sub so the
// marketplace and dashboard services can react to rooms opening and
// games ending without polling.
type PublisherService struct {
	broker *redis.Client
}

func NewPublisherService(host, port, password string) PublisherService {
	broker := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: password,
		DB:       0,
	})
	return PublisherService{broker: broker}
}

func (publisherService PublisherService) Publish(message string) error {
	if message == "" {
		return nil
	}

	err := publisherService.broker.Publish(context.Background(), "session-service", message).Err()

	if err != nil {
		logx.Logger.Error(
			err.Error(),
			zap.String("desc", "could not publish message"),
			zap.String("message", message),
		)

		return err
	}

	return nil
}

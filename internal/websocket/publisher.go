package websocket

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/rua702356-pixel/Web-Japanese/internal/notify"
)

// ToastPublisher implements notify.Notifier by publishing toasts to the
// user's redis channel, where the hub picks them up for delivery.
type ToastPublisher struct {
	redisClient *redis.Client
	userID      uuid.UUID
}

func NewToastPublisher(redisClient *redis.Client, userID uuid.UUID) *ToastPublisher {
	return &ToastPublisher{redisClient: redisClient, userID: userID}
}

func (p *ToastPublisher) Notify(kind notify.Kind, title, description string) {
	toast := notify.Toast{Kind: kind, Title: title, Description: description}

	data, err := json.Marshal(toast)
	if err != nil {
		return
	}

	channel := "toasts:" + p.userID.String()
	if err := p.redisClient.Publish(context.Background(), channel, data).Err(); err != nil {
		log.Printf("Failed to publish toast for user %s: %v", p.userID, err)
	}
}

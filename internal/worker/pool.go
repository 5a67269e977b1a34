package worker

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rua702356-pixel/Web-Japanese/internal/models"
	"github.com/rua702356-pixel/Web-Japanese/internal/repository"
)

const progressQueue = "queue:card-progress"

// Pool drains queued card progress updates and persists them. Study
// sessions push progress fire-and-forget so answering a card never
// waits on the database.
type Pool struct {
	redis       *redis.Client
	cardRepo    *repository.CardRepo
	workerCount int
	stopChan    chan struct{}
}

func NewPool(redisClient *redis.Client, cardRepo *repository.CardRepo, workerCount int) *Pool {
	return &Pool{
		redis:       redisClient,
		cardRepo:    cardRepo,
		workerCount: workerCount,
		stopChan:    make(chan struct{}),
	}
}

func (p *Pool) Start() {
	for i := 0; i < p.workerCount; i++ {
		go p.worker(i)
	}

	log.Printf("Started %d worker goroutines", p.workerCount)
}

func (p *Pool) Stop() {
	close(p.stopChan)
}

func (p *Pool) worker(id int) {
	for {
		select {
		case <-p.stopChan:
			log.Printf("Worker %d shutting down", id)
			return
		default:
		}

		ctx := context.Background()

		// BLPOP with 30s timeout
		result, err := p.redis.BLPop(ctx, 30*time.Second, progressQueue).Result()
		if err != nil {
			continue // Timeout or error, retry
		}

		if len(result) < 2 {
			continue
		}

		var progress models.CardProgress
		if err := json.Unmarshal([]byte(result[1]), &progress); err != nil {
			log.Printf("Worker %d: failed to parse progress update: %v", id, err)
			continue
		}

		if err := p.cardRepo.SaveProgress(ctx, progress); err != nil {
			log.Printf("Worker %d: failed to save progress for card %s: %v", id, progress.CardID, err)
			continue
		}
	}
}

// Enqueue pushes a progress update onto the queue. Errors are logged,
// not returned; a dropped update only delays mastery tracking.
func Enqueue(redisClient *redis.Client, progress models.CardProgress) {
	data, err := json.Marshal(progress)
	if err != nil {
		return
	}

	if err := redisClient.LPush(context.Background(), progressQueue, data).Err(); err != nil {
		log.Printf("Failed to enqueue progress for card %s: %v", progress.CardID, err)
	}
}

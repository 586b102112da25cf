package db

import (
	"context"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
)

const NotifyQueueKey = "topdup:queue:notify"

// Queue wraps the Redis list used as the outbound notification queue.
type Queue struct {
	client *redis.Client
}

// ConnectRedis dials REDIS_URL and verifies the connection.
func ConnectRedis() (*Queue, error) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		fmt.Println("REDIS_URL environment variable is not set")
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		opt = &redis.Options{Addr: redisURL}
	}

	client := redis.NewClient(opt)

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		client.Close()
		return nil, err
	}

	return &Queue{client: client}, nil
}

func (q *Queue) Close() {
	if q != nil && q.client != nil {
		q.client.Close()
	}
}

func (q *Queue) Push(ctx context.Context, queueKey string, data string) error {
	return q.client.LPush(ctx, queueKey, data).Err()
}

func (q *Queue) Length(ctx context.Context, queueKey string) (int64, error) {
	return q.client.LLen(ctx, queueKey).Result()
}

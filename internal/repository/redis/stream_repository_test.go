package redis_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/infrastructure-search/internal/domain"
	redisRepo "github.com/infrastructure-search/internal/repository/redis"
)

const (
	requestStream = "test:stream:infra:search:request"
	doneStream    = "test:stream:infra:search:done"
)

func getTestRedisClient(t *testing.T) *redis.Client {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestStreamRepository_CreateConsumerGroup(t *testing.T) {
	client := getTestRedisClient(t)
	repo := redisRepo.NewStreamRepository(client, 100*time.Millisecond, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, repo.CreateConsumerGroup(ctx, requestStream, "test-group"))

	exists, err := client.Exists(ctx, requestStream).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), exists)

	// повторное создание не ошибка (BUSYGROUP)
	assert.NoError(t, repo.CreateConsumerGroup(ctx, requestStream, "test-group"))
}

func TestStreamRepository_PublishToStream(t *testing.T) {
	client := getTestRedisClient(t)
	repo := redisRepo.NewStreamRepository(client, 100*time.Millisecond, zap.NewNop())
	ctx := context.Background()

	requestID := uuid.New()
	event := &domain.SearchDoneEvent{
		RequestID: requestID,
		Error:     "Location not found",
		Code:      "LOCATION_NOT_FOUND",
	}
	require.NoError(t, repo.PublishToStream(ctx, doneStream, event))

	messages, err := client.XRead(ctx, &redis.XReadArgs{
		Streams: []string{doneStream, "0"},
		Count:   1,
	}).Result()
	require.NoError(t, err)
	require.Len(t, messages, 1)
	require.Len(t, messages[0].Messages, 1)

	dataStr, ok := messages[0].Messages[0].Values["data"].(string)
	require.True(t, ok)

	var received domain.SearchDoneEvent
	require.NoError(t, json.Unmarshal([]byte(dataStr), &received))
	assert.Equal(t, requestID, received.RequestID)
	assert.True(t, received.Failed())
	assert.Equal(t, "LOCATION_NOT_FOUND", received.Code)
}

func TestStreamRepository_ConsumeStream(t *testing.T) {
	client := getTestRedisClient(t)
	repo := redisRepo.NewStreamRepository(client, 100*time.Millisecond, zap.NewNop())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, repo.CreateConsumerGroup(ctx, requestStream, "test-consumer-group"))

	requestID := uuid.New()
	require.NoError(t, repo.PublishToStream(ctx, requestStream, &domain.SearchRequestEvent{
		RequestID: requestID,
		Query:     "telecom towers in karnataka",
	}))
	// сообщение без поля data
	require.NoError(t, client.XAdd(ctx, &redis.XAddArgs{
		Stream: requestStream,
		Values: map[string]interface{}{"other": "x"},
	}).Err())

	msgChan, err := repo.ConsumeStream(ctx, requestStream, "test-consumer-group", "test-consumer")
	require.NoError(t, err)

	select {
	case msg := <-msgChan:
		assert.NotEmpty(t, msg.ID)

		var received domain.SearchRequestEvent
		require.NoError(t, json.Unmarshal([]byte(msg.Data), &received))
		assert.Equal(t, requestID, received.RequestID)
		assert.Equal(t, "telecom towers in karnataka", received.Query)
	case <-time.After(3 * time.Second):
		t.Fatal("Timeout waiting for message")
	}

	select {
	case msg := <-msgChan:
		assert.NotEmpty(t, msg.ID)
		assert.Empty(t, msg.Data)
	case <-time.After(3 * time.Second):
		t.Fatal("Timeout waiting for message without data")
	}
}

func TestStreamRepository_AckMessage(t *testing.T) {
	client := getTestRedisClient(t)
	repo := redisRepo.NewStreamRepository(client, 100*time.Millisecond, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, repo.CreateConsumerGroup(ctx, requestStream, "test-ack-group"))
	require.NoError(t, repo.PublishToStream(ctx, requestStream, &domain.SearchRequestEvent{
		RequestID: uuid.New(),
		Query:     "type:airport country:india",
	}))

	messages, err := client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    "test-ack-group",
		Consumer: "test-consumer",
		Streams:  []string{requestStream, ">"},
		Count:    1,
	}).Result()
	require.NoError(t, err)
	require.Len(t, messages, 1)
	require.Len(t, messages[0].Messages, 1)

	pending, err := client.XPending(ctx, requestStream, "test-ack-group").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending.Count)

	require.NoError(t, repo.AckMessage(ctx, requestStream, "test-ack-group", messages[0].Messages[0].ID))

	pending, err = client.XPending(ctx, requestStream, "test-ack-group").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), pending.Count)
}

func TestStreamRepository_ConsumeStream_ContextCancellation(t *testing.T) {
	client := getTestRedisClient(t)
	repo := redisRepo.NewStreamRepository(client, 50*time.Millisecond, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, repo.CreateConsumerGroup(ctx, requestStream, "test-cancel-group"))

	msgChan, err := repo.ConsumeStream(ctx, requestStream, "test-cancel-group", "test-consumer")
	require.NoError(t, err)

	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	select {
	case _, ok := <-msgChan:
		assert.False(t, ok, "Channel should be closed")
	case <-time.After(2 * time.Second):
		t.Fatal("Timeout waiting for channel to close")
	}
}

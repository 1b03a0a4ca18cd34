package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testStreamConfig() StreamConfig {
	return StreamConfig{
		Stream:   "support:ticket-events",
		Group:    "notifications",
		Consumer: "worker-1",
		MaxLen:   1000,
		Block:    time.Second,
		Count:    10,
	}
}

func TestRedisStreamPublishAppends(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	d := NewRedisStreamDispatcher(rdb, testStreamConfig(), zap.NewNop())
	event := sampleEvent(EventTicketReplied)
	body, err := json.Marshal(event)
	require.NoError(t, err)

	mock.ExpectXAdd(&redis.XAddArgs{
		Stream: "support:ticket-events",
		MaxLen: 1000,
		Approx: true,
		Values: []interface{}{"type", "ticket_replied", "event", string(body)},
	}).SetVal("1-0")

	require.NoError(t, d.Publish(context.Background(), event))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStreamPublishError(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	d := NewRedisStreamDispatcher(rdb, testStreamConfig(), zap.NewNop())
	event := sampleEvent(EventTicketCreated)
	body, err := json.Marshal(event)
	require.NoError(t, err)

	mock.ExpectXAdd(&redis.XAddArgs{
		Stream: "support:ticket-events",
		MaxLen: 1000,
		Approx: true,
		Values: []interface{}{"type", "ticket_created", "event", string(body)},
	}).SetErr(errors.New("connection refused"))

	assert.Error(t, d.Publish(context.Background(), event))
}

func TestRedisStreamEnsureGroupToleratesBusyGroup(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	d := NewRedisStreamDispatcher(rdb, testStreamConfig(), zap.NewNop())

	mock.ExpectXGroupCreateMkStream("support:ticket-events", "notifications", "0").
		SetErr(errors.New("BUSYGROUP Consumer Group name already exists"))

	assert.NoError(t, d.EnsureGroup(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStreamConsumeDeliversAndAcks(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	cfg := testStreamConfig()
	d := NewRedisStreamDispatcher(rdb, cfg, zap.NewNop())

	var got []Event
	d.Subscribe(EventTicketResolved, func(_ context.Context, e Event) error {
		got = append(got, e)
		return errors.New("provider down")
	})

	event := sampleEvent(EventTicketResolved)
	body, err := json.Marshal(event)
	require.NoError(t, err)

	mock.ExpectXReadGroup(&redis.XReadGroupArgs{
		Group:    cfg.Group,
		Consumer: cfg.Consumer,
		Streams:  []string{cfg.Stream, ">"},
		Count:    cfg.Count,
		Block:    cfg.Block,
	}).SetVal([]redis.XStream{{
		Stream: cfg.Stream,
		Messages: []redis.XMessage{
			{ID: "1-0", Values: map[string]interface{}{"type": "ticket_resolved", "event": string(body)}},
			{ID: "2-0", Values: map[string]interface{}{"type": "ticket_resolved"}},
		},
	}})
	mock.ExpectXAck(cfg.Stream, cfg.Group, "1-0").SetVal(1)
	mock.ExpectXAck(cfg.Stream, cfg.Group, "2-0").SetVal(1)

	require.NoError(t, d.consumeOnce(context.Background()))
	require.Len(t, got, 1)
	assert.Equal(t, event.TicketID, got[0].TicketID)
	assert.Equal(t, "Done", got[0].Payload.Reply)
	assert.NoError(t, mock.ExpectationsWereMet())
}

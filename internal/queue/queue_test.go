package queue_test

import (
	"context"
	"time"

	"github.com/alicebob/miniredis/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/redis/go-redis/v9"

	"querydesk.app/engine/internal/queue"
)

var _ = Describe("redis stream queue", func() {
	var (
		ctx      context.Context
		mr       *miniredis.Miniredis
		client   *redis.Client
		producer queue.Producer
		consumer *queue.RedisConsumer
	)

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		mr, err = miniredis.Run()
		Expect(err).NotTo(HaveOccurred())
		client = redis.NewClient(&redis.Options{Addr: mr.Addr()})

		producer = queue.NewRedisProducer(client, "events", nil)
		consumer, err = queue.NewRedisConsumer(ctx, client, queue.ConsumerConfig{
			Stream:    "events",
			Group:     "reports",
			Consumer:  "worker-1",
			DLQStream: "events_dlq",
			BatchSize: 10,
			Block:     10 * time.Millisecond,
		})
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		_ = client.Close()
		mr.Close()
	})

	It("round-trips a transition event through the consumer group", func() {
		entryID := int64(99)
		traceID := "abc123"
		spanID := "00f067aa0ba902b7"
		Expect(producer.Publish(ctx, queue.QueryEvent{
			EventType: queue.EventItemTransitioned,
			GroupID:   "g1",
			ItemID:    "i1",
			EntryID:   &entryID,
			Action:    "defer",
			Team:      "sales",
			TraceID:   &traceID,
			SpanID:    &spanID,
		})).To(Succeed())

		msgs, err := consumer.Read(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(msgs).To(HaveLen(1))

		msg := msgs[0]
		Expect(msg.Attempt).To(Equal(1))
		Expect(msg.TraceID).To(Equal("abc123"))
		Expect(msg.SpanID).To(Equal(spanID))
		Expect(msg.Event.SpanID).To(HaveValue(Equal(spanID)))
		Expect(msg.Event.EventType).To(Equal(queue.EventItemTransitioned))
		Expect(*msg.Event.EntryID).To(Equal(int64(99)))
		Expect(msg.Event.Action).To(Equal("defer"))

		Expect(consumer.Ack(ctx, msg)).To(Succeed())
		pending, err := client.XPending(ctx, "events", "reports").Result()
		Expect(err).NotTo(HaveOccurred())
		Expect(pending.Count).To(BeZero())
	})

	It("requeues with the next attempt number", func() {
		Expect(producer.Publish(ctx, queue.QueryEvent{EventType: queue.EventGroupCreated, GroupID: "g1"})).To(Succeed())
		msgs, err := consumer.Read(ctx)
		Expect(err).NotTo(HaveOccurred())

		Expect(consumer.Requeue(ctx, msgs[0], "db down")).To(Succeed())

		msgs, err = consumer.Read(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(msgs).To(HaveLen(1))
		Expect(msgs[0].Attempt).To(Equal(2))
	})

	It("moves a message to the dead letter stream", func() {
		Expect(producer.Publish(ctx, queue.QueryEvent{EventType: queue.EventGroupCreated, GroupID: "g1"})).To(Succeed())
		msgs, err := consumer.Read(ctx)
		Expect(err).NotTo(HaveOccurred())

		Expect(consumer.SendDLQ(ctx, msgs[0], "gave up")).To(Succeed())

		dlq, err := client.XRange(ctx, "events_dlq", "-", "+").Result()
		Expect(err).NotTo(HaveOccurred())
		Expect(dlq).To(HaveLen(1))
		Expect(dlq[0].Values).To(HaveKeyWithValue("error", "gave up"))
	})

	It("acks and drops malformed messages", func() {
		Expect(client.XAdd(ctx, &redis.XAddArgs{
			Stream: "events",
			Values: map[string]any{"event_type": "item_transitioned", "group_id": "g1"},
		}).Err()).To(Succeed())

		msgs, err := consumer.Read(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(msgs).To(BeEmpty())
	})
})

var _ = Describe("ParseMessage", func() {
	It("rejects unknown event types", func() {
		_, err := queue.ParseMessage(redis.XMessage{ID: "1-0", Values: map[string]any{"event_type": "nope", "group_id": "g"}})
		Expect(err).To(MatchError(ContainSubstring("unknown event_type")))
	})

	It("defaults the attempt to one", func() {
		msg, err := queue.ParseMessage(redis.XMessage{ID: "1-0", Values: map[string]any{"event_type": "group_created", "group_id": "g"}})
		Expect(err).NotTo(HaveOccurred())
		Expect(msg.Attempt).To(Equal(1))
	})
})

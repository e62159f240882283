package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"querydesk.app/engine/common/logger"
	"querydesk.app/engine/core/config"
)

var _ = Describe("logger", func() {
	Describe("WithLogFields", func() {
		It("merges newer values over older ones", func() {
			ctx := logger.WithLogFields(context.Background(), logger.LogFields{
				ItemID:    logger.Ptr("item-1"),
				Component: "querydesk.http",
			})
			ctx = logger.WithLogFields(ctx, logger.LogFields{
				Team: logger.Ptr("sales"),
			})
			ctx = logger.WithLogFields(ctx, logger.LogFields{
				ItemID: logger.Ptr("item-2"),
			})

			fields := logger.GetLogFields(ctx)
			Expect(*fields.ItemID).To(Equal("item-2"))
			Expect(*fields.Team).To(Equal("sales"))
			Expect(fields.Component).To(Equal("querydesk.http"))
		})

		It("returns empty fields for a bare context", func() {
			Expect(logger.GetLogFields(context.Background())).To(Equal(logger.LogFields{}))
		})
	})

	Describe("TraceHandler", func() {
		It("adds context fields to every record", func() {
			var buf bytes.Buffer
			h := logger.NewTraceHandler(slog.NewJSONHandler(&buf, nil))
			log := slog.New(h)

			ctx := logger.WithLogFields(context.Background(), logger.LogFields{
				GroupID:   logger.Ptr("g-1"),
				Actor:     logger.Ptr("Asha"),
				Component: "querydesk.service.action",
			})
			log.InfoContext(ctx, "item transitioned", "to", "approved")

			var line map[string]any
			Expect(json.Unmarshal(buf.Bytes(), &line)).To(Succeed())
			Expect(line["group_id"]).To(Equal("g-1"))
			Expect(line["actor"]).To(Equal("Asha"))
			Expect(line["component"]).To(Equal("querydesk.service.action"))
			Expect(line["to"]).To(Equal("approved"))
			Expect(line).NotTo(HaveKey("item_id"))
		})
	})

	Describe("NewHandler", func() {
		It("writes JSON in production without an exporter", func() {
			var buf bytes.Buffer
			h := logger.NewHandler(config.Config{Env: "production"}, &buf)
			slog.New(h).Info("hello")
			Expect(buf.String()).To(HavePrefix("{"))
		})

		It("writes text in development", func() {
			var buf bytes.Buffer
			h := logger.NewHandler(config.Config{Env: "development"}, &buf)
			slog.New(h).Debug("hello")
			Expect(buf.String()).To(ContainSubstring("msg=hello"))
		})
	})

	Describe("Truncate", func() {
		It("keeps short strings", func() {
			Expect(logger.Truncate("abc", 5)).To(Equal("abc"))
		})

		It("cuts long strings", func() {
			Expect(logger.Truncate("abcdefgh", 3)).To(Equal("abc..."))
		})
	})
})

package service_test

import (
	"context"
	"errors"
	"time"

	"github.com/alicebob/miniredis/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/redis/go-redis/v9"

	"querydesk.app/engine/internal/model"
	"querydesk.app/engine/internal/service"
)

var _ = Describe("CachedRoster", func() {
	var (
		ctx       context.Context
		mr        *miniredis.Miniredis
		client    *redis.Client
		personnel *memPersonnel
		roster    *service.CachedRoster
	)

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		mr, err = miniredis.Run()
		Expect(err).NotTo(HaveOccurred())
		client = redis.NewClient(&redis.Options{Addr: mr.Addr()})

		db := newMemDB()
		db.people = []model.Person{{Name: "Sumit Khari", Team: "sales", Active: true}, {Name: "Neha  Rao", Team: "credit", Active: true}}
		personnel = &memPersonnel{db: db}
		roster = service.NewCachedRoster(client, personnel, "test:roster", time.Minute)
	})

	AfterEach(func() {
		_ = client.Close()
		mr.Close()
	})

	It("matches names case-insensitively and returns the canonical spelling", func() {
		name, ok, err := roster.Lookup(ctx, "  SUMIT khari ")
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
		Expect(name).To(Equal("Sumit Khari"))
	})

	It("loads the personnel store once and then serves from redis", func() {
		_, _, err := roster.Lookup(ctx, "Sumit Khari")
		Expect(err).NotTo(HaveOccurred())
		_, ok, err := roster.Lookup(ctx, "Unknown Person")
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeFalse())
		_, ok, err = roster.Lookup(ctx, "neha rao")
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())

		Expect(personnel.calls).To(Equal(1))
		Expect(mr.TTL("test:roster")).To(Equal(time.Minute))
	})

	It("reloads after the cache expires or is invalidated", func() {
		_, _, err := roster.Lookup(ctx, "Sumit Khari")
		Expect(err).NotTo(HaveOccurred())

		mr.FastForward(2 * time.Minute)
		_, _, err = roster.Lookup(ctx, "Sumit Khari")
		Expect(err).NotTo(HaveOccurred())
		Expect(personnel.calls).To(Equal(2))

		Expect(roster.Invalidate(ctx)).To(Succeed())
		_, _, err = roster.Lookup(ctx, "Sumit Khari")
		Expect(err).NotTo(HaveOccurred())
		Expect(personnel.calls).To(Equal(3))
	})

	It("falls back to the personnel store when redis is down", func() {
		down := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
		defer down.Close()
		r := service.NewCachedRoster(down, personnel, "test:roster", time.Minute)
		name, ok, err := r.Lookup(ctx, "sumit khari")
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
		Expect(name).To(Equal("Sumit Khari"))
	})

	It("works without redis", func() {
		r := service.NewCachedRoster(nil, personnel, "", 0)
		_, ok, err := r.Lookup(ctx, "Sumit Khari")
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
	})

	It("surfaces personnel store failures", func() {
		personnel.listFn = func(context.Context) ([]model.Person, error) {
			return nil, errors.New("db down")
		}
		_, _, err := roster.Lookup(ctx, "Sumit Khari")
		Expect(err).To(HaveOccurred())
	})

	It("treats a blank name as not found", func() {
		_, ok, err := roster.Lookup(ctx, "   ")
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeFalse())
	})
})

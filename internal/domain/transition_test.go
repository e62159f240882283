package domain_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"querydesk.app/engine/internal/domain"
	"querydesk.app/engine/internal/model"
)

var _ = Describe("NextStatus", func() {
	DescribeTable("legal transitions",
		func(from model.ItemStatus, action model.ActionType, expected model.ItemStatus) {
			to, ok := domain.NextStatus(from, action)
			Expect(ok).To(BeTrue())
			Expect(to).To(Equal(expected))
		},
		Entry("approve", model.ItemStatusPending, model.ActionApprove, model.ItemStatusApproved),
		Entry("defer", model.ItemStatusPending, model.ActionDefer, model.ItemStatusDeferred),
		Entry("otc", model.ItemStatusPending, model.ActionOTC, model.ItemStatusOTC),
		Entry("revert approved", model.ItemStatusApproved, model.ActionRevert, model.ItemStatusPending),
		Entry("revert deferred", model.ItemStatusDeferred, model.ActionRevert, model.ItemStatusPending),
		Entry("revert otc", model.ItemStatusOTC, model.ActionRevert, model.ItemStatusPending),
	)

	DescribeTable("illegal transitions",
		func(from model.ItemStatus, action model.ActionType) {
			_, ok := domain.NextStatus(from, action)
			Expect(ok).To(BeFalse())
		},
		Entry("approve twice", model.ItemStatusApproved, model.ActionApprove),
		Entry("approve deferred", model.ItemStatusDeferred, model.ActionApprove),
		Entry("defer otc", model.ItemStatusOTC, model.ActionDefer),
		Entry("revert pending", model.ItemStatusPending, model.ActionRevert),
	)
})

var _ = Describe("Apply", func() {
	var (
		now  time.Time
		item model.QueryItem
		meta domain.Meta
	)

	BeforeEach(func() {
		now = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
		item = model.QueryItem{ID: "42", Status: model.ItemStatusPending, MarkedFor: model.MarkedForSales}
		meta = domain.Meta{ItemID: "42", Actor: "Riya", Team: model.TeamSales}
	})

	It("defers to the assignee and records the resolution", func() {
		t, err := domain.Apply(item, domain.DeferCommand{Meta: meta, Note: "escalate", AssignedTo: "Sumit Khari"}, now)
		Expect(err).NotTo(HaveOccurred())
		Expect(t.From).To(Equal(model.ItemStatusPending))
		Expect(t.Item.Status).To(Equal(model.ItemStatusDeferred))
		Expect(t.Item.AssignedTo).To(Equal("Sumit Khari"))
		Expect(t.Item.ResolvedBy).To(Equal("Riya"))
		Expect(t.Item.ResolvedTeam).To(Equal(model.TeamSales))
		Expect(t.Item.ResolutionReason).To(Equal("escalate"))
		Expect(*t.Item.ResolvedAt).To(Equal(now))
	})

	It("approves without an assignee", func() {
		t, err := domain.Apply(item, domain.ApproveCommand{Meta: meta}, now)
		Expect(err).NotTo(HaveOccurred())
		Expect(t.Item.Status).To(Equal(model.ItemStatusApproved))
		Expect(t.Item.AssignedTo).To(BeEmpty())
	})

	It("requires an assignee for defer and otc", func() {
		_, err := domain.Apply(item, domain.DeferCommand{Meta: meta}, now)
		Expect(err).To(MatchError(domain.ErrAssigneeRequired))

		_, err = domain.Apply(item, domain.OTCCommand{Meta: meta, AssignedTo: "  "}, now)
		Expect(err).To(MatchError(domain.ErrAssigneeRequired))
	})

	It("rejects approve on a deferred item and leaves the input untouched", func() {
		deferred, err := domain.Apply(item, domain.DeferCommand{Meta: meta, AssignedTo: "Sumit Khari"}, now)
		Expect(err).NotTo(HaveOccurred())

		_, err = domain.Apply(deferred.Item, domain.ApproveCommand{Meta: meta}, now)
		Expect(err).To(MatchError(domain.ErrIllegalTransition))
		Expect(deferred.Item.Status).To(Equal(model.ItemStatusDeferred))
	})

	It("reverts every resolution and clears the assignee", func() {
		for _, cmd := range []domain.ActionCommand{
			domain.ApproveCommand{Meta: meta},
			domain.DeferCommand{Meta: meta, AssignedTo: "Sumit Khari"},
			domain.OTCCommand{Meta: meta, AssignedTo: "Sumit Khari"},
		} {
			resolved, err := domain.Apply(item, cmd, now)
			Expect(err).NotTo(HaveOccurred())

			reverted, err := domain.Apply(resolved.Item, domain.RevertCommand{Meta: meta, Reason: "needs more info"}, now)
			Expect(err).NotTo(HaveOccurred())
			Expect(reverted.Item.Status).To(Equal(model.ItemStatusPending))
			Expect(reverted.Item.AssignedTo).To(BeEmpty())
			Expect(reverted.Item.ResolvedAt).To(BeNil())
			Expect(reverted.Item.ResolvedBy).To(BeEmpty())

			again, err := domain.Apply(reverted.Item, cmd, now)
			Expect(err).NotTo(HaveOccurred())
			Expect(again.Item.Status).To(Equal(resolved.Item.Status))
		}
	})

	It("keeps assignedTo set iff the status needs one", func() {
		for _, cmd := range []domain.ActionCommand{
			domain.ApproveCommand{Meta: meta},
			domain.DeferCommand{Meta: meta, AssignedTo: "A"},
			domain.OTCCommand{Meta: meta, AssignedTo: "B"},
		} {
			t, err := domain.Apply(item, cmd, now)
			Expect(err).NotTo(HaveOccurred())
			Expect(t.Item.AssignedTo != "").To(Equal(t.Item.Status.RequiresAssignee()))
		}
	})

	It("rejects commands without an actor", func() {
		meta.Actor = ""
		_, err := domain.Apply(item, domain.ApproveCommand{Meta: meta}, now)
		Expect(err).To(MatchError(domain.ErrMissingActor))
	})
})

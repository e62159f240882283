package dto_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"querydesk.app/engine/internal/domain"
	"querydesk.app/engine/internal/http/dto"
	"querydesk.app/engine/internal/model"
)

var _ = Describe("QueryActionRequest.ToCommand", func() {
	base := func() dto.QueryActionRequest {
		return dto.QueryActionRequest{
			Type:    dto.SubmissionTypeAction,
			QueryID: " i1 ",
			AddedBy: "Neha",
			Team:    "CREDIT",
		}
	}

	DescribeTable("builds the command variant for each wire action",
		func(action string, expected model.ActionType) {
			req := base()
			req.Action = action
			req.AssignedTo = "Sumit Khari"
			cmd, err := req.ToCommand()
			Expect(err).NotTo(HaveOccurred())
			ac, ok := cmd.(domain.ActionCommand)
			Expect(ok).To(BeTrue())
			Expect(ac.Action()).To(Equal(expected))
			Expect(ac.Header().ItemID).To(Equal("i1"))
			Expect(ac.Header().Team).To(Equal(model.TeamCredit))
		},
		Entry("approve", "approve", model.ActionApprove),
		Entry("deferral", "deferral", model.ActionDefer),
		Entry("defer alias", "Defer", model.ActionDefer),
		Entry("otc", "otc", model.ActionOTC),
		Entry("revert", "revert", model.ActionRevert),
	)

	It("surfaces domain validation errors", func() {
		req := base()
		req.Action = "otc"
		_, err := req.ToCommand()
		Expect(err).To(MatchError(domain.ErrAssigneeRequired))
	})

	It("rejects unknown actions", func() {
		req := base()
		req.Action = "escalate"
		_, err := req.ToCommand()
		Expect(err).To(MatchError(domain.ErrUnknownAction))
	})

	It("builds a message command", func() {
		req := base()
		req.Type = dto.SubmissionTypeMessage
		req.Message = "please re-upload"
		cmd, err := req.ToCommand()
		Expect(err).NotTo(HaveOccurred())
		Expect(cmd).To(Equal(domain.MessageCommand{
			Meta: domain.Meta{ItemID: "i1", Actor: "Neha", Team: model.TeamCredit},
			Body: "please re-upload",
		}))
	})
})

var _ = Describe("QueryText", func() {
	It("accepts strings and objects", func() {
		var req dto.CreateQueryRequest
		Expect(json.Unmarshal([]byte(`{
			"appNo": "APP1",
			"sendTo": "both",
			"queries": ["a", {"text": "b", "sendTo": "credit"}]
		}`), &req)).To(Succeed())
		Expect(req.Queries).To(Equal([]dto.QueryText{{Text: "a"}, {Text: "b", SendTo: "credit"}}))
	})

	It("rejects other shapes", func() {
		var q dto.QueryText
		Expect(json.Unmarshal([]byte(`["a"]`), &q)).NotTo(Succeed())
	})
})

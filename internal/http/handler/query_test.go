package handler_test

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"querydesk.app/engine/internal/http/handler"
	"querydesk.app/engine/internal/model"
	"querydesk.app/engine/internal/service"
)

func sampleGroup() model.QueryGroup {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	return model.QueryGroup{
		ID:           "g1",
		AppNumber:    "APP123",
		CustomerName: "Asha Rao",
		Branch:       "Pune",
		BranchCode:   "PN01",
		SubmittedBy:  "operations",
		SubmittedAt:  now,
		TargetTeams:  []model.Team{model.TeamSales},
		Items: []model.QueryItem{{
			ID:        "i1",
			GroupID:   "g1",
			Text:      "Missing KYC doc",
			Status:    model.ItemStatusPending,
			MarkedFor: model.MarkedForSales,
			CreatedAt: now,
			UpdatedAt: now,
		}},
	}
}

var _ = Describe("QueryHandler", func() {
	var (
		router *gin.Engine
		svc    *mockQueryService
	)

	BeforeEach(func() {
		router = gin.New()
		svc = &mockQueryService{}
		h := handler.NewQueryHandler(svc)
		router.POST("/queries", h.Create)
		router.GET("/queries", h.List)
		router.GET("/queries/:groupId", h.GetGroup)
		router.GET("/query-items/:itemId", h.GetItem)
	})

	Describe("Create", func() {
		It("accepts plain strings and per-item overrides", func() {
			var got service.CreateGroupInput
			svc.createGroupFn = func(_ context.Context, in service.CreateGroupInput) (model.QueryGroup, error) {
				got = in
				return sampleGroup(), nil
			}

			w := doJSON(router, http.MethodPost, "/queries", `{
				"appNo": "APP123",
				"queries": ["Missing KYC doc", {"text": "Income proof unclear", "sendTo": "credit"}],
				"sendTo": "Sales,Credit"
			}`)

			Expect(w.Code).To(Equal(http.StatusCreated))
			Expect(got.AppNumber).To(Equal("APP123"))
			Expect(got.SendTo).To(Equal("Sales,Credit"))
			Expect(got.SubmittedBy).To(Equal("operations"))
			Expect(got.Items).To(Equal([]service.NewItem{
				{Text: "Missing KYC doc"},
				{Text: "Income proof unclear", SendTo: "credit"},
			}))

			resp := decode(w)
			Expect(resp["success"]).To(BeTrue())
			data := resp["data"].(map[string]any)
			Expect(data["id"]).To(Equal("g1"))
			Expect(data["appNo"]).To(Equal("APP123"))
			Expect(data["pendingCount"]).To(BeEquivalentTo(1))
			queries := data["queries"].([]any)
			Expect(queries[0].(map[string]any)["visibleTeams"]).To(Equal([]any{"sales"}))
		})

		It("records addedBy as the submitter", func() {
			var got service.CreateGroupInput
			svc.createGroupFn = func(_ context.Context, in service.CreateGroupInput) (model.QueryGroup, error) {
				got = in
				return sampleGroup(), nil
			}

			w := doJSON(router, http.MethodPost, "/queries", map[string]any{
				"appNo": "APP123", "queries": []string{"x"}, "sendTo": "sales", "addedBy": "Priya",
			})

			Expect(w.Code).To(Equal(http.StatusCreated))
			Expect(got.SubmittedBy).To(Equal("Priya"))
		})

		DescribeTable("rejects malformed bodies with 400",
			func(body string) {
				w := doJSON(router, http.MethodPost, "/queries", body)
				Expect(w.Code).To(Equal(http.StatusBadRequest))
				resp := decode(w)
				Expect(resp["success"]).To(BeFalse())
				Expect(resp["code"]).To(Equal("validation_error"))
			},
			Entry("broken json", `{`),
			Entry("missing appNo", `{"queries": ["x"], "sendTo": "sales"}`),
			Entry("no queries", `{"appNo": "APP1", "queries": [], "sendTo": "sales"}`),
			Entry("numeric query", `{"appNo": "APP1", "queries": [42], "sendTo": "sales"}`),
		)

		DescribeTable("maps service errors",
			func(err error, status int, code string) {
				svc.createGroupFn = func(context.Context, service.CreateGroupInput) (model.QueryGroup, error) {
					return model.QueryGroup{}, err
				}
				w := doJSON(router, http.MethodPost, "/queries", map[string]any{
					"appNo": "APP999", "queries": []string{"x"}, "sendTo": "sales",
				})
				Expect(w.Code).To(Equal(status))
				Expect(decode(w)["code"]).To(Equal(code))
			},
			Entry("validation", fmt.Errorf("%w: unknown team", service.ErrValidation), http.StatusBadRequest, "validation_error"),
			Entry("unknown application", fmt.Errorf("%w: application", service.ErrNotFound), http.StatusNotFound, "not_found"),
			Entry("storage", fmt.Errorf("%w: timed out", service.ErrStorage), http.StatusServiceUnavailable, "storage_error"),
			Entry("unexpected", fmt.Errorf("boom"), http.StatusInternalServerError, "internal_error"),
		)
	})

	Describe("List", func() {
		It("passes the filter through", func() {
			var got model.GroupFilter
			svc.listGroupsFn = func(_ context.Context, f model.GroupFilter) ([]model.QueryGroup, error) {
				got = f
				return []model.QueryGroup{sampleGroup()}, nil
			}

			w := doJSON(router, http.MethodGet, "/queries?status=resolved&team=Sales&limit=10&offset=20&appNo=APP123", nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(got).To(Equal(model.GroupFilter{
				Team:      model.TeamSales,
				Status:    model.StatusFilterResolved,
				AppNumber: "APP123",
				Limit:     10,
				Offset:    20,
			}))
			Expect(decode(w)["data"]).To(HaveLen(1))
		})

		It("returns an empty array rather than null", func() {
			w := doJSON(router, http.MethodGet, "/queries", nil)
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(ContainSubstring(`"data":[]`))
		})

		It("returns stats when asked", func() {
			var gotTeam model.Team
			svc.statsFn = func(_ context.Context, team model.Team) (model.ItemStats, error) {
				gotTeam = team
				return model.ItemStats{Pending: 2, Deferred: 1, Resolved: 1, Total: 3, Groups: 2}, nil
			}

			w := doJSON(router, http.MethodGet, "/queries?stats=true&team=credit", nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(gotTeam).To(Equal(model.TeamCredit))
			data := decode(w)["data"].(map[string]any)
			Expect(data["pending"]).To(BeEquivalentTo(2))
			Expect(data["resolved"]).To(BeEquivalentTo(1))
		})

		DescribeTable("rejects bad parameters",
			func(query string) {
				w := doJSON(router, http.MethodGet, "/queries?"+query, nil)
				Expect(w.Code).To(Equal(http.StatusBadRequest))
			},
			Entry("status", "status=closed"),
			Entry("team", "team=legal"),
			Entry("limit", "limit=ten"),
			Entry("negative offset", "offset=-1"),
		)
	})

	Describe("GetGroup and GetItem", func() {
		It("returns the group", func() {
			svc.getGroupFn = func(_ context.Context, id string, team model.Team) (model.QueryGroup, error) {
				Expect(id).To(Equal("g1"))
				Expect(team).To(Equal(model.TeamSales))
				return sampleGroup(), nil
			}
			w := doJSON(router, http.MethodGet, "/queries/g1?team=sales", nil)
			Expect(w.Code).To(Equal(http.StatusOK))
		})

		It("maps unauthorized to 403", func() {
			svc.getItemFn = func(context.Context, string, model.Team) (model.QueryItem, error) {
				return model.QueryItem{}, fmt.Errorf("%w: credit cannot read item", service.ErrUnauthorized)
			}
			w := doJSON(router, http.MethodGet, "/query-items/i1?team=credit", nil)
			Expect(w.Code).To(Equal(http.StatusForbidden))
			Expect(decode(w)["code"]).To(Equal("unauthorized"))
		})
	})
})

package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/alicebob/miniredis/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"querydesk.app/engine/core/config"
	"querydesk.app/engine/internal/cli"
	"querydesk.app/engine/internal/http/dto"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

var _ = Describe("queryctl", func() {
	var (
		server *httptest.Server
		mux    *http.ServeMux
		cfg    config.Config
	)

	run := func(args ...string) (string, error) {
		var out bytes.Buffer
		root := cli.NewRootCommand(cfg)
		root.SetOut(&out)
		root.SetErr(&out)
		root.SetArgs(args)
		err := root.ExecuteContext(context.Background())
		return out.String(), err
	}

	BeforeEach(func() {
		mux = http.NewServeMux()
		server = httptest.NewServer(mux)
		cfg = config.Config{
			Client: config.ClientConfig{BaseURL: server.URL, Timeout: time.Second},
			Sync:   config.SyncConfig{ListInterval: 20 * time.Second, ThreadInterval: 5 * time.Second},
		}
	})

	AfterEach(func() {
		server.Close()
	})

	It("prints the query list once", func() {
		mux.HandleFunc("GET /queries", func(w http.ResponseWriter, r *http.Request) {
			defer GinkgoRecover()
			Expect(r.URL.Query().Get("team")).To(Equal("sales"))
			writeJSON(w, http.StatusOK, dto.OK([]dto.QueryGroupResponse{{
				ID: "g1", AppNo: "APP123", CustomerName: "Asha Rao", SendTo: []string{"sales"}, PendingCount: 1,
				Queries: []dto.QueryItemResponse{{ID: "i1"}},
			}}))
		})

		out, err := run("watch", "--once", "--team", "sales")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("APP123"))
		Expect(out).To(ContainSubstring("Asha Rao"))
	})

	It("points at the next page when the list is full", func() {
		mux.HandleFunc("GET /queries", func(w http.ResponseWriter, r *http.Request) {
			defer GinkgoRecover()
			Expect(r.URL.Query().Get("limit")).To(Equal("2"))
			Expect(r.URL.Query().Get("offset")).To(Equal("4"))
			writeJSON(w, http.StatusOK, dto.OK([]dto.QueryGroupResponse{
				{ID: "g5", AppNo: "APP105"},
				{ID: "g6", AppNo: "APP106"},
			}))
		})

		out, err := run("watch", "--once", "--limit", "2", "--offset", "4")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("APP106"))
		Expect(out).To(ContainSubstring("rerun with --offset 6"))
	})

	It("prints no page hint for a short list", func() {
		mux.HandleFunc("GET /queries", func(w http.ResponseWriter, r *http.Request) {
			defer GinkgoRecover()
			Expect(r.URL.Query().Get("limit")).To(Equal("50"))
			writeJSON(w, http.StatusOK, dto.OK([]dto.QueryGroupResponse{{ID: "g1", AppNo: "APP123"}}))
		})

		out, err := run("watch", "--once")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).NotTo(ContainSubstring("--offset"))
	})

	It("prints a thread in order", func() {
		mux.HandleFunc("GET /query-actions", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, dto.OK([]dto.ThreadEntryResponse{
				{Seq: 1, Type: "action", Action: "deferral", AddedBy: "Neha", Team: "sales", AssignedTo: "Sumit Khari", Message: "escalate", Timestamp: time.Now()},
				{Seq: 2, Type: "message", AddedBy: "Ravi", Team: "operations", Message: "uploaded", Timestamp: time.Now()},
			}))
		})

		out, err := run("thread", "i1", "--once")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("Neha (sales) deferral -> Sumit Khari: escalate"))
		Expect(out).To(MatchRegexp(`(?s)escalate.*uploaded`))
	})

	It("submits an action", func() {
		mux.HandleFunc("POST /query-actions", func(w http.ResponseWriter, r *http.Request) {
			defer GinkgoRecover()
			var req dto.QueryActionRequest
			Expect(json.NewDecoder(r.Body).Decode(&req)).To(Succeed())
			Expect(req.Type).To(Equal("action"))
			Expect(req.Action).To(Equal("deferral"))
			Expect(req.RequestID).NotTo(BeEmpty())
			writeJSON(w, http.StatusCreated, dto.OK(dto.ActionResponse{
				Applied: true,
				Query:   dto.QueryItemResponse{ID: "i1", Status: "deferred", AssignedTo: "Sumit Khari"},
			}))
		})

		out, err := run("act", "i1", "--action", "deferral", "--assigned-to", "sumit khari", "--by", "Neha", "--team", "sales")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("query i1 is deferred (assigned to Sumit Khari)"))
	})

	It("tells the operator how to recover from an unknown outcome", func() {
		mux.HandleFunc("POST /query-actions", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusServiceUnavailable, dto.ErrorResponse{Error: "storage error", Code: dto.CodeStorage, Outcome: dto.OutcomeUnknown})
		})

		_, err := run("act", "i1", "--action", "approve", "--by", "Neha", "--team", "credit", "--request-id", "req-9")
		Expect(err).To(MatchError(ContainSubstring("--request-id req-9")))
	})

	It("prints the daily report", func() {
		mux.HandleFunc("GET /reports/daily", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, dto.OK([]dto.DailyActionResponse{{Day: "2026-03-02", Team: "credit", Action: "approve", Count: 3}}))
		})

		out, err := run("report", "daily", "--from", "2026-03-01")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("2026-03-02"))
		Expect(out).To(ContainSubstring("approve"))
	})

	It("clears the cached roster", func() {
		mr, err := miniredis.Run()
		Expect(err).NotTo(HaveOccurred())
		defer mr.Close()
		mr.HSet("querydesk:roster", "sumit khari", "Sumit Khari")

		cfg.Events.RedisURL = "redis://" + mr.Addr()
		cfg.Roster.CacheKey = "querydesk:roster"
		out, err := run("roster", "reload")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("roster cache cleared"))
		Expect(mr.Exists("querydesk:roster")).To(BeFalse())
	})
})

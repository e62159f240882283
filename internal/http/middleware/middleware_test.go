package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"querydesk.app/engine/common/logger"
	"querydesk.app/engine/internal/http/middleware"
)

var _ = Describe("middleware", func() {
	var router *gin.Engine

	BeforeEach(func() {
		router = gin.New()
		router.Use(middleware.Recovery(), middleware.RequestID("X-Trace-Id"), middleware.Metrics(), middleware.Logger())
	})

	It("turns a panic into the uniform error body", func() {
		router.GET("/boom", func(c *gin.Context) { panic("kaboom") })

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

		Expect(w.Code).To(Equal(http.StatusInternalServerError))
		var body map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())
		Expect(body["success"]).To(BeFalse())
		Expect(body["code"]).To(Equal("internal_error"))
		Expect(body["outcome"]).To(Equal("unknown"))
	})

	It("assigns a request id and exposes it to handlers", func() {
		var seen string
		router.GET("/ok", func(c *gin.Context) {
			if id := logger.GetLogFields(c.Request.Context()).RequestID; id != nil {
				seen = *id
			}
			c.Status(http.StatusNoContent)
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

		header := w.Header().Get(middleware.RequestIDHeader)
		_, err := uuid.Parse(header)
		Expect(err).NotTo(HaveOccurred())
		Expect(seen).To(Equal(header))
	})

	It("keeps a valid incoming request id", func() {
		router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusNoContent) })

		id := uuid.NewString()
		req := httptest.NewRequest(http.MethodGet, "/ok", nil)
		req.Header.Set(middleware.RequestIDHeader, id)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Header().Get(middleware.RequestIDHeader)).To(Equal(id))
	})
})

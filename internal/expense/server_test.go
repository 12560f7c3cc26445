package expense

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Server", func() {
	var (
		store     *mockStore
		gateway   *mockGateway
		transport *recordingTransport
		service   *Service
		server    *Server
	)

	newRequest := func(method, path string, body any) *httptest.ResponseRecorder {
		var reader *bytes.Reader
		if body != nil {
			data, err := json.Marshal(body)
			Expect(err).NotTo(HaveOccurred())
			reader = bytes.NewReader(data)
		} else {
			reader = bytes.NewReader(nil)
		}
		req := httptest.NewRequest(method, path, reader)
		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, req)
		return rec
	}

	BeforeEach(func() {
		store = newMockStore()
		gateway = newMockGateway()
		transport = &recordingTransport{}
		relay := NewRelayWithClient(&http.Client{Transport: transport})
		service = NewServiceWithDeps(store, gateway, relay,
			&mockIDGenerator{id: "test-id-123"},
			&mockTimeSource{now: time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)})
		server = NewServer(service, BasicAuth{})
	})

	Describe("GET /api/receipts", func() {
		BeforeEach(func() {
			store.receipts = []Receipt{{ID: "a", Vendor: "Cafe X"}}
			service = NewServiceWithDeps(store, gateway, NewRelayWithClient(&http.Client{Transport: transport}),
				&mockIDGenerator{id: "x"}, &mockTimeSource{now: time.Now()})
			server = NewServer(service, BasicAuth{})
		})

		It("returns the persisted list", func() {
			rec := newRequest("GET", "/api/receipts", nil)
			Expect(rec.Code).To(Equal(http.StatusOK))

			var receipts []Receipt
			Expect(json.Unmarshal(rec.Body.Bytes(), &receipts)).To(Succeed())
			Expect(receipts).To(HaveLen(1))
			Expect(receipts[0].Vendor).To(Equal("Cafe X"))
		})
	})

	Describe("POST /api/capture", func() {
		It("runs the pipeline and returns the draft", func() {
			rec := newRequest("POST", "/api/capture", captureRequest{Image: testImage})
			Expect(rec.Code).To(Equal(http.StatusCreated))

			var draft Receipt
			Expect(json.Unmarshal(rec.Body.Bytes(), &draft)).To(Succeed())
			Expect(draft.Vendor).To(Equal("Cafe X"))
			Expect(draft.Status).To(Equal(StatusPending))
		})

		It("rejects an empty body", func() {
			rec := newRequest("POST", "/api/capture", captureRequest{})
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("the draft session", func() {
		BeforeEach(func() {
			service.Capture(testImage)
		})

		It("returns the draft", func() {
			rec := newRequest("GET", "/api/draft", nil)
			Expect(rec.Code).To(Equal(http.StatusOK))
		})

		It("edits a field", func() {
			rec := newRequest("PATCH", "/api/draft", editDraftRequest{Field: "vendor", Value: "Corner Shop"})
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(service.Draft().Vendor).To(Equal("Corner Shop"))
		})

		It("confirms the draft into the ledger", func() {
			rec := newRequest("POST", "/api/draft/confirm", nil)
			Expect(rec.Code).To(Equal(http.StatusCreated))
			Expect(store.receipts).To(HaveLen(1))
		})

		It("discards the draft", func() {
			rec := newRequest("DELETE", "/api/draft", nil)
			Expect(rec.Code).To(Equal(http.StatusNoContent))
			Expect(service.Draft()).To(BeNil())
		})

		It("404s when no draft exists", func() {
			service.DiscardDraft()
			rec := newRequest("GET", "/api/draft", nil)
			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("DELETE /api/receipts/{id}", func() {
		BeforeEach(func() {
			store.receipts = []Receipt{{ID: "a"}, {ID: "b"}}
			service = NewServiceWithDeps(store, gateway, NewRelayWithClient(&http.Client{Transport: transport}),
				&mockIDGenerator{id: "x"}, &mockTimeSource{now: time.Now()})
			server = NewServer(service, BasicAuth{})
		})

		It("removes the record", func() {
			rec := newRequest("DELETE", "/api/receipts/a", nil)
			Expect(rec.Code).To(Equal(http.StatusNoContent))
			Expect(store.receipts).To(HaveLen(1))
			Expect(store.receipts[0].ID).To(Equal("b"))
		})

		It("erases everything on the bulk route", func() {
			rec := newRequest("DELETE", "/api/receipts", nil)
			Expect(rec.Code).To(Equal(http.StatusNoContent))
			Expect(store.receipts).To(BeEmpty())
		})
	})

	Describe("POST /api/receipts/{id}/submit", func() {
		BeforeEach(func() {
			store.receipts = []Receipt{{ID: "a", Status: StatusPending}}
			store.config.FormURL = "https://forms.example.com/viewform"
			service = NewServiceWithDeps(store, gateway, NewRelayWithClient(&http.Client{Transport: transport}),
				&mockIDGenerator{id: "x"}, &mockTimeSource{now: time.Now()})
			server = NewServer(service, BasicAuth{})
		})

		It("flips the record to submitted", func() {
			rec := newRequest("POST", "/api/receipts/a/submit", nil)
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(store.receipts[0].Status).To(Equal(StatusSubmitted))
		})

		It("redirects to settings when no form URL is set", func() {
			store.config.FormURL = ""
			rec := newRequest("POST", "/api/receipts/a/submit", nil)
			Expect(rec.Code).To(Equal(http.StatusOK))

			var out map[string]string
			Expect(json.Unmarshal(rec.Body.Bytes(), &out)).To(Succeed())
			Expect(out["view"]).To(Equal(string(ViewSettings)))
			Expect(store.receipts[0].Status).To(Equal(StatusPending))
		})
	})

	Describe("GET /api/stats", func() {
		BeforeEach(func() {
			store.receipts = []Receipt{{ID: "a", Amount: 450, Category: "Food & Dining"}}
			service = NewServiceWithDeps(store, gateway, NewRelayWithClient(&http.Client{Transport: transport}),
				&mockIDGenerator{id: "x"}, &mockTimeSource{now: time.Now()})
			server = NewServer(service, BasicAuth{})
		})

		It("returns the derived aggregates", func() {
			rec := newRequest("GET", "/api/stats", nil)
			Expect(rec.Code).To(Equal(http.StatusOK))

			var stats statsResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &stats)).To(Succeed())
			Expect(stats.Total).To(Equal(450.0))
			Expect(stats.ByCategory).To(HaveLen(len(Categories)))
			Expect(stats.ByCategory["Food & Dining"]).To(Equal(450.0))
		})
	})

	Describe("configuration", func() {
		It("round-trips the form configuration", func() {
			rec := newRequest("PUT", "/api/config", FormConfig{FormURL: "https://forms.example.com/viewform"})
			Expect(rec.Code).To(Equal(http.StatusOK))

			rec = newRequest("GET", "/api/config", nil)
			var config FormConfig
			Expect(json.Unmarshal(rec.Body.Bytes(), &config)).To(Succeed())
			Expect(config.FormURL).To(Equal("https://forms.example.com/viewform"))
			Expect(config.Fields.Amount).To(Equal("entry.1"))
		})

		It("maps form fields from HTML", func() {
			rec := newRequest("POST", "/api/config/extract-fields", extractFieldsRequest{HTML: "<form></form>"})
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(store.config.Fields.Amount).To(Equal("entry.11"))
		})
	})

	Describe("GET /api/export", func() {
		It("streams an XLSX attachment", func() {
			rec := newRequest("GET", "/api/export", nil)
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Header().Get("Content-Disposition")).To(ContainSubstring("receipts.xlsx"))
			Expect(rec.Body.Len()).NotTo(BeZero())
		})
	})

	Describe("basic auth", func() {
		BeforeEach(func() {
			server = NewServer(service, BasicAuth{Username: "user", Password: "pass"})
		})

		It("rejects unauthenticated requests", func() {
			rec := newRequest("GET", "/api/receipts", nil)
			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})

		It("accepts valid credentials", func() {
			req := httptest.NewRequest("GET", "/api/receipts", nil)
			req.SetBasicAuth("user", "pass")
			rec := httptest.NewRecorder()
			server.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusOK))
		})
	})

	Describe("GET /", func() {
		It("serves the HTML interface", func() {
			rec := newRequest("GET", "/", nil)
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Header().Get("Content-Type")).To(ContainSubstring("text/html"))
		})
	})
})

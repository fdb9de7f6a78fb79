package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/masonrylabs/masonry"
	"github.com/masonrylabs/masonry/pkg/adapters/memory"
	"github.com/masonrylabs/masonry/pkg/domain"
	"github.com/masonrylabs/masonry/pkg/ports"
)

func testEngine(t *testing.T, opts ...masonry.Option) *masonry.Engine {
	t.Helper()
	loader := memory.NewLoader(
		domain.Site{Domain: "example.com", Title: "Example", Theme: "base"},
		domain.Page{
			Route: "/",
			Title: "Home",
			Blocks: []domain.Block{
				{ID: "b1", Type: domain.BlockHeader, Content: map[string]any{
					"links": []any{map[string]any{"label": "Home", "url": "/"}},
				}},
				{ID: "b2", Type: domain.BlockText, Content: map[string]any{"markdown": "Hello **world**."}},
				{ID: "b3", Type: domain.BlockFooter, Content: map[string]any{"note": "Bye"}},
			},
		},
		domain.Page{
			Route: "/quiz",
			Title: "Quiz",
			Blocks: []domain.Block{
				{ID: "w1", Type: domain.BlockWizard, Content: map[string]any{
					"steps": []any{
						map[string]any{
							"id":    "one",
							"title": "Step One",
							"fields": []any{
								map[string]any{"id": "name", "type": "text", "required": true},
							},
						},
						map[string]any{
							"id":    "two",
							"title": "Step Two",
						},
					},
					"results": []any{
						map[string]any{"condition": `name != ""`, "title": "Done"},
					},
				}},
			},
		},
	)
	opts = append([]masonry.Option{masonry.WithLoader(loader)}, opts...)
	eng, err := masonry.New("", opts...)
	if err != nil {
		t.Fatalf("masonry.New: %v", err)
	}
	return eng
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	h := NewHandler(testEngine(t))
	rec := do(t, h, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestGetPage(t *testing.T) {
	h := NewHandler(testEngine(t))
	rec := do(t, h, http.MethodGet, "/api/pages/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp pageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Route != "/" {
		t.Errorf("route = %q", resp.Route)
	}
	if resp.Meta.Title != "Home | Example" {
		t.Errorf("meta title = %q", resp.Meta.Title)
	}
	if !strings.Contains(resp.Document, "<strong>world</strong>") {
		t.Errorf("document missing rendered markdown: %s", resp.Document)
	}
	if !strings.HasPrefix(strings.TrimSpace(resp.Document), `<div class="page"`) {
		t.Errorf("document missing page wrapper")
	}
}

func TestGetPageNotFound(t *testing.T) {
	h := NewHandler(testEngine(t))
	rec := do(t, h, http.MethodGet, "/api/pages/missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestRoutes(t *testing.T) {
	h := NewHandler(testEngine(t))
	rec := do(t, h, http.MethodGet, "/api/routes", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Routes []string `json:"routes"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Routes) != 2 {
		t.Errorf("routes = %v", resp.Routes)
	}
}

func TestWizardFlow(t *testing.T) {
	h := NewHandler(testEngine(t))

	rec := do(t, h, http.MethodPost, "/api/wizard/start", map[string]string{
		"route": "/quiz", "block_id": "w1",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("start status = %d: %s", rec.Code, rec.Body.String())
	}
	var view masonry.WizardView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatal(err)
	}
	sessionID := view.State.SessionID
	if sessionID == "" {
		t.Fatal("missing session ID")
	}
	if view.Step == nil || view.Step.ID != "one" {
		t.Fatalf("unexpected first step: %+v", view.Step)
	}

	// Missing required field blocks with 422.
	rec = do(t, h, http.MethodPost, "/api/wizard/"+sessionID+"/next", map[string]any{
		"answers": map[string]any{},
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("next status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(t, h, http.MethodPost, "/api/wizard/"+sessionID+"/next", map[string]any{
		"answers": map[string]any{"name": "Ada"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("next status = %d: %s", rec.Code, rec.Body.String())
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatal(err)
	}
	if view.Step == nil || view.Step.ID != "two" {
		t.Fatalf("unexpected second step: %+v", view.Step)
	}

	rec = do(t, h, http.MethodPost, "/api/wizard/"+sessionID+"/next", map[string]any{
		"answers": map[string]any{},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("final next status = %d: %s", rec.Code, rec.Body.String())
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatal(err)
	}
	if view.State.Status != domain.StatusResults {
		t.Fatalf("status = %q", view.State.Status)
	}
	if len(view.Outcomes) != 1 || view.Outcomes[0].Title != "Done" {
		t.Errorf("outcomes = %+v", view.Outcomes)
	}

	// Back returns to the last step with answers intact.
	rec = do(t, h, http.MethodPost, "/api/wizard/"+sessionID+"/back", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("back status = %d", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatal(err)
	}
	if view.Step == nil || view.Step.ID != "two" {
		t.Fatalf("back landed on %+v", view.Step)
	}
	if view.State.Answers["name"] != "Ada" {
		t.Errorf("answers lost on back: %v", view.State.Answers)
	}

	rec = do(t, h, http.MethodPost, "/api/wizard/"+sessionID+"/restart", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("restart status = %d", rec.Code)
	}
	// Reset: Unmarshal merges into an existing map, which would keep stale answers.
	view = masonry.WizardView{}
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatal(err)
	}
	if view.State.StepIndex != 0 || len(view.State.Answers) != 0 {
		t.Errorf("restart state: %+v", view.State)
	}
}

func TestWizardUnknownSession(t *testing.T) {
	h := NewHandler(testEngine(t))
	rec := do(t, h, http.MethodGet, "/api/wizard/nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestCollectForwarding(t *testing.T) {
	var received ports.Lead
	sink := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&received)
	}))
	defer sink.Close()

	h := NewHandler(testEngine(t, masonry.WithCollectURL(sink.URL)))
	rec := do(t, h, http.MethodPost, "/api/collect", ports.Lead{
		FormType: "newsletter",
		Route:    "/",
		Email:    "a@example.com",
	})
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if received.FormType != "newsletter" {
		t.Errorf("lead not forwarded: %+v", received)
	}
	// Domain is filled from the site when the caller omits it.
	if received.Domain != "example.com" {
		t.Errorf("domain = %q", received.Domain)
	}
}

func TestCollectRejectsMissingFormType(t *testing.T) {
	h := NewHandler(testEngine(t))
	rec := do(t, h, http.MethodPost, "/api/collect", ports.Lead{Route: "/"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	h := NewHandler(testEngine(t))
	rec := do(t, h, http.MethodOptions, "/api/routes", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS header")
	}
}

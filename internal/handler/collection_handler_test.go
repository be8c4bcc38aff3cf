package handler_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/tidewater/internal/db"
)

func TestCollectionCRUD(t *testing.T) {
	srv := newTestServer(t)
	srv.login(t)

	rr := srv.do(t, http.MethodPost, "/admin/api/collections/escooters", map[string]any{
		"model":           "Falcon X",
		"brand":           "Tidewater",
		"price":           35,
		"rangeKm":         45,
		"specialFeatures": []string{"Phone holder"},
	})
	expectStatus(t, rr, http.StatusCreated)
	item := decodeBody(t, rr)["item"].(map[string]any)
	id, _ := item["id"].(string)
	if id == "" || item["available"] != true {
		t.Fatalf("unexpected created scooter %v", item)
	}

	rr = srv.do(t, http.MethodPut, "/admin/api/collections/escooters/"+id, map[string]any{"available": false})
	expectStatus(t, rr, http.StatusOK)
	item = decodeBody(t, rr)["item"].(map[string]any)
	if item["available"] != false || item["model"] != "Falcon X" {
		t.Fatalf("expected partial update to keep other fields, got %v", item)
	}

	rr = srv.do(t, http.MethodGet, "/admin/api/collections/escooters", nil)
	expectStatus(t, rr, http.StatusOK)
	if items := decodeBody(t, rr)["items"].([]any); len(items) != 1 {
		t.Fatalf("expected one scooter, got %d", len(items))
	}

	rr = srv.do(t, http.MethodGet, "/api/escooters?available=true", nil)
	expectStatus(t, rr, http.StatusOK)
	if scooters := decodeBody(t, rr)["escooters"].([]any); len(scooters) != 0 {
		t.Fatalf("expected unavailable scooter to be filtered, got %v", scooters)
	}

	expectStatus(t, srv.do(t, http.MethodDelete, "/admin/api/collections/escooters/"+id, nil), http.StatusPreconditionRequired)

	rr = srv.do(t, http.MethodDelete, "/admin/api/collections/escooters/"+id+"?confirm=true", nil)
	expectStatus(t, rr, http.StatusOK)
	if items := decodeBody(t, rr)["items"].([]any); len(items) != 0 {
		t.Fatalf("expected scooter removed, got %v", items)
	}

	expectStatus(t, srv.do(t, http.MethodDelete, "/admin/api/collections/escooters/"+id+"?confirm=true", nil), http.StatusNotFound)
}

func TestCollectionRejectsInvalidRecord(t *testing.T) {
	srv := newTestServer(t)
	srv.login(t)

	rr := srv.do(t, http.MethodPost, "/admin/api/collections/escooters", map[string]any{"brand": "Tidewater"})
	expectStatus(t, rr, http.StatusBadRequest)
	fields, ok := decodeBody(t, rr)["fields"].(map[string]any)
	if !ok || fields["model"] == nil {
		t.Fatalf("expected model field error, got %s", rr.Body.String())
	}

	rr = srv.do(t, http.MethodGet, "/admin/api/collections/escooters", nil)
	if items := decodeBody(t, rr)["items"].([]any); len(items) != 0 {
		t.Fatalf("invalid record must not be stored, got %v", items)
	}

	expectStatus(t, srv.do(t, http.MethodGet, "/admin/api/collections/bookings", nil), http.StatusNotFound)
}

func TestCollectionRejectsDuplicateSlug(t *testing.T) {
	srv := newTestServer(t)
	srv.login(t)

	rr := srv.do(t, http.MethodPost, "/admin/api/collections/blog_posts", map[string]any{"title": "Whale Season"})
	expectStatus(t, rr, http.StatusCreated)

	rr = srv.do(t, http.MethodPost, "/admin/api/collections/blog_posts", map[string]any{"title": "Whale season!"})
	expectStatus(t, rr, http.StatusBadRequest)
	fields, ok := decodeBody(t, rr)["fields"].(map[string]any)
	if !ok || fields["slug"] == nil {
		t.Fatalf("expected slug field error, got %s", rr.Body.String())
	}

	rr = srv.do(t, http.MethodGet, "/admin/api/collections/blog_posts", nil)
	if items := decodeBody(t, rr)["items"].([]any); len(items) != 1 {
		t.Fatalf("expected one stored post, got %d", len(items))
	}
}

func TestListCollectionFailureReturnsEmptyItems(t *testing.T) {
	srv := newTestServer(t)
	srv.login(t)
	if err := srv.gdb.Migrator().DropTable(&db.Document{}); err != nil {
		t.Fatalf("failed to drop documents: %v", err)
	}

	rr := srv.do(t, http.MethodGet, "/admin/api/collections/escooters", nil)
	expectStatus(t, rr, http.StatusInternalServerError)
	body := decodeBody(t, rr)
	items, ok := body["items"].([]any)
	if !ok || len(items) != 0 {
		t.Fatalf("expected empty items, got %s", rr.Body.String())
	}
	if notice, _ := body["notice"].(map[string]any); notice["level"] != "error" {
		t.Fatalf("expected error notice, got %v", body["notice"])
	}
}

func TestCollectionEditorPublishesBlogPost(t *testing.T) {
	srv := newTestServer(t)
	srv.login(t)
	base := "/admin/api/collections/blog_posts/editor"

	rr := srv.do(t, http.MethodPost, base, nil)
	expectStatus(t, rr, http.StatusOK)
	if decodeBody(t, rr)["editorOpen"] != true {
		t.Fatal("expected editor to open")
	}

	rr = srv.do(t, http.MethodPatch, base, map[string]any{
		"title":   "Hello Islands",
		"content": "Calm water and **long** days.\n\nhttps://youtu.be/dQw4w9WgXcQ",
		"status":  "published",
	})
	expectStatus(t, rr, http.StatusOK)

	expectStatus(t, srv.do(t, http.MethodPost, base+"/lists/keywords", map[string]string{"value": "islands"}), http.StatusOK)
	expectStatus(t, srv.do(t, http.MethodPost, base+"/lists/keywords", map[string]string{"value": "snorkel"}), http.StatusOK)
	rr = srv.do(t, http.MethodDelete, base+"/lists/keywords/1", nil)
	expectStatus(t, rr, http.StatusOK)
	keywords := decodeBody(t, rr)["editor"].(map[string]any)["keywords"].([]any)
	if len(keywords) != 1 || keywords[0] != "islands" {
		t.Fatalf("unexpected keywords %v", keywords)
	}

	rr = srv.do(t, http.MethodPost, base+"/submit", nil)
	expectStatus(t, rr, http.StatusOK)
	body := decodeBody(t, rr)
	if body["editorOpen"] != false {
		t.Fatal("expected editor to close after submit")
	}
	if slug := body["item"].(map[string]any)["slug"]; slug != "hello-islands" {
		t.Fatalf("expected derived slug, got %v", slug)
	}

	rr = srv.do(t, http.MethodGet, "/api/blog?q=islands", nil)
	expectStatus(t, rr, http.StatusOK)
	if posts := decodeBody(t, rr)["posts"].([]any); len(posts) != 1 {
		t.Fatalf("expected search to find the post, got %d", len(posts))
	}

	rr = srv.do(t, http.MethodGet, "/api/blog/hello-islands", nil)
	expectStatus(t, rr, http.StatusOK)
	html := decodeBody(t, rr)["post"].(map[string]any)["html"].(string)
	if !strings.Contains(html, "<strong>long</strong>") {
		t.Fatalf("expected rendered markdown, got %q", html)
	}
	if !strings.Contains(html, "https://www.youtube-nocookie.com/embed/dQw4w9WgXcQ") {
		t.Fatalf("expected video embed, got %q", html)
	}

	expectStatus(t, srv.do(t, http.MethodGet, "/api/blog/missing", nil), http.StatusNotFound)
}

func TestCollectionEditorRequiresOpenEditor(t *testing.T) {
	srv := newTestServer(t)
	srv.login(t)
	base := "/admin/api/collections/blog_posts/editor"

	expectStatus(t, srv.do(t, http.MethodPost, base+"/submit", nil), http.StatusConflict)

	expectStatus(t, srv.do(t, http.MethodPost, base, nil), http.StatusOK)
	rr := srv.do(t, http.MethodPost, base+"/submit", nil)
	expectStatus(t, rr, http.StatusBadRequest)
	if decodeBody(t, rr)["editorOpen"] != true {
		t.Fatal("expected editor to stay open after a failed submit")
	}

	expectStatus(t, srv.do(t, http.MethodDelete, base, nil), http.StatusNoContent)
	expectStatus(t, srv.do(t, http.MethodPatch, base, map[string]string{"title": "x"}), http.StatusConflict)
}

package client

import (
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/finditapp/findit/internal/api"
	"github.com/finditapp/findit/internal/db"
	"github.com/finditapp/findit/internal/model"
	"github.com/finditapp/findit/internal/registry"
	"github.com/finditapp/findit/internal/session"
)

func setupClient(t *testing.T) *Client {
	t.Helper()
	database := db.NewTestDB(t)
	server := httptest.NewServer(api.NewRouter(database, "test-secret"))
	t.Cleanup(server.Close)
	return New(server.URL, filepath.Join(t.TempDir(), "token"))
}

func validDraft() registry.Draft {
	return registry.Draft{
		Title:       "Blue Wallet",
		Description: "Leather wallet with a broken zipper",
		Category:    "Accessories",
		Location:    "Library",
		ContactInfo: "a@b.com",
		Type:        model.TypeLost,
	}
}

func TestTrackerFollowsClientSession(t *testing.T) {
	c := setupClient(t)
	ctx := context.Background()

	tracker := session.NewTracker(ctx, c)
	defer tracker.Close()

	if !tracker.Identity().IsAnonymous() {
		t.Fatal("expected anonymous before sign-in")
	}

	id, err := c.Register(ctx, "finder@example.org", "password123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if id.Email != "finder@example.org" || id.UserID == "" {
		t.Errorf("unexpected identity: %+v", id)
	}

	// The tracker picked up the change through the feed.
	if got := tracker.Identity(); got != id {
		t.Errorf("tracker identity = %+v, want %+v", got, id)
	}

	if err := c.SignOut(ctx); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if !tracker.Identity().IsAnonymous() {
		t.Error("expected anonymous after sign-out")
	}
}

func TestSubmitThroughClient(t *testing.T) {
	c := setupClient(t)
	ctx := context.Background()

	id, err := c.Register(ctx, "finder@example.org", "password123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	pipeline := &registry.Pipeline{Repo: c}
	item, err := pipeline.Submit(ctx, validDraft(), id)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if item.ID == "" || item.Status != model.StatusActive || item.ReporterID != id.UserID {
		t.Errorf("unexpected persisted report: %+v", item)
	}

	items, err := c.ListByType(ctx, model.TypeLost, model.StatusActive)
	if err != nil {
		t.Fatalf("ListByType: %v", err)
	}
	if len(items) != 1 || items[0].ID != item.ID {
		t.Errorf("expected the report in the listing, got %+v", items)
	}
}

func TestSubmitErrorsSurviveTheWire(t *testing.T) {
	c := setupClient(t)
	ctx := context.Background()

	pipeline := &registry.Pipeline{Repo: c}

	// Anonymous submissions fail locally, before any request.
	_, err := pipeline.Submit(ctx, validDraft(), session.Anonymous)
	var authErr *registry.AuthError
	if !errors.As(err, &authErr) {
		t.Errorf("expected AuthError, got %v", err)
	}

	id, err := c.Register(ctx, "finder@example.org", "password123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	// Server-side rejections come back as the same validation error.
	bad := validDraft()
	bad.Title = "AB"
	_, err = c.Insert(ctx, bad, id.UserID)
	var valErr *registry.ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if valErr.Field != "title" {
		t.Errorf("expected field 'title', got %q", valErr.Field)
	}
}

func TestListByTypeFetchError(t *testing.T) {
	c := setupClient(t)

	_, err := c.ListByType(context.Background(), "stolen", model.StatusActive)
	var fetchErr *registry.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fetchErr.Error() == "" {
		t.Error("expected the server message to be preserved")
	}
}

func TestTokenPersistsAcrossClients(t *testing.T) {
	database := db.NewTestDB(t)
	server := httptest.NewServer(api.NewRouter(database, "test-secret"))
	defer server.Close()
	tokenPath := filepath.Join(t.TempDir(), "token")
	ctx := context.Background()

	first := New(server.URL, tokenPath)
	id, err := first.Register(ctx, "finder@example.org", "password123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	// A fresh client at the same path resumes the session.
	second := New(server.URL, tokenPath)
	got, err := second.CurrentSession(ctx)
	if err != nil {
		t.Fatalf("CurrentSession: %v", err)
	}
	if got != id {
		t.Errorf("resumed identity = %+v, want %+v", got, id)
	}

	if err := second.SignOut(ctx); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if _, err := os.Stat(tokenPath); !os.IsNotExist(err) {
		t.Error("expected token file removed after sign-out")
	}
}

func TestResolveAndMine(t *testing.T) {
	c := setupClient(t)
	ctx := context.Background()

	id, err := c.Register(ctx, "finder@example.org", "password123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	item, err := c.Insert(ctx, validDraft(), id.UserID)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	resolved, err := c.Resolve(ctx, item.ID)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved.Status != model.StatusResolved {
		t.Errorf("expected status 'resolved', got %q", resolved.Status)
	}

	mine, err := c.Mine(ctx)
	if err != nil {
		t.Fatalf("Mine: %v", err)
	}
	if len(mine) != 1 || mine[0].Status != model.StatusResolved {
		t.Errorf("expected own resolved report, got %+v", mine)
	}
}

package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/finditapp/findit/internal/db"
	"github.com/finditapp/findit/internal/model"
)

// testReporter creates a user to own test reports.
func testReporter(t *testing.T, database *sql.DB, email string) string {
	t.Helper()
	user, err := CreateUser(context.Background(), database, email, "hash")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return user.ID
}

func testItem(reporterID string) model.Item {
	return model.Item{
		Title:        "Blue Wallet",
		Description:  "Leather wallet with a broken zipper",
		Category:     "Accessories",
		Location:     "Library",
		DateOccurred: "2026-08-30",
		ContactInfo:  "finder@example.org",
		Type:         model.TypeLost,
		ReporterID:   reporterID,
	}
}

func TestInsertAndGetItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	reporter := testReporter(t, database, "a@b.com")

	item, err := InsertItem(ctx, database, testItem(reporter))
	if err != nil {
		t.Fatalf("InsertItem: %v", err)
	}

	if item.ID == "" {
		t.Error("expected store-assigned id")
	}
	if item.Status != model.StatusActive {
		t.Errorf("expected status 'active', got %q", item.Status)
	}
	if item.CreatedAt.IsZero() {
		t.Error("expected store-assigned created_at")
	}
	if item.ReporterID != reporter {
		t.Errorf("expected reporter %q, got %q", reporter, item.ReporterID)
	}

	got, err := GetItem(ctx, database, item.ID)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got == nil || got.Title != "Blue Wallet" {
		t.Errorf("expected persisted item back, got %+v", got)
	}
}

func TestGetItemMissing(t *testing.T) {
	database := db.NewTestDB(t)

	item, err := GetItem(context.Background(), database, "no-such-id")
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if item != nil {
		t.Errorf("expected nil for missing item, got %+v", item)
	}
}

func TestInsertItemOptionalFieldsAbsent(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	reporter := testReporter(t, database, "a@b.com")

	draft := testItem(reporter)
	draft.ContactInfo = ""
	draft.ImageURL = ""

	item, err := InsertItem(ctx, database, draft)
	if err != nil {
		t.Fatalf("InsertItem: %v", err)
	}

	// Stored as NULL, read back as empty.
	var contactInfo, imageURL sql.NullString
	err = database.QueryRow(`SELECT contact_info, image_url FROM items WHERE id = ?`, item.ID).
		Scan(&contactInfo, &imageURL)
	if err != nil {
		t.Fatalf("querying raw columns: %v", err)
	}
	if contactInfo.Valid || imageURL.Valid {
		t.Errorf("expected NULL optional columns, got %+v %+v", contactInfo, imageURL)
	}
	if item.ContactInfo != "" || item.ImageURL != "" {
		t.Errorf("expected empty optional fields, got %+v", item)
	}
}

func TestInsertItemRejectsUnknownCategory(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	reporter := testReporter(t, database, "a@b.com")

	draft := testItem(reporter)
	draft.Category = "Jewelry"

	if _, err := InsertItem(ctx, database, draft); err == nil {
		t.Error("expected error for unknown category")
	}
}

func TestListItemsNewestFirst(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	reporter := testReporter(t, database, "a@b.com")

	first := testItem(reporter)
	first.Title = "First Report"
	second := testItem(reporter)
	second.Title = "Second Report"

	InsertItem(ctx, database, first)
	InsertItem(ctx, database, second)

	items, err := ListItems(ctx, database, model.TypeLost, model.StatusActive)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Title != "Second Report" || items[1].Title != "First Report" {
		t.Errorf("expected newest first, got %q then %q", items[0].Title, items[1].Title)
	}
}

func TestListItemsByTypeAndStatus(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	reporter := testReporter(t, database, "a@b.com")

	lost := testItem(reporter)
	found := testItem(reporter)
	found.Type = model.TypeFound

	InsertItem(ctx, database, lost)
	persisted, _ := InsertItem(ctx, database, found)
	ResolveItem(ctx, database, persisted.ID, reporter)

	lostItems, _ := ListItems(ctx, database, model.TypeLost, model.StatusActive)
	if len(lostItems) != 1 {
		t.Errorf("expected 1 active lost item, got %d", len(lostItems))
	}

	foundActive, _ := ListItems(ctx, database, model.TypeFound, model.StatusActive)
	if len(foundActive) != 0 {
		t.Errorf("expected 0 active found items, got %d", len(foundActive))
	}

	foundResolved, _ := ListItems(ctx, database, model.TypeFound, model.StatusResolved)
	if len(foundResolved) != 1 {
		t.Errorf("expected 1 resolved found item, got %d", len(foundResolved))
	}
}

func TestListItemsByReporter(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	alice := testReporter(t, database, "alice@example.org")
	bob := testReporter(t, database, "bob@example.org")

	InsertItem(ctx, database, testItem(alice))
	item, _ := InsertItem(ctx, database, testItem(alice))
	InsertItem(ctx, database, testItem(bob))
	ResolveItem(ctx, database, item.ID, alice)

	// Own reports include resolved ones.
	items, err := ListItemsByReporter(ctx, database, alice)
	if err != nil {
		t.Fatalf("ListItemsByReporter: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("expected 2 reports for alice, got %d", len(items))
	}
}

func TestResolveItemOwnership(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	alice := testReporter(t, database, "alice@example.org")
	bob := testReporter(t, database, "bob@example.org")

	item, _ := InsertItem(ctx, database, testItem(alice))

	ok, err := ResolveItem(ctx, database, item.ID, bob)
	if err != nil {
		t.Fatalf("ResolveItem: %v", err)
	}
	if ok {
		t.Error("expected resolve to fail for non-reporter")
	}

	ok, err = ResolveItem(ctx, database, item.ID, alice)
	if err != nil {
		t.Fatalf("ResolveItem: %v", err)
	}
	if !ok {
		t.Error("expected resolve to succeed for reporter")
	}

	got, _ := GetItem(ctx, database, item.ID)
	if got.Status != model.StatusResolved {
		t.Errorf("expected status 'resolved', got %q", got.Status)
	}
}

package audit_test

import (
	"testing"
	"time"

	"github.com/dalemusser/leaguehub/internal/app/store/audit"
	"github.com/dalemusser/leaguehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Log(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	err := store.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		UserID:    &userID,
		IP:        "192.168.1.1",
		UserAgent: "TestBrowser/1.0",
		Success:   true,
	})
	if err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	events, err := store.Query(ctx, audit.QueryFilter{UserID: &userID})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].ID.IsZero() {
		t.Error("expected generated ID")
	}
	if events[0].Timestamp.IsZero() {
		t.Error("expected generated timestamp")
	}
}

func TestStore_QueryFilters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	base := time.Now().UTC().Add(-time.Hour)
	events := []audit.Event{
		{Category: audit.CategoryAdmin, EventType: audit.EventCandidateApproved, Subject: "ana@uni.br", Success: true, Timestamp: base},
		{Category: audit.CategoryAdmin, EventType: audit.EventCandidateRejected, Subject: "bia@uni.br", Success: true, Timestamp: base.Add(time.Minute)},
		{Category: audit.CategoryAuth, EventType: audit.EventLoginFailed, Subject: "ana@uni.br", Success: false, Timestamp: base.Add(2 * time.Minute)},
	}
	for _, e := range events {
		if err := store.Log(ctx, e); err != nil {
			t.Fatalf("Log failed: %v", err)
		}
	}

	admin, err := store.Query(ctx, audit.QueryFilter{Category: audit.CategoryAdmin})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(admin) != 2 {
		t.Fatalf("expected 2 admin events, got %d", len(admin))
	}
	if admin[0].EventType != audit.EventCandidateRejected {
		t.Errorf("expected newest first, got %q", admin[0].EventType)
	}

	n, err := store.CountByFilter(ctx, audit.QueryFilter{Subject: "ana@uni.br"})
	if err != nil {
		t.Fatalf("CountByFilter failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 events for ana, got %d", n)
	}

	recent, err := store.GetRecent(ctx, 1)
	if err != nil {
		t.Fatalf("GetRecent failed: %v", err)
	}
	if len(recent) != 1 || recent[0].EventType != audit.EventLoginFailed {
		t.Errorf("unexpected recent events: %+v", recent)
	}
}

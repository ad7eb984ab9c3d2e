package attendancestore_test

import (
	"errors"
	"testing"

	attendancestore "github.com/dalemusser/leaguehub/internal/app/store/attendance"
	"github.com/dalemusser/leaguehub/internal/domain/models"
	"github.com/dalemusser/leaguehub/internal/testutil"
)

func TestStore_RecordForEvent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := attendancestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	ev := fx.CreateEvent(ctx, "", "2025-04-02")

	a, err := store.RecordForEvent(ctx, " Ana@Uni.br ", ev)
	if err != nil {
		t.Fatalf("RecordForEvent failed: %v", err)
	}
	if a.EmailAluno != "ana@uni.br" || a.IDEvento != ev.ID.Hex() || a.IsExternal {
		t.Errorf("unexpected record: %+v", a)
	}
	if a.TitleEvento != models.DefaultEventTitle || a.Date != "2025-04-02" {
		t.Errorf("title/date not copied: %+v", a)
	}

	if _, err := store.RecordForEvent(ctx, "ANA@uni.br", ev); !errors.Is(err, attendancestore.ErrAlreadyRecorded) {
		t.Errorf("expected ErrAlreadyRecorded, got %v", err)
	}
	if _, err := store.RecordForEvent(ctx, "  ", ev); !errors.Is(err, attendancestore.ErrEmailRequired) {
		t.Errorf("expected ErrEmailRequired, got %v", err)
	}
}

func TestStore_ListForEmail_CaseInsensitive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := attendancestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	fx.CreateAttendance(ctx, "ANA@UNI.BR", "ev1", false)
	fx.CreateAttendance(ctx, "bia@uni.br", "ev1", false)

	if _, err := store.RecordExternal(ctx, attendancestore.ExternalInput{Email: "ana@uni.br", Title: "Congresso", Date: "2025-01-10", Workload: "8h"}); err != nil {
		t.Fatalf("RecordExternal failed: %v", err)
	}

	rows, err := store.ListForEmail(ctx, "ana@uni.br")
	if err != nil {
		t.Fatalf("ListForEmail failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows for ana, got %d", len(rows))
	}
	var external int
	for _, r := range rows {
		if r.IsExternal {
			external++
			if r.IDEvento != models.ExternalEventID || r.Workload != "8h" {
				t.Errorf("unexpected external row: %+v", r)
			}
		}
	}
	if external != 1 {
		t.Errorf("expected 1 external row, got %d", external)
	}

	all, _ := store.ListAll(ctx)
	if len(all) != 3 {
		t.Errorf("ListAll: got %d", len(all))
	}
}

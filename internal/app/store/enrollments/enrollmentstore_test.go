package enrollmentstore_test

import (
	"errors"
	"testing"

	enrollmentstore "github.com/dalemusser/leaguehub/internal/app/store/enrollments"
	"github.com/dalemusser/leaguehub/internal/domain/models"
	"github.com/dalemusser/leaguehub/internal/testutil"
)

func TestStore_CreateStatusDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := enrollmentstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	e, err := store.Create(ctx, models.Enrollment{
		ActivityID: "act-1", ActivityTitle: "Bancada", FullName: " Ana  Souza ",
		RegistrationID: "2024001", Semester: "3", Email: "Ana@Uni.br", Status: "ignored",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if e.Email != "ana@uni.br" || e.FullName != "Ana Souza" || e.Status != "" || e.Timestamp == "" {
		t.Errorf("unexpected enrollment: %+v", e)
	}

	exists, err := store.Exists(ctx, "ANA@uni.br", "act-1")
	if err != nil || !exists {
		t.Errorf("Exists: got (%v, %v)", exists, err)
	}
	if exists, _ := store.Exists(ctx, "ana@uni.br", "act-2"); exists {
		t.Error("different activity must not count")
	}

	if err := store.SetStatus(ctx, e.ID, models.CandidateWaitlisted); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	got, _ := store.GetByID(ctx, e.ID)
	if got.Status != models.CandidateWaitlisted {
		t.Errorf("status: got %q", got.Status)
	}

	list, _ := store.ListForActivity(ctx, "act-1")
	if len(list) != 1 {
		t.Errorf("ListForActivity: got %d", len(list))
	}

	if err := store.Delete(ctx, e.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := store.SetStatus(ctx, e.ID, "x"); !errors.Is(err, enrollmentstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if n, _ := store.Count(ctx); n != 0 {
		t.Errorf("Count after delete: %d", n)
	}
}

func TestStore_Enroll_RejectsDuplicate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := enrollmentstore.New(db)

	in := models.Enrollment{ActivityID: "act-1", ActivityTitle: "Bancada", FullName: "Ana", Email: "Ana@uni.br", Semester: "3", RegistrationID: "1"}
	if _, err := store.Enroll(ctx, in); err != nil {
		t.Fatalf("first Enroll failed: %v", err)
	}
	in.Email = "ana@UNI.br"
	if _, err := store.Enroll(ctx, in); !errors.Is(err, enrollmentstore.ErrAlreadyEnrolled) {
		t.Fatalf("expected ErrAlreadyEnrolled, got %v", err)
	}
	in.ActivityID = "act-2"
	if _, err := store.Enroll(ctx, in); err != nil {
		t.Errorf("another activity must be allowed: %v", err)
	}
}

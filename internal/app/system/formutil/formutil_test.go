package formutil_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/dalemusser/leaguehub/internal/app/system/blobstore"
	"github.com/dalemusser/leaguehub/internal/app/system/formutil"
	"github.com/dalemusser/leaguehub/internal/testutil"
)

type input struct {
	Title string `json:"title" validate:"required"`
}

func TestParse_MultipartWithFiles(t *testing.T) {
	blobs := testutil.LocalBlobs(t)
	req := testutil.NewMultipartRequest(t, http.MethodPost, "/events", input{Title: "Simpósio"},
		testutil.FilePart{Field: "image", Name: "banner final.png", ContentType: "image/png", Body: "PNGDATA"},
	)
	rec := httptest.NewRecorder()

	var in input
	if !formutil.Parse(rec, req, 1<<20, &in) {
		t.Fatalf("Parse failed: %d %s", rec.Code, rec.Body.String())
	}
	if in.Title != "Simpósio" {
		t.Errorf("title = %q", in.Title)
	}

	obj, ok, err := formutil.Upload(context.Background(), blobs, req, "image", blobstore.DirEvents, nil)
	if err != nil || !ok {
		t.Fatalf("Upload: ok=%v err=%v", ok, err)
	}
	if !strings.HasPrefix(obj.Key, "events/") || !strings.HasSuffix(obj.Key, "banner_final.png") {
		t.Errorf("unexpected key %q", obj.Key)
	}
	if obj.ContentType != "image/png" || obj.FileName != "banner final.png" {
		t.Errorf("unexpected object %+v", obj)
	}
	p, _ := blobs.FullPath(obj.Key)
	if b, err := os.ReadFile(p); err != nil || string(b) != "PNGDATA" {
		t.Errorf("stored file: %q %v", b, err)
	}

	if _, ok, _ := formutil.Upload(context.Background(), blobs, req, "missing", blobstore.DirEvents, nil); ok {
		t.Error("absent field must report ok=false")
	}
}

func TestParse_Validation(t *testing.T) {
	req := testutil.NewMultipartRequest(t, http.MethodPost, "/events", input{})
	rec := httptest.NewRecorder()
	var in input
	if formutil.Parse(rec, req, 1<<20, &in) {
		t.Fatal("expected validation failure")
	}
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestParse_TooLarge(t *testing.T) {
	req := testutil.NewMultipartRequest(t, http.MethodPost, "/events", input{Title: "x"},
		testutil.FilePart{Field: "image", Name: "a.bin", ContentType: "application/octet-stream", Body: strings.Repeat("x", 4096)},
	)
	rec := httptest.NewRecorder()
	var in input
	if formutil.Parse(rec, req, 1024, &in) {
		t.Fatal("expected size failure")
	}
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestParse_PlainJSON(t *testing.T) {
	req := testutil.NewJSONRequest(t, http.MethodPost, "/events", input{Title: "Aula"})
	rec := httptest.NewRecorder()
	var in input
	if !formutil.Parse(rec, req, 1<<20, &in) || in.Title != "Aula" {
		t.Fatalf("plain JSON not accepted: %d %+v", rec.Code, in)
	}
}

func TestUploadAll_Order(t *testing.T) {
	blobs := testutil.LocalBlobs(t)
	req := testutil.NewMultipartRequest(t, http.MethodPost, "/feed", input{Title: "x"},
		testutil.FilePart{Field: "media", Name: "a.jpg", ContentType: "image/jpeg", Body: "A"},
		testutil.FilePart{Field: "media", Name: "b.mp4", ContentType: "video/mp4", Body: "B"},
	)
	var in input
	if !formutil.Parse(httptest.NewRecorder(), req, 1<<20, &in) {
		t.Fatal("Parse failed")
	}
	objs, err := formutil.UploadAll(context.Background(), blobs, req, "media", blobstore.DirPosts)
	if err != nil {
		t.Fatalf("UploadAll: %v", err)
	}
	if len(objs) != 2 || objs[0].FileName != "a.jpg" || objs[1].ContentType != "video/mp4" {
		t.Errorf("unexpected objects %+v", objs)
	}
}

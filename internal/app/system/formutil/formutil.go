// Package formutil reads the multipart forms the admin and member screens
// submit. The record travels as JSON in the "payload" field so it goes
// through the same validation as a plain JSON request; files ride along in
// their own fields and are written to the blob store.
//
// Example:
//
//	var in eventInput
//	if !formutil.Parse(w, r, limits.MaxImageUpload, &in) {
//		return
//	}
//	obj, ok, err := formutil.Upload(ctx, h.Blobs, r, "image", blobstore.DirEvents, nil)
package formutil

import (
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/dalemusser/leaguehub/internal/app/system/blobstore"
	"github.com/dalemusser/leaguehub/internal/app/system/limits"
	"github.com/dalemusser/leaguehub/internal/app/system/respond"
	"github.com/dalemusser/leaguehub/internal/app/system/validate"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PayloadField carries the JSON record inside a multipart form.
const PayloadField = "payload"

// MsgTooLarge is shown when a form exceeds its limit.
const MsgTooLarge = "Arquivo muito grande."

// IsMultipart reports whether r carries a multipart body.
func IsMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// Parse reads r into v. A multipart body is limited to maxBytes and its
// payload field is decoded; any other body is read as plain JSON. On failure
// the response has been written and false is returned.
func Parse(w http.ResponseWriter, r *http.Request, maxBytes int64, v any) bool {
	if !IsMultipart(r) {
		return respond.Decode(w, r, v)
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(limits.MaxMemory); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			respond.Message(w, http.StatusRequestEntityTooLarge, MsgTooLarge)
			return false
		}
		respond.BadRequest(w, respond.MsgBadRequest)
		return false
	}
	if raw := r.FormValue(PayloadField); raw != "" {
		if err := json.Unmarshal([]byte(raw), v); err != nil {
			respond.BadRequest(w, respond.MsgBadRequest)
			return false
		}
	}
	if err := validate.Struct(v); err != nil {
		var fe validate.Errors
		if errors.As(err, &fe) {
			respond.Invalid(w, fe)
			return false
		}
		respond.BadRequest(w, respond.MsgBadRequest)
		return false
	}
	return true
}

// Upload stores the first file in field under dir. ok is false when the
// form has no such file. Parse must have run first.
func Upload(ctx context.Context, s blobstore.Store, r *http.Request, field, dir string, progress blobstore.Progress) (obj blobstore.Object, ok bool, err error) {
	if r.MultipartForm == nil || len(r.MultipartForm.File[field]) == 0 {
		return blobstore.Object{}, false, nil
	}
	obj, err = put(ctx, s, r.MultipartForm.File[field][0], dir, progress)
	return obj, err == nil, err
}

// UploadAll stores every file in field under dir, in form order. If one
// fails, the ones already stored are deleted.
func UploadAll(ctx context.Context, s blobstore.Store, r *http.Request, field, dir string) ([]blobstore.Object, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	var out []blobstore.Object
	for _, fh := range r.MultipartForm.File[field] {
		obj, err := put(ctx, s, fh, dir, nil)
		if err != nil {
			for _, done := range out {
				_ = s.Delete(ctx, done.Key)
			}
			return nil, err
		}
		out = append(out, obj)
	}
	return out, nil
}

func put(ctx context.Context, s blobstore.Store, fh *multipart.FileHeader, dir string, progress blobstore.Progress) (blobstore.Object, error) {
	f, err := fh.Open()
	if err != nil {
		return blobstore.Object{}, err
	}
	defer f.Close()
	ct := fh.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/octet-stream"
	}
	return blobstore.Upload(ctx, s, dir, fh.Filename, f, fh.Size, ct, progress)
}

// IDParam reads the {id} route parameter. A malformed id writes 404.
func IDParam(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.NotFound(w)
		return primitive.NilObjectID, false
	}
	return id, true
}

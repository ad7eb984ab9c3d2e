// internal/app/features/members/import.go
package members

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/leaguehub/internal/app/system/authz"
	"github.com/dalemusser/leaguehub/internal/app/system/csvutil"
	"github.com/dalemusser/leaguehub/internal/app/system/formutil"
	"github.com/dalemusser/leaguehub/internal/app/system/respond"
	"github.com/dalemusser/leaguehub/internal/app/system/timeouts"
	"github.com/dalemusser/leaguehub/internal/domain/models"
	"go.uber.org/zap"
)

// Import notices.
const (
	MsgImportFileRequired = "Envie um arquivo CSV no campo \"file\"."
	MsgImportRejected     = "Importação recusada: corrija as linhas indicadas."
	MsgImportTooManyRows  = "O arquivo tem linhas demais."
	MsgImportPreview      = "Pré-visualização: nada foi gravado."
	MsgImportDone         = "Importação concluída."
)

type importInput struct {
	DefaultRole string `json:"default_role"`
	DryRun      bool   `json:"dry_run"`
}

// ImportReport is returned as the notice data of an import.
type ImportReport struct {
	Imported int                `json:"imported"`
	Rows     []csvutil.RosterRow `json:"rows,omitempty"`
	Errors   []csvutil.RowError  `json:"errors,omitempty"`
}

// HandleImport handles POST /members/import: a multipart form with a CSV
// roster in "file" (Nome,Email[,Cargo]). Every line is checked before any
// write; one bad line rejects the whole file. Each row is upserted by email
// so re-importing the same file changes nothing.
func (h *Handler) HandleImport(w http.ResponseWriter, r *http.Request) {
	_, _, actor, _ := authz.UserCtx(r)

	if !formutil.IsMultipart(r) {
		respond.BadRequest(w, MsgImportFileRequired)
		return
	}
	var in importInput
	if !formutil.Parse(w, r, csvutil.MaxUploadSize, &in) {
		return
	}
	f, _, err := r.FormFile("file")
	if err != nil {
		respond.BadRequest(w, MsgImportFileRequired)
		return
	}
	defer f.Close()

	role := strings.TrimSpace(in.DefaultRole)
	if role == "" {
		role = models.TitleGeneralMember
	}
	res, err := csvutil.ParseRoster(f, role)
	if err != nil {
		if errors.Is(err, csvutil.ErrTooManyRows) {
			respond.BadRequest(w, MsgImportTooManyRows)
			return
		}
		respond.BadRequest(w, respond.MsgBadRequest)
		return
	}
	if res.HasErrors() {
		respond.JSON(w, http.StatusUnprocessableEntity, respond.Notice{
			Notice: MsgImportRejected,
			Data:   ImportReport{Errors: res.Errors},
		})
		return
	}
	if in.DryRun {
		respond.OK(w, respond.Notice{Notice: MsgImportPreview, Data: ImportReport{Rows: res.Rows}})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	n := 0
	for _, m := range res.Members() {
		saved, err := h.Roster.Upsert(ctx, m)
		if err != nil {
			h.Log.Error("roster import failed", zap.String("email", m.Email), zap.Int("imported", n), zap.Error(err))
			respond.JSON(w, http.StatusInternalServerError, respond.Notice{
				Notice: respond.MsgServer,
				Data:   ImportReport{Imported: n},
			})
			return
		}
		h.AuditLog.MemberSaved(r.Context(), r, actor, saved.Email)
		n++
	}
	h.Log.Info("roster imported", zap.Int("rows", n))
	respond.OK(w, respond.Notice{Notice: MsgImportDone, Data: ImportReport{Imported: n}})
}

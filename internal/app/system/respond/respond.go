// Package respond writes the JSON bodies shared by every feature.
package respond

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dalemusser/leaguehub/internal/app/system/validate"
)

// MaxBody bounds JSON request bodies.
const MaxBody = 1 << 20

// Fixed notices.
const (
	MsgBadRequest = "Requisição inválida."
	MsgNotFound   = "Registro não encontrado."
	MsgServer     = "Não foi possível concluir a operação. Tente novamente."
	MsgSaved      = "Salvo com sucesso."
	MsgDeleted    = "Excluído com sucesso."
)

// Notice is the body of every informational or error response.
type Notice struct {
	Notice string          `json:"notice"`
	Fields validate.Errors `json:"fields,omitempty"`
	Data   any             `json:"data,omitempty"`
}

// JSON writes v with status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// OK writes v with 200.
func OK(w http.ResponseWriter, v any) { JSON(w, http.StatusOK, v) }

// Message writes a notice with status.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, Notice{Notice: msg})
}

// Created writes a notice plus the created record.
func Created(w http.ResponseWriter, msg string, data any) {
	JSON(w, http.StatusCreated, Notice{Notice: msg, Data: data})
}

func BadRequest(w http.ResponseWriter, msg string) { Message(w, http.StatusBadRequest, msg) }
func NotFound(w http.ResponseWriter)              { Message(w, http.StatusNotFound, MsgNotFound) }
func ServerError(w http.ResponseWriter)           { Message(w, http.StatusInternalServerError, MsgServer) }

// Invalid writes 422 with the field errors.
func Invalid(w http.ResponseWriter, fe validate.Errors) {
	JSON(w, http.StatusUnprocessableEntity, Notice{Notice: MsgBadRequest, Fields: fe})
}

// Decode reads a JSON body into v and validates it. On failure the
// response has already been written and false is returned.
func Decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBody))
	if err := dec.Decode(v); err != nil {
		BadRequest(w, MsgBadRequest)
		return false
	}
	if err := validate.Struct(v); err != nil {
		var fe validate.Errors
		if errors.As(err, &fe) {
			Invalid(w, fe)
			return false
		}
		BadRequest(w, MsgBadRequest)
		return false
	}
	return true
}

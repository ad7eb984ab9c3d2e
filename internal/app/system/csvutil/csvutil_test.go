package csvutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/dalemusser/leaguehub/internal/domain/models"
)

func TestParseRoster_HeaderAndDefaults(t *testing.T) {
	in := "\ufeffNome,E-mail,Cargo\n" +
		"Ana Souza,ANA@uni.br,Diretora de Pesquisa\n" +
		"Bruno Lima,bruno@uni.br\n"

	res, err := ParseRoster(strings.NewReader(in), models.TitleGeneralMember)
	if err != nil {
		t.Fatalf("ParseRoster() error = %v", err)
	}
	if res.HasErrors() {
		t.Fatalf("unexpected errors: %+v", res.Errors)
	}
	if len(res.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(res.Rows))
	}
	if res.Rows[0].Email != "ana@uni.br" {
		t.Errorf("email not normalized: %q", res.Rows[0].Email)
	}
	if res.Rows[0].Role != "Diretora de Pesquisa" {
		t.Errorf("explicit title lost: %q", res.Rows[0].Role)
	}
	if res.Rows[1].Role != models.TitleGeneralMember {
		t.Errorf("default title = %q", res.Rows[1].Role)
	}
}

func TestParseRoster_NoHeader(t *testing.T) {
	res, err := ParseRoster(strings.NewReader("Ana,ana@uni.br\nBruno,bruno@uni.br"), models.TitleGeneralMember)
	if err != nil {
		t.Fatalf("ParseRoster() error = %v", err)
	}
	if len(res.Rows) != 2 {
		t.Errorf("got %d rows, want 2", len(res.Rows))
	}
}

func TestParseRoster_Empty(t *testing.T) {
	res, err := ParseRoster(strings.NewReader(""), models.TitleGeneralMember)
	if err != nil {
		t.Fatalf("ParseRoster() error = %v", err)
	}
	if len(res.Rows) != 0 || res.HasErrors() {
		t.Errorf("empty input should give nothing, got %+v", res)
	}
}

func TestParseRoster_RejectsBadLines(t *testing.T) {
	tests := []struct {
		name   string
		csv    string
		reason string
	}{
		{"missing name", ",ana@uni.br", "nome ausente"},
		{"missing email", "Ana,", "e-mail ausente"},
		{"invalid email", "Ana,not-an-email", "e-mail inválido"},
		{"duplicate", "Ana,ana@uni.br\nOutra Ana,ANA@uni.br", "e-mail repetido (linha 1)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ParseRoster(strings.NewReader(tt.csv), models.TitleGeneralMember)
			if err != nil {
				t.Fatalf("ParseRoster() error = %v", err)
			}
			if len(res.Errors) != 1 {
				t.Fatalf("got %d errors, want 1: %+v", len(res.Errors), res.Errors)
			}
			if res.Errors[0].Reason != tt.reason {
				t.Errorf("reason = %q, want %q", res.Errors[0].Reason, tt.reason)
			}
		})
	}
}

func TestParseRoster_SkipsBlankRows(t *testing.T) {
	res, err := ParseRoster(strings.NewReader("Ana,ana@uni.br\n,\nBruno,bruno@uni.br"), models.TitleGeneralMember)
	if err != nil {
		t.Fatalf("ParseRoster() error = %v", err)
	}
	if len(res.Rows) != 2 || res.HasErrors() {
		t.Errorf("blank row should be ignored, got %+v", res)
	}
}

func TestParseRoster_TooManyRows(t *testing.T) {
	var b strings.Builder
	for i := 0; i <= MaxRows; i++ {
		fmt.Fprintf(&b, "Pessoa %d,p%d@uni.br\n", i, i)
	}
	if _, err := ParseRoster(strings.NewReader(b.String()), models.TitleGeneralMember); err != ErrTooManyRows {
		t.Errorf("err = %v, want ErrTooManyRows", err)
	}
}

func TestMembers_GeneratesAvatars(t *testing.T) {
	res := RosterResult{Rows: []RosterRow{{FullName: "Ana Souza", Email: "ana@uni.br", Role: "Membro"}}}
	ms := res.Members()
	if len(ms) != 1 || ms[0].PhotoURL != models.AvatarURL("Ana Souza") {
		t.Errorf("unexpected members: %+v", ms)
	}
}

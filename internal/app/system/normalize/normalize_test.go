package normalize

import (
	"reflect"
	"testing"

	"github.com/dalemusser/leaguehub/internal/domain/models"
)

func TestEmail(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"user@example.com", "user@example.com"},
		{"USER@EXAMPLE.COM", "user@example.com"},
		{"  User@Example.Com  ", "user@example.com"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Email(tt.input); got != tt.want {
				t.Errorf("Email(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Ana Souza", "Ana Souza"},
		{"  Ana   Souza  ", "Ana Souza"},
		{"", ""},
		{"MARIA", "MARIA"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Name(tt.input); got != tt.want {
				t.Errorf("Name(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRole(t *testing.T) {
	tests := []struct {
		input string
		want  models.Role
	}{
		{"admin", models.RoleAdmin},
		{"  MEMBER ", models.RoleMember},
		{"visitor", models.RoleVisitor},
		{"superuser", models.RoleVisitor},
		{"", models.RoleVisitor},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Role(tt.input); got != tt.want {
				t.Errorf("Role(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"ativo", "ativo"},
		{"Inativo", "inativo"},
		{"disabled", "inativo"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Status(tt.input); got != tt.want {
				t.Errorf("Status(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestLines(t *testing.T) {
	got := Lines("  primeira regra \n\n segunda\r\n  ")
	want := []string{"primeira regra", "segunda"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Lines = %#v, want %#v", got, want)
	}
	if got := Lines(""); got == nil || len(got) != 0 {
		t.Errorf("Lines(\"\") = %#v, want empty non-nil slice", got)
	}
}

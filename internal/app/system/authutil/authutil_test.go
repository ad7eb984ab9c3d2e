package authutil

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestHashPassword_TooShort(t *testing.T) {
	if _, err := HashPassword("12345"); !errors.Is(err, ErrWeakPassword) {
		t.Errorf("expected ErrWeakPassword, got %v", err)
	}
}

func TestHashPassword_RoundTrip(t *testing.T) {
	h, err := HashPassword("123456")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !strings.HasPrefix(h, "$2") {
		t.Errorf("expected a bcrypt hash, got %q", h)
	}
	if !CheckPassword(h, "123456") {
		t.Error("correct password rejected")
	}
	if CheckPassword(h, "654321") {
		t.Error("wrong password accepted")
	}
	if CheckPassword("", "123456") {
		t.Error("empty hash must never match")
	}
}

func TestMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"in use", ErrEmailInUse, MsgEmailInUse},
		{"wrapped in use", fmt.Errorf("signup: %w", ErrEmailInUse), MsgEmailInUse},
		{"weak", ErrWeakPassword, MsgWeakPassword},
		{"invalid", ErrInvalidCredential, MsgInvalidCredential},
		{"deadline", context.DeadlineExceeded, MsgNetwork},
		{"other", errors.New("boom"), MsgDefault},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Message(tc.err); got != tc.want {
				t.Errorf("Message(%v) = %q, want %q", tc.err, got, tc.want)
			}
		})
	}
}

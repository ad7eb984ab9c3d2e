// Package authutil holds password hashing and the user-facing messages for
// authentication failures.
package authutil

import (
	"context"
	"errors"
	"net"

	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLen is the shortest password accepted at sign-up.
const MinPasswordLen = 6

// BcryptCost is the work factor for stored password hashes.
const BcryptCost = 12

var (
	ErrEmailInUse        = errors.New("email already in use")
	ErrWeakPassword      = errors.New("password too short")
	ErrInvalidCredential = errors.New("invalid email or password")
)

// Fixed messages shown to the person signing in.
const (
	MsgEmailInUse        = "Este e-mail já está cadastrado."
	MsgWeakPassword      = "A senha deve ter pelo menos 6 caracteres."
	MsgInvalidCredential = "E-mail ou senha inválidos."
	MsgNetwork           = "Erro de rede. Verifique sua internet."
	MsgDefault           = "Falha na autenticação."
)

// HashPassword validates length and returns a bcrypt hash.
func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLen {
		return "", ErrWeakPassword
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// CheckPassword reports whether password matches hash.
func CheckPassword(hash, password string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Message maps an authentication error to the text shown to the user.
// Driver and network details never reach the response.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmailInUse):
		return MsgEmailInUse
	case errors.Is(err, ErrWeakPassword):
		return MsgWeakPassword
	case errors.Is(err, ErrInvalidCredential):
		return MsgInvalidCredential
	case isNetwork(err):
		return MsgNetwork
	default:
		return MsgDefault
	}
}

func isNetwork(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne)
}

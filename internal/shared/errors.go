package shared

import (
	"context"
	"errors"
)

var (
	// ErrNotFound indicates the entity is not in the current snapshot.
	ErrNotFound = errors.New("not found")
	// ErrCSRFTokenMissing occurs when CSRF token missing.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch occurs when CSRF tokens do not match.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)

// userMessager is implemented by errors that carry text safe to show users.
type userMessager interface {
	UserMessage() string
}

// UserSafeMessage turns err into a short Portuguese message for the toast.
func UserSafeMessage(err error) string {
	return UserSafeMessageOr(err, "Erro ao comunicar com a API")
}

// UserSafeMessageOr is UserSafeMessage with the text used for errors that
// carry nothing more specific.
func UserSafeMessageOr(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var um userMessager
	if errors.As(err, &um) {
		if msg := um.UserMessage(); msg != "" {
			return msg
		}
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return "Registro não encontrado"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "A API de estoque não respondeu a tempo"
	case errors.Is(err, ErrCSRFTokenMissing), errors.Is(err, ErrCSRFTokenMismatch):
		return "Sessão expirada, recarregue a página"
	default:
		return fallback
	}
}

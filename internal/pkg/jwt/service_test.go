package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestHMACService_AccessTokenCarriesRole(t *testing.T) {
	s := NewHMACService("access-secret", "refresh-secret", time.Minute, time.Hour)
	id := uuid.New()

	tok, err := s.GenerateAccessToken(id, "grace@example.com", "admin")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	c, err := s.ValidateToken(tok)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if c.UserID != id || c.Role != "admin" || c.TokenType != TokenTypeAccess {
		t.Fatalf("unexpected claims: %+v", c)
	}
	if s.IsRefreshToken(c) {
		t.Fatalf("access token reported as refresh")
	}
}

func TestHMACService_RefreshToken(t *testing.T) {
	s := NewHMACService("access-secret", "refresh-secret", time.Minute, time.Hour)
	tok, err := s.GenerateRefreshToken(uuid.New())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	c, err := s.ValidateToken(tok)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !s.IsRefreshToken(c) {
		t.Fatalf("expected refresh token")
	}
}

func TestHMACService_Expired(t *testing.T) {
	s := NewHMACService("access-secret", "refresh-secret", time.Minute, time.Hour)
	s.now = func() time.Time { return time.Now().Add(-2 * time.Minute) }
	tok, err := s.GenerateAccessToken(uuid.New(), "", "recruiter")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	s.now = time.Now

	if _, err := s.ValidateToken(tok); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestHMACService_WrongSecret(t *testing.T) {
	a := NewHMACService("a", "b", time.Minute, time.Hour)
	b := NewHMACService("c", "d", time.Minute, time.Hour)
	tok, err := a.GenerateAccessToken(uuid.New(), "", "")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := b.ValidateToken(tok); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
	if _, err := a.ValidateToken("garbage"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

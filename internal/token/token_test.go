package token

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestIssueAndVerify(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	userID := uuid.New()

	signed, err := m.Issue(userID, "sales")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := m.Verify(signed)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("UserID = %s, want %s", claims.UserID, userID)
	}
	if claims.Role != "sales" {
		t.Errorf("Role = %q, want %q", claims.Role, "sales")
	}
}

func TestVerifyExpired(t *testing.T) {
	m := NewManager("test-secret", -time.Minute)

	signed, err := m.Issue(uuid.New(), "admin")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := m.Verify(signed); !errors.Is(err, ErrInvalid) {
		t.Errorf("Verify expired token: err = %v, want ErrInvalid", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	signed, err := NewManager("secret-a", time.Hour).Issue(uuid.New(), "admin")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := NewManager("secret-b", time.Hour).Verify(signed); !errors.Is(err, ErrInvalid) {
		t.Errorf("Verify with wrong secret: err = %v, want ErrInvalid", err)
	}
}

func TestVerifyGarbage(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	for _, tok := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := m.Verify(tok); !errors.Is(err, ErrInvalid) {
			t.Errorf("Verify(%q): err = %v, want ErrInvalid", tok, err)
		}
	}
}

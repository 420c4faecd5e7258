package crypto

import (
	"errors"
	"testing"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("heslo123")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if hash == "heslo123" {
		t.Fatal("expected hashed password")
	}
	if err := CheckPassword(hash, "heslo123"); err != nil {
		t.Fatalf("expected match, got %v", err)
	}
	if err := CheckPassword(hash, "wrong"); !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("expected mismatch, got %v", err)
	}
	if err := CheckPassword("", "heslo123"); !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("expected mismatch for empty hash, got %v", err)
	}
}

func TestRandomToken(t *testing.T) {
	a, err := RandomToken(32)
	if err != nil {
		t.Fatalf("token failed: %v", err)
	}
	b, _ := RandomToken(32)
	if a == "" || a == b {
		t.Fatal("expected distinct non-empty tokens")
	}
}

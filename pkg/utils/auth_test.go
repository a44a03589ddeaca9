package utils

import (
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("hunter2!")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !strings.Contains(hash, ".") {
		t.Fatalf("hash %q is not in salt.hash form", hash)
	}

	if err := VerifyPassword("hunter2!", hash); err != nil {
		t.Errorf("VerifyPassword rejected the correct password: %v", err)
	}
	if err := VerifyPassword("wrong", hash); err == nil {
		t.Error("VerifyPassword accepted a wrong password")
	}
	if err := VerifyPassword("hunter2!", "not-an-encoded-hash"); err == nil {
		t.Error("VerifyPassword accepted a malformed stored hash")
	}
}

func TestHashPasswordBlank(t *testing.T) {
	if _, err := HashPassword(""); err == nil {
		t.Error("expected an error hashing a blank password")
	}
}

func TestSignTokenRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := SignToken(1, "ada"); err == nil {
		t.Error("expected an error when JWT_SECRET is unset")
	}

	t.Setenv("JWT_SECRET", "test-secret")
	token, err := SignToken(1, "ada")
	if err != nil {
		t.Fatalf("SignToken: %v", err)
	}
	if token == "" {
		t.Error("SignToken returned an empty token")
	}
}

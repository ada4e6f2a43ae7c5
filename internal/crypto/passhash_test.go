package crypto

import "testing"

func TestHashPassword_SaltedAndVerifiable(t *testing.T) {
	t.Parallel()

	h1, err := HashPassword("password123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	h2, err := HashPassword("password123")
	if err != nil {
		t.Fatalf("HashPassword(2): %v", err)
	}
	if h1 == h2 {
		t.Fatalf("same password hashed twice should differ (per-hash salt)")
	}
	if h1 == "password123" {
		t.Fatalf("hash must not equal plaintext")
	}

	if !VerifyPassword("password123", h1) {
		t.Fatalf("VerifyPassword: expected true for correct password")
	}
	if !VerifyPassword("password123", h2) {
		t.Fatalf("VerifyPassword: expected true for second hash")
	}
}

func TestVerifyPassword_Failures(t *testing.T) {
	t.Parallel()

	h, err := HashPassword("correct horse battery 1")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	if VerifyPassword("wrong", h) {
		t.Fatalf("expected false for wrong password")
	}
	if VerifyPassword("", h) {
		t.Fatalf("expected false for empty password")
	}
	if VerifyPassword("correct horse battery 1", "not-a-bcrypt-hash") {
		t.Fatalf("expected false for malformed hash")
	}
}

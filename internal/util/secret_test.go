package util

import (
	"errors"
	"testing"
)

func TestDeriveAndVerifySecret(t *testing.T) {
	hash, salt, err := DeriveSecret("482913")
	if err != nil {
		t.Fatalf("DeriveSecret returned error: %v", err)
	}
	if len(hash) == 0 || len(salt) != saltLength {
		t.Fatalf("expected hash and %d byte salt, got %d/%d", saltLength, len(hash), len(salt))
	}
	if !VerifySecret("482913", salt, hash) {
		t.Fatalf("expected verification to succeed")
	}
	if VerifySecret("482914", salt, hash) {
		t.Fatalf("expected verification to fail for a different secret")
	}
}

func TestDeriveSecretUsesFreshSalt(t *testing.T) {
	h1, s1, _ := DeriveSecret("same")
	h2, s2, _ := DeriveSecret("same")
	if string(s1) == string(s2) || string(h1) == string(h2) {
		t.Fatalf("expected distinct salts and hashes per derivation")
	}
}

func TestHashSecretEmptyInput(t *testing.T) {
	if _, err := HashSecret("", []byte{1, 2, 3}); !errors.Is(err, ErrEmptySecret) {
		t.Fatalf("expected ErrEmptySecret, got %v", err)
	}
	if _, err := HashSecret("secret", nil); !errors.Is(err, ErrEmptySalt) {
		t.Fatalf("expected ErrEmptySalt, got %v", err)
	}
}

func TestValidatePassword(t *testing.T) {
	cases := map[string]bool{
		"short1":          false,
		"onlyletterslong": false,
		"1234567890":      false,
		"lakeside2024":    true,
	}
	for pw, ok := range cases {
		if err := ValidatePassword(pw); (err == nil) != ok {
			t.Fatalf("ValidatePassword(%q) = %v, want ok=%v", pw, err, ok)
		}
	}
}

package util

import (
	"strings"
	"testing"
)

func TestRandomString(t *testing.T) {
	str, err := RandomString(32)
	if err != nil {
		t.Fatalf("RandomString() error = %v", err)
	}
	if len(str) != 32 {
		t.Errorf("len = %d, want 32", len(str))
	}

	str2, _ := RandomString(32)
	if str == str2 {
		t.Error("two calls returned the same string")
	}

	if _, err := RandomString(0); err == nil {
		t.Error("RandomString(0) error = nil, want error")
	}
	if _, err := RandomString(-5); err == nil {
		t.Error("RandomString(-5) error = nil, want error")
	}
}

func TestEncryptDecryptAES(t *testing.T) {
	key := "test-encryption-key"

	testCases := []string{
		"Hello World",
		"₹ 500 paid",
		"",
		"Special!@#$%^&*()",
		strings.Repeat("A", 1000),
	}

	for _, plaintext := range testCases {
		encrypted, err := EncryptAES(key, []byte(plaintext))
		if err != nil {
			t.Fatalf("EncryptAES(%q) error = %v", plaintext, err)
		}
		decrypted, err := DecryptAES(key, encrypted)
		if err != nil {
			t.Fatalf("DecryptAES(%q) error = %v", plaintext, err)
		}
		if string(decrypted) != plaintext {
			t.Errorf("round trip = %q, want %q", decrypted, plaintext)
		}
	}
}

func TestDecryptAES_WrongKey(t *testing.T) {
	encrypted, _ := EncryptAES("key-1", []byte("secret"))
	if _, err := DecryptAES("key-2", encrypted); err == nil {
		t.Error("DecryptAES() with wrong key error = nil, want error")
	}
}

func TestDecryptAES_InvalidData(t *testing.T) {
	if _, err := DecryptAES("key", []byte{1, 2, 3}); err == nil {
		t.Error("DecryptAES(short) error = nil, want error")
	}
}

func TestEncryptString(t *testing.T) {
	enc, err := EncryptString("k", "GET /home/expenses")
	if err != nil {
		t.Fatalf("EncryptString() error = %v", err)
	}
	if enc == "GET /home/expenses" {
		t.Error("EncryptString() returned plaintext")
	}
	if got := DecryptString("k", enc); got != "GET /home/expenses" {
		t.Errorf("DecryptString() = %q", got)
	}

	// no key: passthrough both ways
	plain, _ := EncryptString("", "abc")
	if plain != "abc" || DecryptString("", "abc") != "abc" {
		t.Error("empty key should pass values through")
	}

	// undecryptable values come back unchanged
	if got := DecryptString("k", "not-base64!"); got != "not-base64!" {
		t.Errorf("DecryptString(garbage) = %q", got)
	}
}

func BenchmarkEncryptAES(b *testing.B) {
	data := []byte(strings.Repeat("x", 256))
	for i := 0; i < b.N; i++ {
		_, _ = EncryptAES("bench-key", data)
	}
}

package security

import "testing"

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("hunter22")

	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	if hash == "hunter22" {
		t.Fatal("hash must never equal the plaintext")
	}

	if err := CheckPassword(hash, "hunter22"); err != nil {
		t.Fatalf("CheckPassword rejected the right password: %v", err)
	}

	if err := CheckPassword(hash, "wrong"); err == nil {
		t.Fatal("CheckPassword accepted the wrong password")
	}
}

func TestHashPasswordSalted(t *testing.T) {
	a, err := HashPassword("same-input")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	b, err := HashPassword("same-input")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	if a == b {
		t.Fatal("two hashes of the same input must differ (random salt)")
	}
}

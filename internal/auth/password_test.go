package auth

import "testing"

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if hash == "hunter2" {
		t.Error("hash must not equal the plaintext")
	}
	if !CheckPassword(hash, "hunter2") {
		t.Error("expected correct password to verify")
	}
	if CheckPassword(hash, "hunter3") {
		t.Error("expected wrong password to fail")
	}
}

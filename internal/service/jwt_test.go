package service

import "testing"

func TestJWTRoundTrip(t *testing.T) {
	InitJWT("test-secret")

	token, err := GenerateJWT(42)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	userID, err := ParseJWT(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if userID != 42 {
		t.Fatalf("user id = %d; want 42", userID)
	}
}

func TestParseJWTRejectsGarbage(t *testing.T) {
	InitJWT("test-secret")

	if _, err := ParseJWT("not-a-token"); err == nil {
		t.Fatal("garbage token should fail")
	}

	InitJWT("other-secret")
	token, err := GenerateJWT(1)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	InitJWT("test-secret")
	if _, err := ParseJWT(token); err == nil {
		t.Fatal("token signed with different secret should fail")
	}
}

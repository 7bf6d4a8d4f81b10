package auth

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyToken(t *testing.T) {
	t.Parallel()

	hash, err := hashToken("s3cret-token", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash token: %v", err)
	}
	if hash == "" {
		t.Fatalf("expected non-empty hash")
	}
	if !VerifyToken(" s3cret-token ", hash) {
		t.Fatalf("expected token verification to succeed")
	}
	if VerifyToken("wrong-token", hash) {
		t.Fatalf("did not expect wrong token to verify")
	}
	if VerifyToken("", hash) || VerifyToken("s3cret-token", "") {
		t.Fatalf("did not expect blank values to verify")
	}
}

func TestHashToken_RejectsInvalidInput(t *testing.T) {
	t.Parallel()

	if _, err := HashToken("   "); err == nil {
		t.Fatalf("expected blank token to fail")
	}
	if _, err := HashToken(strings.Repeat("x", 73)); err == nil {
		t.Fatalf("expected oversized token to fail")
	}
}

func TestBearerToken(t *testing.T) {
	t.Parallel()

	if got, ok := BearerToken("Bearer abc"); !ok || got != "abc" {
		t.Fatalf("unexpected token: %q ok=%v", got, ok)
	}
	if got, ok := BearerToken("bearer   abc "); !ok || got != "abc" {
		t.Fatalf("unexpected token: %q ok=%v", got, ok)
	}
	for _, header := range []string{"", "Basic abc", "Bearer", "Bearer   "} {
		if _, ok := BearerToken(header); ok {
			t.Fatalf("did not expect %q to yield a token", header)
		}
	}
}

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	a, err := GenerateToken()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	b, err := GenerateToken()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if a == b || len(a) < 40 {
		t.Fatalf("unexpected tokens %q and %q", a, b)
	}
}

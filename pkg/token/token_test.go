package token

import (
	"errors"
	"testing"
	"time"

	"github.com/inkwave/inkchat/pkg/errcode"
)

const testSecret = "test-secret-key"

func TestGenerateAndVerify(t *testing.T) {
	tokenString, err := Generate(42, "user", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}

	claims, err := Verify(tokenString, testSecret)
	if err != nil {
		t.Fatalf("verify token failed: %v", err)
	}

	if claims.UserId != 42 {
		t.Errorf("UserId = %d, want 42", claims.UserId)
	}
	if claims.Role != "user" {
		t.Errorf("Role = %q, want %q", claims.Role, "user")
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	tokenString, err := Generate(42, "user", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}

	_, err = Verify(tokenString, "another-secret")
	if err == nil {
		t.Fatal("expected error for wrong secret")
	}

	var e *errcode.Error
	if !errors.As(err, &e) || e.Code != errcode.ErrTokenInvalid.Code {
		t.Errorf("expected token invalid error, got %v", err)
	}
}

func TestVerify_Expired(t *testing.T) {
	tokenString, err := Generate(42, "user", testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}

	_, err = Verify(tokenString, testSecret)
	if !errors.Is(err, errcode.ErrTokenExpired) {
		t.Errorf("expected token expired error, got %v", err)
	}
}

func TestVerify_Garbage(t *testing.T) {
	_, err := Verify("not.a.token", testSecret)
	if err == nil {
		t.Fatal("expected error for garbage token")
	}
}

func TestVerify_Missing(t *testing.T) {
	_, err := Verify("", testSecret)
	if !errors.Is(err, errcode.ErrTokenMissing) {
		t.Errorf("expected token missing error, got %v", err)
	}
}

func TestVerify_ZeroUserId(t *testing.T) {
	tokenString, err := Generate(0, "user", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}

	_, err = Verify(tokenString, testSecret)
	if err == nil {
		t.Fatal("expected error for zero user id")
	}
}

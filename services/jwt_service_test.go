package services

import (
	"testing"

	"malaria-http-service/config"
	"malaria-http-service/models"
)

func TestJWTRoundTrip(t *testing.T) {
	svc := NewJWTService(&config.Config{JWTSecretKey: "test-secret"})

	token, err := svc.GenerateToken(42, "grace", models.RoleDoctor)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	parsed, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if !parsed.Valid {
		t.Fatal("token not valid")
	}

	claims, err := svc.ExtractClaims(token)
	if err != nil {
		t.Fatalf("ExtractClaims: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Username != "grace" {
		t.Errorf("Username = %q, want grace", claims.Username)
	}
	if claims.Role != models.RoleDoctor {
		t.Errorf("Role = %q, want %q", claims.Role, models.RoleDoctor)
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewJWTService(&config.Config{JWTSecretKey: "secret-a"})
	verifier := NewJWTService(&config.Config{JWTSecretKey: "secret-b"})

	token, err := issuer.GenerateToken(1, "ann", models.RoleLab)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := verifier.ValidateToken(token); err == nil {
		t.Fatal("expected validation error for wrong secret")
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := NewJWTService(&config.Config{JWTSecretKey: "test-secret"})
	if _, err := svc.ValidateToken("not.a.token"); err == nil {
		t.Fatal("expected validation error for malformed token")
	}
}

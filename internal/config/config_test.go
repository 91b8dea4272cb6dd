package config

import "testing"

func TestValidate_ProdRejectsDefaultSecret(t *testing.T) {
	cfg := Load()
	cfg.Env = "prod"
	if err := cfg.Validate(); err == nil {
		t.Fatal("prod with the default JWT secret must be rejected")
	}

	cfg.JWTSecret = "a-real-secret"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_BcryptCostBounds(t *testing.T) {
	cfg := Load()
	cfg.BcryptCost = 3
	if err := cfg.Validate(); err == nil {
		t.Fatal("cost below bcrypt minimum must be rejected")
	}
}

func TestParseCORSOrigins(t *testing.T) {
	got := parseCORSOrigins(" https://a.example , ,http://localhost:3000")
	if len(got) != 2 || got[0] != "https://a.example" || got[1] != "http://localhost:3000" {
		t.Errorf("unexpected origins: %v", got)
	}
}

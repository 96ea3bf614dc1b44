package config_test

import (
	"testing"

	"github.com/DaoSolary/Desaparecidos/pkg/cli/config"
	"github.com/DaoSolary/Desaparecidos/pkg/repository/memory"
)

func TestAuthIsNoAuthMode(t *testing.T) {
	auth := config.NewAuthForTest("", "", "", "")

	// Initially false
	if auth.IsNoAuthMode() {
		t.Error("IsNoAuthMode should be false initially")
	}

	auth = config.NewAuthForTest("", "", "", "mod-1")
	if !auth.IsNoAuthMode() {
		t.Error("IsNoAuthMode should be true when a no-auth user is set")
	}
}

func TestAuthConfigureMissingConfiguration(t *testing.T) {
	repo := memory.New()
	auth := config.NewAuthForTest("", "", "", "")

	// Should fail without a signing secret or no-auth user
	_, err := auth.Configure(repo)
	if err == nil {
		t.Error("Configure should fail without any authentication configuration")
	}
}

func TestAuthConfigureNoAuth(t *testing.T) {
	repo := memory.New()
	auth := config.NewAuthForTest("", "", "", "mod-1")

	uc, err := auth.Configure(repo)
	if err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	if !uc.IsNoAuthn() {
		t.Error("no-auth configuration should produce a no-authn use case")
	}
}

func TestAuthConfigureNoAuthPrecedence(t *testing.T) {
	repo := memory.New()

	// no-auth wins even when a signing secret is also configured
	auth := config.NewAuthForTest("some-secret", "", "", "mod-1")

	uc, err := auth.Configure(repo)
	if err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	if !uc.IsNoAuthn() {
		t.Error("no-auth should take precedence over handoff verification")
	}
}

func TestAuthConfigureHandoff(t *testing.T) {
	repo := memory.New()
	auth := config.NewAuthForTest("some-secret", "records-service", "desaparecidos", "")

	uc, err := auth.Configure(repo)
	if err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	if uc.IsNoAuthn() {
		t.Error("handoff configuration should not produce a no-authn use case")
	}
}

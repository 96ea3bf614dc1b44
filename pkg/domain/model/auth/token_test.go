package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/DaoSolary/Desaparecidos/pkg/domain/model/auth"
)

func TestNewToken(t *testing.T) {
	token := auth.NewToken("U123", "ana@example.org", "Ana", auth.RoleModerator)

	gt.Value(t, string(token.ID)).NotEqual("")
	gt.Value(t, string(token.Secret)).NotEqual("")
	gt.Value(t, token.Sub).Equal("U123")
	gt.Value(t, token.Email).Equal("ana@example.org")
	gt.Value(t, token.Name).Equal("Ana")
	gt.Value(t, token.Role).Equal(auth.RoleModerator)
	gt.Bool(t, token.IsExpired()).False()

	other := auth.NewToken("U123", "ana@example.org", "Ana", auth.RoleModerator)
	gt.Value(t, token.ID).NotEqual(other.ID)
	gt.Value(t, token.Secret).NotEqual(other.Secret)
}

func TestToken_IsExpired(t *testing.T) {
	token := auth.NewToken("U123", "", "", auth.RoleAdmin)
	token.ExpiresAt = time.Now().Add(-time.Minute)
	gt.Bool(t, token.IsExpired()).True()
}

func TestRole_CanModerate(t *testing.T) {
	gt.Bool(t, auth.RoleModerator.CanModerate()).True()
	gt.Bool(t, auth.RoleAdmin.CanModerate()).True()
	gt.Bool(t, auth.Role("reporter").CanModerate()).False()
	gt.Bool(t, auth.Role("").CanModerate()).False()
}

func TestTokenContext(t *testing.T) {
	ctx := context.Background()

	_, ok := auth.TokenFromContext(ctx)
	gt.Bool(t, ok).False()

	token := auth.NewToken("U123", "", "Ana", auth.RoleModerator)
	ctx = auth.ContextWithToken(ctx, token)

	got, ok := auth.TokenFromContext(ctx)
	gt.Bool(t, ok).True()
	gt.Value(t, got.Sub).Equal("U123")
}

package usecase

import (
	"context"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/goerr/v2"

	"github.com/DaoSolary/Desaparecidos/pkg/domain/interfaces"
	"github.com/DaoSolary/Desaparecidos/pkg/domain/model/auth"
	"github.com/DaoSolary/Desaparecidos/pkg/utils/logging"
)

// AuthUseCaseInterface is the authentication surface the HTTP layer
// depends on
type AuthUseCaseInterface interface {
	HandleLogin(ctx context.Context, handoffToken string) (*auth.Token, error)
	ValidateToken(ctx context.Context, tokenID auth.TokenID, tokenSecret auth.TokenSecret) (*auth.Token, error)
	Logout(ctx context.Context, tokenID auth.TokenID) error
	IsNoAuthn() bool
}

type AuthUseCase struct {
	repo          interfaces.Repository
	signingSecret []byte
	issuer        string
	audience      string
	cache         *authCache
}

func NewAuthUseCase(repo interfaces.Repository, signingSecret []byte, options ...AuthOption) *AuthUseCase {
	uc := &AuthUseCase{
		repo:          repo,
		signingSecret: signingSecret,
		cache:         newAuthCache(),
	}

	for _, opt := range options {
		opt(uc)
	}

	return uc
}

// AuthOption is a functional option for AuthUseCase
type AuthOption func(*AuthUseCase)

// WithIssuer requires handoff tokens to carry this issuer claim
func WithIssuer(issuer string) AuthOption {
	return func(uc *AuthUseCase) {
		uc.issuer = issuer
	}
}

// WithAudience requires handoff tokens to carry this audience claim
func WithAudience(audience string) AuthOption {
	return func(uc *AuthUseCase) {
		uc.audience = audience
	}
}

// IsNoAuthn returns false for regular AuthUseCase
func (uc *AuthUseCase) IsNoAuthn() bool {
	return false
}

// hostIdentity holds the identity claims of a verified handoff token
type hostIdentity struct {
	Sub   string
	Email string
	Name  string
	Role  auth.Role
}

// HandleLogin verifies a handoff token minted by the host platform and
// exchanges it for a session token
func (uc *AuthUseCase) HandleLogin(ctx context.Context, handoffToken string) (*auth.Token, error) {
	identity, err := uc.verifyHandoffToken(handoffToken)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to verify handoff token")
	}

	token := auth.NewToken(identity.Sub, identity.Email, identity.Name, identity.Role)
	if err := uc.repo.PutToken(ctx, token); err != nil {
		logging.From(ctx).Error("failed to save token", "error", err, "token", token)
		return nil, goerr.Wrap(err, "failed to store token", goerr.V("token_id", token.ID))
	}

	return token, nil
}

// verifyHandoffToken parses and verifies the HS256 JWT the host platform
// hands the browser for single sign-on into this service
func (uc *AuthUseCase) verifyHandoffToken(handoffToken string) (*hostIdentity, error) {
	opts := []jwt.ParseOption{
		jwt.WithKey(jwa.HS256, uc.signingSecret),
		jwt.WithValidate(true),
		// Allow 10 seconds of clock skew between the host platform and this service
		jwt.WithAcceptableSkew(10 * time.Second),
	}
	if uc.issuer != "" {
		opts = append(opts, jwt.WithIssuer(uc.issuer))
	}
	if uc.audience != "" {
		opts = append(opts, jwt.WithAudience(uc.audience))
	}

	token, err := jwt.Parse([]byte(handoffToken), opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse or verify JWT token")
	}

	sub := token.Subject()
	if sub == "" {
		return nil, goerr.New("sub claim not found in token")
	}

	identity := &hostIdentity{Sub: sub}
	identity.Email = optionalStringClaim(token, "email")
	identity.Name = optionalStringClaim(token, "name")

	role, err := roleFromClaim(token)
	if err != nil {
		return nil, err
	}
	identity.Role = role

	return identity, nil
}

// optionalStringClaim reads a claim that may be absent; a present claim
// of another type is treated as absent
func optionalStringClaim(token jwt.Token, name string) string {
	val, ok := token.Get(name)
	if !ok {
		return ""
	}

	str, ok := val.(string)
	if !ok {
		return ""
	}

	return str
}

// roleFromClaim maps the role claim to a moderation role. A missing
// claim grants the base moderator role; an unrecognized value is
// rejected rather than downgraded.
func roleFromClaim(token jwt.Token) (auth.Role, error) {
	val, ok := token.Get("role")
	if !ok {
		return auth.RoleModerator, nil
	}

	str, ok := val.(string)
	if !ok {
		return "", goerr.New("role claim is not a string")
	}

	switch str {
	case "", string(auth.RoleModerator):
		return auth.RoleModerator, nil
	case string(auth.RoleAdmin):
		return auth.RoleAdmin, nil
	default:
		return "", goerr.New("unknown role claim", goerr.V("role", str))
	}
}

// ValidateToken validates the token and returns user info
func (uc *AuthUseCase) ValidateToken(ctx context.Context, tokenID auth.TokenID, tokenSecret auth.TokenSecret) (*auth.Token, error) {
	return uc.validateTokenWithCache(ctx, tokenID, tokenSecret)
}

// Logout deletes the token
func (uc *AuthUseCase) Logout(ctx context.Context, tokenID auth.TokenID) error {
	// Remove from cache first
	uc.cache.remove(tokenID)

	// Then remove from repository
	return uc.repo.DeleteToken(ctx, tokenID)
}

package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"leadengage/internal/pkg/jwt"
	"leadengage/internal/tenant"
)

type tokenValidator interface {
	ValidateToken(tokenStr string) (*jwt.Claims, error)
}

type profileReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Profile, error)
}

// Resolver turns a bearer credential into a Principal.
type Resolver struct {
	tokens   tokenValidator
	profiles profileReader
}

func NewResolver(tokens tokenValidator, profiles profileReader) *Resolver {
	return &Resolver{tokens: tokens, profiles: profiles}
}

// ParseBearer extracts the token from an Authorization header value.
func ParseBearer(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", fmt.Errorf("%w: missing authorization header", ErrUnauthenticated)
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", fmt.Errorf("%w: invalid authorization format", ErrUnauthenticated)
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", fmt.Errorf("%w: empty token", ErrUnauthenticated)
	}
	return token, nil
}

// Resolve validates the header's token and loads the caller profile. It never
// falls back to an anonymous identity.
func (r *Resolver) Resolve(ctx context.Context, authorization string) (*tenant.Principal, error) {
	raw, err := ParseBearer(authorization)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	claims, err := r.tokens.ValidateToken(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	subject, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: subject is not a profile id", ErrUnauthenticated)
	}

	profile, err := r.profiles.GetByID(ctx, subject)
	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrProfileNotFound
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	default:
		return nil, fmt.Errorf("%w: %v", ErrProfileLookup, err)
	}

	email := profile.Email
	if email == "" {
		email = claims.Email
	}
	return &tenant.Principal{
		ID:       profile.ID,
		Email:    email,
		Role:     tenant.ParseRole(profile.Role),
		TenantID: profile.TenantID,
	}, nil
}

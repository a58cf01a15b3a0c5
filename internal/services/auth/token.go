package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/officialpathway/pathwei-website/internal/platform/errors"
	"github.com/officialpathway/pathwei-website/internal/platform/id"
)

const (
	// DefaultIssuer names the back-office as the token issuer.
	DefaultIssuer = "pathway-admin"
	// DefaultAudience scopes tokens to the back-office.
	DefaultAudience = "pathway-admin"
	// DefaultTokenTTL bounds a login session.
	DefaultTokenTTL = 12 * time.Hour

	minSecretLength = 32
)

// IssuerConfig configures token signing and verification.
type IssuerConfig struct {
	Secret   []byte
	Issuer   string
	Audience string
	TTL      time.Duration
	Now      func() time.Time
}

// Issuer signs and verifies HS256 session tokens.
type Issuer struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

// Claims are the validated contents of a session token.
type Claims struct {
	Subject   string
	Email     string
	Role      Role
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type sessionClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

// NewIssuer validates cfg and returns an Issuer.
func NewIssuer(cfg IssuerConfig) (*Issuer, error) {
	if len(cfg.Secret) < minSecretLength {
		return nil, fmt.Errorf("token secret must be at least %d bytes", minSecretLength)
	}
	if strings.TrimSpace(cfg.Issuer) == "" {
		cfg.Issuer = DefaultIssuer
	}
	if strings.TrimSpace(cfg.Audience) == "" {
		cfg.Audience = DefaultAudience
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTokenTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Issuer{
		secret:   cfg.Secret,
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		ttl:      cfg.TTL,
		now:      cfg.Now,
	}, nil
}

// TTL returns the lifetime of issued tokens.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Issue signs a token for the given user.
func (i *Issuer) Issue(userID, email string, role Role) (string, Claims, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", Claims{}, apperrors.New(apperrors.CodeInvalidArgument, "user id is required")
	}
	if role.rank() == 0 {
		return "", Claims{}, apperrors.New(apperrors.CodeUserRoleInvalid, "role is not recognised")
	}
	tokenID, err := id.NewID()
	if err != nil {
		return "", Claims{}, fmt.Errorf("generate token id: %w", err)
	}
	now := i.now().UTC().Truncate(time.Second)
	exp := now.Add(i.ttl)
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.issuer,
			Subject:   userID,
			Audience:  jwt.ClaimStrings{i.audience},
			ExpiresAt: jwt.NewNumericDate(exp),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        tokenID,
		},
		Email: email,
		Role:  string(role),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", Claims{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, Claims{
		Subject:   userID,
		Email:     email,
		Role:      role,
		TokenID:   tokenID,
		IssuedAt:  now,
		ExpiresAt: exp,
	}, nil
}

// Verify checks the signature, issuer, audience and validity window of
// token and returns its claims.
func (i *Issuer) Verify(token string) (Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Claims{}, apperrors.New(apperrors.CodeAuthTokenMissing, "session token is required")
	}

	var parsed sessionClaims
	_, err := jwt.ParseWithClaims(token, &parsed, func(*jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return Claims{}, mapJWTError(err)
	}

	if parsed.Issuer != i.issuer {
		return Claims{}, apperrors.WithMetadata(apperrors.CodeAuthTokenInvalid,
			"session token issuer mismatch", map[string]string{"Field": "issuer"})
	}
	if !audienceContains(parsed.Audience, i.audience) {
		return Claims{}, apperrors.WithMetadata(apperrors.CodeAuthTokenInvalid,
			"session token audience mismatch", map[string]string{"Field": "audience"})
	}
	if strings.TrimSpace(parsed.Subject) == "" {
		return Claims{}, apperrors.New(apperrors.CodeAuthTokenInvalid, "session token subject is required")
	}
	if parsed.ExpiresAt == nil {
		return Claims{}, apperrors.New(apperrors.CodeAuthTokenInvalid, "session token exp is required")
	}

	now := i.now().UTC()
	exp := parsed.ExpiresAt.Time.UTC()
	if !exp.After(now) {
		return Claims{}, apperrors.New(apperrors.CodeAuthTokenExpired, "session token is expired")
	}
	if parsed.NotBefore != nil && now.Before(parsed.NotBefore.Time.UTC()) {
		return Claims{}, apperrors.New(apperrors.CodeAuthTokenInvalid, "session token not active yet")
	}
	role := Role(parsed.Role)
	if role.rank() == 0 {
		return Claims{}, apperrors.New(apperrors.CodeAuthTokenInvalid, "session token role is invalid")
	}

	claims := Claims{
		Subject:   parsed.Subject,
		Email:     parsed.Email,
		Role:      role,
		TokenID:   parsed.ID,
		ExpiresAt: exp,
	}
	if parsed.IssuedAt != nil {
		claims.IssuedAt = parsed.IssuedAt.Time.UTC()
	}
	return claims, nil
}

// mapJWTError translates jwt library errors to application errors.
func mapJWTError(err error) error {
	if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
		return apperrors.New(apperrors.CodeAuthTokenInvalid, "session token signature is invalid")
	}
	if errors.Is(err, jwt.ErrTokenUnverifiable) {
		return apperrors.New(apperrors.CodeAuthTokenInvalid, "session token alg is invalid")
	}
	if errors.Is(err, jwt.ErrTokenMalformed) {
		return apperrors.New(apperrors.CodeAuthTokenInvalid, "session token is malformed")
	}
	return apperrors.New(apperrors.CodeAuthTokenInvalid, "session token is invalid")
}

func audienceContains(aud jwt.ClaimStrings, value string) bool {
	for _, item := range aud {
		if item == value {
			return true
		}
	}
	return false
}

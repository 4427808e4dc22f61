package auth

import (
	"errors"
	"fmt"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/token-service/internal/domain"
)

// Verifier checks signature, expiry and type discriminator of presented tokens.
// It holds no mutable state and is safe for concurrent use.
type Verifier struct {
	keys   *KeySet
	parser *jwt.Parser
}

// NewVerifier builds a verifier sharing the issuer's key material.
func NewVerifier(keys *KeySet, cfg TokenConfig, opts ...Option) (*Verifier, error) {
	if keys == nil {
		return nil, configErr("signing keys", "are not configured")
	}
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}
	o := buildOptions(opts)

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(o.now),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	}
	if cfg.Leeway > 0 {
		parserOpts = append(parserOpts, jwt.WithLeeway(cfg.Leeway))
	}
	if cfg.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(cfg.Issuer))
	}

	return &Verifier{keys: keys, parser: jwt.NewParser(parserOpts...)}, nil
}

// Verify returns the embedded identity when rawToken is a genuine, unexpired token of expectedType.
func (v *Verifier) Verify(rawToken string, expectedType domain.TokenType) (domain.Identity, error) {
	info, err := v.Inspect(rawToken, expectedType)
	if err != nil {
		return domain.Identity{}, err
	}
	return info.Identity, nil
}

// Inspect is Verify returning the token metadata as well.
//
// The signing key is chosen by the token's own type claim, so a genuine token of the
// other type passes the signature check and is then rejected with ErrWrongTokenType.
func (v *Verifier) Inspect(rawToken string, expectedType domain.TokenType) (*domain.TokenInfo, error) {
	if v == nil || v.keys == nil {
		return nil, configErr("signing keys", "are not configured")
	}

	parsed, err := v.parser.ParseWithClaims(rawToken, &Claims{}, v.keyFor)
	if err != nil {
		return nil, classify(err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidSignature
	}
	if claims.TokenType != expectedType {
		return nil, fmt.Errorf("%w: got %q, want %q", ErrWrongTokenType, claims.TokenType, expectedType)
	}
	return claims.info(), nil
}

func (v *Verifier) keyFor(token *jwt.Token) (any, error) {
	claims, ok := token.Claims.(*Claims)
	if !ok || !claims.TokenType.Valid() {
		return nil, errors.New("unknown token type")
	}
	return v.keys.Key(claims.TokenType)
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired) && !errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %w", ErrExpired, err)
	default:
		return fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}
}

package jwt

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"recipeclip/domain"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"
)

const expectedAudience = "authenticated"

type (
	// JWTService verifies access tokens issued by the auth provider. HS256
	// tokens are checked against the shared secret; ES256 tokens are
	// checked against the provider's remote JWKS.
	JWTService interface {
		// ValidateToken returns the authenticated user for a valid token.
		ValidateToken(ctx context.Context, token string) (*domain.User, error)
		// Configured reports whether any verification path is available.
		// When false the server runs single tenant.
		Configured() bool
	}

	tokenClaims struct {
		Email string `json:"email"`
		jwt.RegisteredClaims
	}

	jwtService struct {
		secretKey string
		keySet    oidc.KeySet
	}
)

func NewJWTService(ctx context.Context, secretKey, providerURL string) JWTService {
	s := &jwtService{secretKey: secretKey}
	if providerURL != "" {
		jwksURL := strings.TrimSuffix(providerURL, "/") + "/auth/v1/.well-known/jwks.json"
		s.keySet = oidc.NewRemoteKeySet(ctx, jwksURL)
	}
	return s
}

func (j *jwtService) Configured() bool {
	return j.secretKey != "" || j.keySet != nil
}

func (j *jwtService) ValidateToken(ctx context.Context, token string) (*domain.User, error) {
	alg, err := tokenAlgorithm(token)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}

	switch {
	case strings.HasPrefix(alg, "HS") && j.secretKey != "":
		return j.validateHMAC(token)
	case j.keySet != nil:
		return j.validateRemote(ctx, token)
	default:
		return nil, domain.ErrTokenInvalid
	}
}

func (j *jwtService) validateHMAC(token string) (*domain.User, error) {
	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(j.secretKey), nil
	}, jwt.WithAudience(expectedAudience))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return nil, domain.ErrTokenInvalid
	}

	return &domain.User{ID: claims.Subject, Email: claims.Email}, nil
}

func (j *jwtService) validateRemote(ctx context.Context, token string) (*domain.User, error) {
	payload, err := j.keySet.VerifySignature(ctx, token)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}

	var claims struct {
		Subject  string          `json:"sub"`
		Email    string          `json:"email"`
		Audience json.RawMessage `json:"aud"`
		Expires  int64           `json:"exp"`
	}
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, domain.ErrTokenInvalid
	}
	if claims.Subject == "" || !audienceMatches(claims.Audience) {
		return nil, domain.ErrTokenInvalid
	}
	if claims.Expires > 0 && time.Now().Unix() >= claims.Expires {
		return nil, domain.ErrTokenExpired
	}

	return &domain.User{ID: claims.Subject, Email: claims.Email}, nil
}

// audienceMatches accepts aud as either a string or an array of strings.
func audienceMatches(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return single == expectedAudience
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err == nil {
		for _, aud := range many {
			if aud == expectedAudience {
				return true
			}
		}
	}
	return false
}

func tokenAlgorithm(token string) (string, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return "", domain.ErrTokenInvalid
	}
	headerJSON, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return "", domain.ErrTokenInvalid
	}
	var header struct {
		Alg string `json:"alg"`
	}
	if err := json.Unmarshal(headerJSON, &header); err != nil {
		return "", domain.ErrTokenInvalid
	}
	return header.Alg, nil
}

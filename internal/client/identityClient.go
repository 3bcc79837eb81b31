package client

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"courier-backend/internal/config"
	"courier-backend/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenRejected means the identity provider did not accept the token.
var ErrTokenRejected = errors.New("token rejected")

type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*model.Principal, error)
}

type jwtVerifierImpl struct {
	key        any
	method     jwt.SigningMethod
	issuer     string
	emailClaim string
}

// NewTokenVerifier verifies HS256 tokens when a secret is configured,
// otherwise RS256 tokens against the public key served at PublicKeyURL.
func NewTokenVerifier(ctx context.Context, cfg *config.Identity) (TokenVerifier, error) {
	v := &jwtVerifierImpl{
		issuer:     cfg.Issuer,
		emailClaim: cfg.EmailClaim,
	}
	if v.emailClaim == "" {
		v.emailClaim = "email"
	}

	switch {
	case cfg.JWTSecret != "":
		v.key = []byte(cfg.JWTSecret)
		v.method = jwt.SigningMethodHS256
	case cfg.PublicKeyURL != "":
		key, err := FetchPublicKey(ctx, cfg.PublicKeyURL)
		if err != nil {
			return nil, err
		}
		v.key = key
		v.method = jwt.SigningMethodRS256
	default:
		return nil, errors.New("identity: IDENTITY_JWT_SECRET or IDENTITY_PUBLIC_KEY_URL is required")
	}

	return v, nil
}

func NewHMACTokenVerifier(secret []byte, issuer string) TokenVerifier {
	return &jwtVerifierImpl{
		key:        secret,
		method:     jwt.SigningMethodHS256,
		issuer:     issuer,
		emailClaim: "email",
	}
}

func (v *jwtVerifierImpl) Verify(ctx context.Context, tokenString string) (*model.Principal, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{v.method.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return v.key, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenRejected, err)
	}
	if !token.Valid {
		return nil, ErrTokenRejected
	}

	email, _ := claims[v.emailClaim].(string)
	if email == "" {
		return nil, fmt.Errorf("%w: missing %s claim", ErrTokenRejected, v.emailClaim)
	}

	return &model.Principal{
		Email:  email,
		Claims: claims,
	}, nil
}

// FetchPublicKey loads a PEM encoded RSA public key from a JSON {"key": "..."} endpoint.
func FetchPublicKey(ctx context.Context, url string) (*rsa.PublicKey, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch public key: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch public key: unexpected status code %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read public key response: %w", err)
	}

	var keyResponse struct {
		Key string `json:"key"`
	}
	if err := json.Unmarshal(body, &keyResponse); err != nil {
		return nil, fmt.Errorf("decode public key response: %w", err)
	}

	block, _ := pem.Decode([]byte(keyResponse.Key))
	if block == nil || block.Type != "PUBLIC KEY" {
		return nil, errors.New("failed to decode PEM block containing public key")
	}

	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}

	rsaPub, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("not an RSA public key")
	}

	return rsaPub, nil
}

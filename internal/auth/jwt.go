package auth

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims are the identity-provider claims the service relies on. The
// subject is the user's stable id.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// Verifier checks identity-provider tokens signed with either a shared
// HMAC secret or an RSA key pair.
type Verifier struct {
	key     any
	methods []string
}

func NewHMACVerifier(secret []byte) *Verifier {
	return &Verifier{key: secret, methods: []string{jwt.SigningMethodHS256.Alg()}}
}

func NewRSAVerifier(pub *rsa.PublicKey) *Verifier {
	return &Verifier{key: pub, methods: []string{jwt.SigningMethodRS256.Alg()}}
}

// LoadVerifier prefers the RSA public key file when both are configured.
func LoadVerifier(secret, publicKeyFile string) (*Verifier, error) {
	if publicKeyFile != "" {
		raw, err := os.ReadFile(publicKeyFile)
		if err != nil {
			return nil, fmt.Errorf("read jwt public key: %w", err)
		}
		pub, err := jwt.ParseRSAPublicKeyFromPEM(raw)
		if err != nil {
			return nil, fmt.Errorf("parse jwt public key: %w", err)
		}
		return NewRSAVerifier(pub), nil
	}
	if secret != "" {
		return NewHMACVerifier([]byte(secret)), nil
	}
	return nil, errors.New("either AUTH_JWT_SECRET or AUTH_JWT_PUBLIC_KEY_FILE must be set")
}

func (v *Verifier) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return v.key, nil
	}, jwt.WithValidMethods(v.methods), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// GenerateToken signs an HS256 token. Used by the CLI for local development
// and by tests.
func GenerateToken(subject, email, name string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		Email: email,
		Name:  name,
	})
	return token.SignedString(secretKey)
}

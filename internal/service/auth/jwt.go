package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/suntzu974/papang/internal/app_errors"

	"github.com/golang-jwt/jwt/v5"
)

var signingMethod = jwt.SigningMethodHS256

type Claims struct {
	jwt.RegisteredClaims
}

func (c *Claims) UserID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

func newClaims(userID int64, ttl time.Duration) Claims {
	now := time.Now()
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
}

// AccessTokenService mints and validates short-lived access tokens. Purely
// stateless: validity derives from signature and expiry alone.
type AccessTokenService struct {
	secretKey string
	ttl       time.Duration
}

func NewAccessTokenService(secretKey string, ttl time.Duration) *AccessTokenService {
	return &AccessTokenService{secretKey: secretKey, ttl: ttl}
}

func (s *AccessTokenService) Generate(userID int64) (string, error) {
	token := jwt.NewWithClaims(signingMethod, newClaims(userID, s.ttl))
	return token.SignedString([]byte(s.secretKey))
}

func (s *AccessTokenService) Validate(tokenStr string) (*Claims, error) {
	return decodeToken(s.secretKey, tokenStr)
}

// decodeToken verifies signature and expiry and maps jwt failures onto the
// discriminated token sentinels.
func decodeToken(secretKey, tokenStr string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method != signingMethod {
			return nil, app_errors.ErrTokenInvalidSignature
		}
		return []byte(secretKey), nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, app_errors.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, app_errors.ErrTokenInvalidFormat
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, app_errors.ErrTokenInvalidSignature
		default:
			return nil, app_errors.ErrTokenValidation
		}
	}
	return claims, nil
}

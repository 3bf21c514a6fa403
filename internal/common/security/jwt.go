package security

import (
	"errors"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/msKim92/wiselife-project/internal/platform/config"
)

var TokenAuth *jwtauth.JWTAuth

func InitJWT() {
	TokenAuth = jwtauth.New("HS256", config.AppConfig.JWTKey, nil)
}

// GenerateToken issues a token carrying the member identity. Token issuance
// normally belongs to the member directory service; this helper exists for
// local development and tests.
func GenerateToken(memberID int64, email string) (string, error) {
	claims := jwt.MapClaims{
		"member_id": memberID,
		"email":     email,
		"exp":       time.Now().Add(config.AppConfig.JWTExp).Unix(),
		"iat":       time.Now().Unix(),
	}
	_, tokenString, err := TokenAuth.Encode(claims)
	return tokenString, err
}

// GetMemberIDFromClaims extracts the member id from verified claims.
// jwx decodes JSON numbers as float64.
func GetMemberIDFromClaims(claims map[string]interface{}) (int64, error) {
	switch id := claims["member_id"].(type) {
	case float64:
		return int64(id), nil
	case int64:
		return id, nil
	default:
		return 0, errors.New("member_id claim is missing or not a number")
	}
}

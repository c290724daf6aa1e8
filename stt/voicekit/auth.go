package voicekit

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenTTL = time.Hour

// authToken builds the HS256 bearer token the service expects: issuer and
// subject are the api key, audience is the service scope.
func authToken(apiKey, secretKey, audience string, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"iss": apiKey,
		"sub": apiKey,
		"aud": audience,
		"exp": now.Add(tokenTTL).Unix(),
		"iat": now.Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secretKey))
}

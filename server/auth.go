package server

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var participantPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,32}$`)

// ValidParticipant reports whether id can name a participant.
func ValidParticipant(id string) bool {
	return participantPattern.MatchString(id)
}

// IssueToken signs a token whose subject is participant.
func IssueToken(secret, participant string, ttl time.Duration) (string, error) {
	if !ValidParticipant(participant) {
		return "", errBadParticipant.Fmt(participant)
	}

	now := time.Now()

	claims := jwt.RegisteredClaims{
		Subject:  participant,
		IssuedAt: jwt.NewNumericDate(now),
	}

	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

type authenticator struct {
	secret    []byte
	anonymous bool
}

// participant identifies the caller from a bearer token, or from the
// participant query parameter when anonymous play is allowed.
func (a authenticator) participant(r *http.Request) (string, error) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if token == "" {
		token = r.URL.Query().Get("token")
	}

	if token == "" {
		if !a.anonymous {
			return "", errUnauthorized
		}

		id := r.URL.Query().Get("participant")
		if !ValidParticipant(id) {
			return "", errBadParticipant.Fmt(id)
		}

		return id, nil
	}

	if len(a.secret) == 0 {
		return "", errUnauthorized
	}

	claims := &jwt.RegisteredClaims{}

	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", errUnauthorized.Wrap(err)
	}

	if !ValidParticipant(claims.Subject) {
		return "", errBadParticipant.Fmt(claims.Subject)
	}

	return claims.Subject, nil
}

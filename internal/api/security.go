package api

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const sessionTokenTTL = 7 * 24 * time.Hour
const refreshedTokenTTL = 15 * time.Minute

func (s *Server) signToken(userID int64, email string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"exp":   now.Add(ttl).Unix(),
		"iat":   now.Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

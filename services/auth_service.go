package services

import (
	"crypto/subtle"
	"time"

	"github.com/Vijaypastham/nutranexus-sub000/apperrors"

	"github.com/golang-jwt/jwt/v4"
)

const tokenTTL = 24 * time.Hour

type LoginResult struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
	Merchant  string `json:"merchant"`
}

// AuthService issues and verifies the merchant bearer token. There is a
// single configured credential pair and a single role; expired tokens
// require a fresh login.
type AuthService interface {
	Login(username, password string) (*LoginResult, error)
	VerifyToken(tokenStr string) (jwt.MapClaims, error)
}

type authService struct {
	username string
	password string
	secret   []byte
}

func NewAuthService(username, password, jwtSecret string) AuthService {
	return &authService{
		username: username,
		password: password,
		secret:   []byte(jwtSecret),
	}
}

func (s *authService) Login(username, password string) (*LoginResult, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) == 1
	if !userOK || !passOK {
		return nil, apperrors.Auth("Invalid credentials")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"username": s.username,
		"role":     "merchant",
		"iat":      now.Unix(),
		"exp":      now.Add(tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Token:     signed,
		ExpiresIn: int64(tokenTTL.Seconds()),
		Merchant:  s.username,
	}, nil
}

func (s *authService) VerifyToken(tokenStr string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.Auth("Unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || token == nil || !token.Valid {
		return nil, apperrors.Auth("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperrors.Auth("Invalid token claims")
	}
	return claims, nil
}

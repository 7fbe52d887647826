package service

import (
	"errors"
	"time"

	"conceptlab/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

const (
	analystTokenTTL = 12 * time.Hour
	runTokenTTL     = 24 * time.Hour

	audienceAnalyst = "analyst"
	audienceRun     = "run"
)

// AuthService handles analyst login and run-scoped stream tokens
type AuthService struct {
	username  string
	password  string
	jwtSecret []byte
	now       func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(username, password, secret string) *AuthService {
	return &AuthService{
		username:  username,
		password:  password,
		jwtSecret: []byte(secret),
		now:       time.Now,
	}
}

// Login validates credentials and returns an analyst token
func (s *AuthService) Login(username, password string) (*model.LoginResponse, error) {
	if username != s.username || password != s.password {
		return nil, ErrInvalidCredentials
	}

	analystID := "analyst_" + uuid.New().String()[:8]
	now := s.now()

	claims := &model.AnalystClaims{
		AnalystID: analystID,
		RegisteredClaims: jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{audienceAnalyst},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(analystTokenTTL)),
		},
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{
		Token:     tokenString,
		AnalystID: analystID,
	}, nil
}

// ValidateAnalystToken validates an analyst JWT and returns claims
func (s *AuthService) ValidateAnalystToken(tokenString string) (*model.AnalystClaims, error) {
	claims := &model.AnalystClaims{}
	if err := s.parse(tokenString, claims, audienceAnalyst); err != nil {
		return nil, err
	}
	if claims.AnalystID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// GenerateRunToken creates a token that only grants access to one run's progress stream
func (s *AuthService) GenerateRunToken(runID, analystID string) (string, error) {
	now := s.now()
	claims := &model.RunClaims{
		RunID:     runID,
		AnalystID: analystID,
		RegisteredClaims: jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{audienceRun},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(runTokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

// ValidateRunToken validates a run token and returns claims
func (s *AuthService) ValidateRunToken(tokenString string) (*model.RunClaims, error) {
	claims := &model.RunClaims{}
	if err := s.parse(tokenString, claims, audienceRun); err != nil {
		return nil, err
	}
	if claims.RunID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *AuthService) parse(tokenString string, claims jwt.Claims, audience string) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(audience),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}
	return nil
}

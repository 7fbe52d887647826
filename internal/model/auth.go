package model

import "github.com/golang-jwt/jwt/v5"

// AnalystClaims are JWT claims for an authenticated research analyst
type AnalystClaims struct {
	AnalystID string `json:"analystId"`
	jwt.RegisteredClaims
}

// RunClaims scope a token to a single run's progress stream
type RunClaims struct {
	RunID     string `json:"runId"`
	AnalystID string `json:"analystId"`
	jwt.RegisteredClaims
}

// LoginRequest is the request body for analyst login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned after successful login
type LoginResponse struct {
	Token     string `json:"token"`
	AnalystID string `json:"analystId"`
}

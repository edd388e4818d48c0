// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides the password check and admin token primitives.
//
// There is a single administrator identified by a shared password. A
// successful login yields an HS256 token whose only authority is the
// admin flag it carries.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNotAdmin is returned by [TokenService.VerifyToken] when the signature is
// valid but the admin flag is absent or false.
var ErrNotAdmin = errors.New("sec: token does not carry admin privileges")

// AdminClaims is the payload of an admin bearer token.
type AdminClaims struct {
	jwt.RegisteredClaims

	Admin bool `json:"admin"`

	// Timestamp is the issue time in Unix milliseconds.
	Timestamp int64 `json:"timestamp"`
}

// TokenService signs and verifies admin tokens with a shared HMAC secret.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a TokenService. ttl is the fixed token lifetime.
func NewTokenService(secret, issuer string, ttl time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// GenerateAdminToken issues a token carrying admin=true.
func (service *TokenService) GenerateAdminToken() (string, error) {
	return service.sign(true)
}

func (service *TokenService) sign(admin bool) (string, error) {
	currentTime := service.now()
	claims := AdminClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(service.ttl)),
		},
		Admin:     admin,
		Timestamp: currentTime.UnixMilli(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// VerifyToken checks signature, expiry and the admin flag.
//
// A well-formed token without the admin flag returns its claims together
// with [ErrNotAdmin] so callers can distinguish 401 from 403.
func (service *TokenService) VerifyToken(tokenString string) (*AdminClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AdminClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.secret, nil
	}, jwt.WithTimeFunc(service.now))

	if err != nil {
		return nil, fmt.Errorf("sec: invalid token: %w", err)
	}

	claims, ok := token.Claims.(*AdminClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("sec: invalid token claims")
	}

	if !claims.Admin {
		return claims, ErrNotAdmin
	}

	return claims, nil
}

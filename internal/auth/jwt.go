// Package auth issues and verifies the tokens that gate the drawing API
// and the board websocket.
package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

const issuer = "drawboard-api"

// Claims 보드 세션 클레임. Nickname 은 캔버스에서 다른 참가자에게 보이는 이름.
type Claims struct {
	UserID   int64  `json:"uid"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	jwt.RegisteredClaims
}

// TokenManager 액세스/리프레시 토큰 발급과 검증
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenManager TokenManager 생성
func NewTokenManager(secret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// GenerateAccessToken 보드 접속용 액세스 토큰 발급
func (m *TokenManager) GenerateAccessToken(userID int64, email, nickname string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:   userID,
		Email:    email,
		Nickname: nickname,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// GenerateRefreshToken 리프레시 토큰 발급. 사용자 id 외에는 아무것도 싣지 않는다.
func (m *TokenManager) GenerateRefreshToken(userID int64) (string, error) {
	now := time.Now()
	claims := &jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.refreshTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// parse 서명 방식과 발급자까지 검증한다. 만료는 ErrExpiredToken 으로 구분.
func (m *TokenManager) parse(raw string, into jwt.Claims) error {
	token, err := jwt.ParseWithClaims(raw, into,
		func(*jwt.Token) (interface{}, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrExpiredToken
		}
		return ErrInvalidToken
	}
	if !token.Valid {
		return ErrInvalidToken
	}
	return nil
}

// ValidateAccessToken 액세스 토큰 검증 후 클레임 반환
func (m *TokenManager) ValidateAccessToken(raw string) (*Claims, error) {
	claims := &Claims{}
	if err := m.parse(raw, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// ValidateRefreshToken 리프레시 토큰 검증 후 사용자 id 반환
func (m *TokenManager) ValidateRefreshToken(raw string) (int64, error) {
	claims := &jwt.RegisteredClaims{}
	if err := m.parse(raw, claims); err != nil {
		return 0, err
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, ErrInvalidToken
	}
	return userID, nil
}

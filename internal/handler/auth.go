package handler

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"drawboard-backend/internal/auth"
	"drawboard-backend/internal/model"
)

const refreshCookie = "refresh_token"

// AuthHandler Google 로그인 기반 인증. 액세스 토큰은 본문으로,
// 리프레시 토큰은 HTTPOnly 쿠키로 내려준다.
type AuthHandler struct {
	db           *gorm.DB
	tokens       *auth.TokenManager
	google       *auth.GoogleVerifier
	secureCookie bool
	accessTTL    time.Duration
}

func NewAuthHandler(db *gorm.DB, tokens *auth.TokenManager, google *auth.GoogleVerifier, secureCookie bool, accessTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		db:           db,
		tokens:       tokens,
		google:       google,
		secureCookie: secureCookie,
		accessTTL:    accessTTL,
	}
}

// LoginRequest Google 로그인 요청
type LoginRequest struct {
	IDToken string `json:"id_token"`
}

// LoginResponse 로그인 응답
type LoginResponse struct {
	User        UserPayload `json:"user"`
	AccessToken string      `json:"access_token"`
	ExpiresIn   int64       `json:"expires_in"`
}

// UserPayload 사용자 정보
type UserPayload struct {
	ID        int64   `json:"id"`
	Email     string  `json:"email"`
	Nickname  string  `json:"nickname"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

func toUserPayload(user model.User) UserPayload {
	return UserPayload{
		ID:        user.ID,
		Email:     user.Email,
		Nickname:  user.Nickname,
		AvatarURL: user.ProfileImg,
	}
}

// GoogleLogin Google ID 토큰으로 로그인. 처음 보는 이메일이면 가입 처리.
func (h *AuthHandler) GoogleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil || req.IDToken == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "id_token is required",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	profile, err := h.google.Verify(ctx, req.IDToken)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "google sign-in rejected",
		})
	}

	user, err := h.upsertGoogleUser(profile)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to sign in",
		})
	}

	accessToken, err := h.tokens.GenerateAccessToken(user.ID, user.Email, user.Nickname)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to issue token",
		})
	}
	refreshToken, err := h.tokens.GenerateRefreshToken(user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to issue token",
		})
	}

	h.setRefreshCookie(c, refreshToken)
	return c.JSON(LoginResponse{
		User:        toUserPayload(user),
		AccessToken: accessToken,
		ExpiresIn:   int64(h.accessTTL.Seconds()),
	})
}

// upsertGoogleUser 이메일 기준으로 사용자를 찾고, 없으면 만들고, 있으면
// 프로필 사진만 최신으로 맞춘다.
func (h *AuthHandler) upsertGoogleUser(profile *auth.GoogleProfile) (model.User, error) {
	provider := "google"

	var user model.User
	err := h.db.Where("email = ?", profile.Email).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = model.User{
			Email:      profile.Email,
			Nickname:   profile.Name,
			ProfileImg: &profile.AvatarURL,
			Provider:   &provider,
			ProviderID: &profile.Subject,
		}
		if err := h.db.Create(&user).Error; err != nil {
			return model.User{}, err
		}
		return user, nil

	case err != nil:
		return model.User{}, err

	default:
		user.ProfileImg = &profile.AvatarURL
		if user.Provider == nil {
			user.Provider = &provider
			user.ProviderID = &profile.Subject
		}
		if err := h.db.Save(&user).Error; err != nil {
			return model.User{}, err
		}
		return user, nil
	}
}

// RefreshToken 리프레시 쿠키로 액세스 토큰 재발급
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	raw := c.Cookies(refreshCookie)
	if raw == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "refresh token not found",
		})
	}

	userID, err := h.tokens.ValidateRefreshToken(raw)
	if err != nil {
		// 깨진 쿠키는 바로 지워서 재로그인을 유도
		h.clearRefreshCookie(c)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "invalid or expired refresh token",
		})
	}

	var user model.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		h.clearRefreshCookie(c)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "user not found",
		})
	}

	accessToken, err := h.tokens.GenerateAccessToken(user.ID, user.Email, user.Nickname)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to issue token",
		})
	}

	return c.JSON(fiber.Map{
		"access_token": accessToken,
		"expires_in":   int64(h.accessTTL.Seconds()),
	})
}

// Logout 리프레시 쿠키 폐기
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.clearRefreshCookie(c)
	return c.JSON(fiber.Map{
		"message": "signed out",
	})
}

// GetMe 현재 사용자 정보
func (h *AuthHandler) GetMe(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*auth.Claims)

	var user model.User
	if err := h.db.First(&user, "id = ?", claims.UserID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "user not found",
		})
	}
	return c.JSON(toUserPayload(user))
}

func (h *AuthHandler) setRefreshCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     refreshCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   7 * 24 * 60 * 60,
		Secure:   h.secureCookie,
		HTTPOnly: true,
		SameSite: "Lax",
	})
}

func (h *AuthHandler) clearRefreshCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     refreshCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   h.secureCookie,
		HTTPOnly: true,
	})
}

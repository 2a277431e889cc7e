package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// sessionToken 요청에서 액세스 토큰을 꺼낸다. Authorization 헤더 우선,
// 없으면 access_token 쿠키.
func sessionToken(c *fiber.Ctx) string {
	header := c.Get("Authorization")
	if header == "" {
		return c.Cookies("access_token")
	}
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		raw, ok = strings.CutPrefix(header, "bearer ")
	}
	if !ok {
		return ""
	}
	return strings.TrimSpace(raw)
}

// RequireUser 로그인한 사용자만 통과시키는 미들웨어. 검증된 클레임을
// Locals("claims") 로 넘긴다.
func RequireUser(tokens *TokenManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := sessionToken(c)
		if raw == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing access token",
			})
		}

		claims, err := tokens.ValidateAccessToken(raw)
		if err != nil {
			if errors.Is(err, ErrExpiredToken) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "token expired",
					"code":  "TOKEN_EXPIRED",
				})
			}
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid token",
			})
		}

		c.Locals("claims", claims)
		return c.Next()
	}
}

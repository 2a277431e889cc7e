package auth

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/idtoken"
)

var ErrGoogleToken = errors.New("google id token rejected")

// GoogleProfile 검증된 ID 토큰에서 꺼낸 프로필
type GoogleProfile struct {
	Subject   string
	Email     string
	Name      string
	AvatarURL string
}

// GoogleVerifier Google ID 토큰 검증기
type GoogleVerifier struct {
	clientID string
}

func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{clientID: clientID}
}

// Verify ID 토큰을 검증하고 프로필을 반환한다. 이메일 미인증 계정은 거부.
func (v *GoogleVerifier) Verify(ctx context.Context, rawIDToken string) (*GoogleProfile, error) {
	payload, err := idtoken.Validate(ctx, rawIDToken, v.clientID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGoogleToken, err)
	}

	if verified, _ := payload.Claims["email_verified"].(bool); !verified {
		return nil, fmt.Errorf("%w: email not verified", ErrGoogleToken)
	}

	email := claimString(payload.Claims, "email")
	if email == "" {
		return nil, fmt.Errorf("%w: no email claim", ErrGoogleToken)
	}

	return &GoogleProfile{
		Subject:   payload.Subject,
		Email:     email,
		Name:      claimString(payload.Claims, "name"),
		AvatarURL: claimString(payload.Claims, "picture"),
	}, nil
}

func claimString(claims map[string]interface{}, key string) string {
	s, _ := claims[key].(string)
	return s
}

package public

import (
	"strings"

	"github.com/sponza-next/internal/service"
)

// CaptchaPayloadRequest is the captcha fragment on login and register
// requests. An empty payload passes when the scene is disabled; the
// service decides whether it is required.
type CaptchaPayloadRequest struct {
	CaptchaID   string `json:"captcha_id"`
	CaptchaCode string `json:"captcha_code"`
}

func (r CaptchaPayloadRequest) toServicePayload() service.CaptchaVerifyPayload {
	return service.CaptchaVerifyPayload{
		CaptchaID:   strings.TrimSpace(r.CaptchaID),
		CaptchaCode: strings.TrimSpace(r.CaptchaCode),
	}
}

package shared

import (
	"strings"

	"github.com/sponza-next/internal/service"
)

// CaptchaPayloadRequest is the captcha fragment carried by guarded
// requests. An empty payload is allowed when the scene is disabled; the
// service decides whether it is required.
type CaptchaPayloadRequest struct {
	CaptchaID   string `json:"captcha_id"`
	CaptchaCode string `json:"captcha_code"`
}

// ToServicePayload converts the request fragment for verification.
func (r CaptchaPayloadRequest) ToServicePayload() service.CaptchaVerifyPayload {
	return service.CaptchaVerifyPayload{
		CaptchaID:   strings.TrimSpace(r.CaptchaID),
		CaptchaCode: strings.TrimSpace(r.CaptchaCode),
	}
}

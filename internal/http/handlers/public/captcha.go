package public

import (
	"github.com/sponza-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetImageCaptcha issues an image challenge.
func (h *Handler) GetImageCaptcha(c *gin.Context) {
	if h.CaptchaService == nil {
		respondError(c, response.CodeServerError, "captcha unavailable", nil)
		return
	}

	challenge, err := h.CaptchaService.GenerateImageChallenge()
	if err != nil {
		respondError(c, response.CodeServerError, "could not generate captcha", err)
		return
	}

	response.Success(c, gin.H{
		"captcha_id":   challenge.CaptchaID,
		"image_base64": challenge.ImageBase64,
	})
}

// GetCaptchaSetting exposes which scenes require a captcha.
func (h *Handler) GetCaptchaSetting(c *gin.Context) {
	if h.CaptchaService == nil {
		response.Success(c, gin.H{"provider": "none"})
		return
	}
	response.Success(c, h.CaptchaService.PublicSetting())
}

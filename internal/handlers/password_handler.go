package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"smsauth/internal/models"
	"smsauth/internal/services"
)

type PasswordHandler struct {
	reset services.PasswordResetService
}

func NewPasswordHandler(reset services.PasswordResetService) *PasswordHandler {
	return &PasswordHandler{reset: reset}
}

// @Summary      Запросить код для сброса пароля
// @Tags         Password
// @Accept       json
// @Produce      json
// @Param        request  body      models.RequestCodeRequest  true  "Номер телефона"
// @Success      200      {object}  map[string]interface{}
// @Failure      400      {object}  map[string]string
// @Router       /password/request_code [post]
func (h *PasswordHandler) RequestCode(c *gin.Context) {
	var req models.RequestCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.reset.RequestReset(c.Request.Context(), req.Phone); err != nil {
		if errors.Is(err, services.ErrSMSDeliveryFailed) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to send SMS"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// @Summary      Сбросить пароль по коду из SMS
// @Tags         Password
// @Accept       json
// @Produce      json
// @Param        request  body      models.ResetPasswordRequest  true  "Номер, код и новый пароль"
// @Success      200      {object}  map[string]interface{}
// @Failure      400      {object}  map[string]string
// @Router       /password/reset [post]
func (h *PasswordHandler) Reset(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.reset.ResetPassword(c.Request.Context(), req.Phone, req.Code, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCodeExpired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "code expired, please request a new one"})
		case errors.Is(err, services.ErrCodeInvalid):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid code"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

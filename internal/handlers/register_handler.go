package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"smsauth/internal/models"
	"smsauth/internal/services"
)

type RegisterHandler struct {
	registration services.RegistrationService
}

func NewRegisterHandler(registration services.RegistrationService) *RegisterHandler {
	return &RegisterHandler{registration: registration}
}

// @Summary      Запросить код подтверждения
// @Description  Генерирует одноразовый код и отправляет его по SMS
// @Tags         Register
// @Accept       json
// @Produce      json
// @Param        request  body      models.RequestCodeRequest  true  "Номер телефона"
// @Success      200      {object}  map[string]interface{}
// @Failure      400      {object}  map[string]string
// @Router       /register/request_code [post]
func (h *RegisterHandler) RequestCode(c *gin.Context) {
	var req models.RequestCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.registration.RequestCode(c.Request.Context(), req.Phone); err != nil {
		if errors.Is(err, services.ErrSMSDeliveryFailed) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to send SMS"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// @Summary      Проверить код
// @Description  UX-проверка кода перед вводом пароля, ничего не меняет
// @Tags         Register
// @Accept       json
// @Produce      json
// @Param        request  body      models.VerifyCodeRequest  true  "Номер и код"
// @Success      200      {object}  map[string]interface{}
// @Failure      400      {object}  map[string]string
// @Router       /register/verify_code [post]
func (h *RegisterHandler) VerifyCode(c *gin.Context) {
	var req models.VerifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.registration.VerifyCode(c.Request.Context(), req.Phone, req.Code); err != nil {
		writeCodeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// @Summary      Завершить регистрацию
// @Description  Проверяет код, создаёт пользователя с bcrypt-хэшем пароля
// @Tags         Register
// @Accept       json
// @Produce      json
// @Param        request  body      models.RegisterRequest  true  "Номер, код и пароль"
// @Success      200      {object}  map[string]interface{}
// @Failure      400      {object}  map[string]string
// @Router       /register [post]
func (h *RegisterHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := h.registration.CompleteRegistration(c.Request.Context(), req.Phone, req.Code, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrAccountExists) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user already exists"})
			return
		}
		writeCodeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "user_id": userID})
}

func writeCodeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrCodeExpired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "code expired, please request a new one"})
	case errors.Is(err, services.ErrCodeInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid code"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clubportal/internal/services"
)

type PasswordResetHandler struct {
	resets services.PasswordResetService
}

func NewPasswordResetHandler(resets services.PasswordResetService) *PasswordResetHandler {
	return &PasswordResetHandler{resets: resets}
}

// @Summary      Request a password reset link
// @Description  Always answers 200, whether or not the email belongs to an account
// @Tags         PasswordReset
// @Accept       json
// @Produce      json
// @Param        request  body      object{email=string}  true  "Account email"
// @Success      200      {object}  map[string]string
// @Failure      400      {object}  map[string]interface{}
// @Router       /password-reset/request [post]
func (h *PasswordResetHandler) RequestReset(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// identical response for known and unknown emails
	if _, err := h.resets.RequestReset(req.Email); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "If that email belongs to an account, a reset link has been sent"})
}

// @Summary      Check a reset link
// @Tags         PasswordReset
// @Produce      json
// @Param        token  path      string  true  "Reset token"
// @Success      200    {object}  map[string]interface{}
// @Failure      404    {object}  map[string]interface{}
// @Failure      410    {object}  map[string]interface{}
// @Router       /reset-password/{token} [get]
func (h *PasswordResetHandler) ValidateToken(c *gin.Context) {
	info, err := h.resets.ValidateToken(c.Param("token"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"valid":      true,
		"email":      info.Email,
		"first_name": info.FirstName,
	})
}

// @Summary      Set a new password using a reset link
// @Tags         PasswordReset
// @Accept       json
// @Produce      json
// @Param        token    path      string                   true  "Reset token"
// @Param        request  body      object{password=string}  true  "New password"
// @Success      200      {object}  map[string]string
// @Failure      400      {object}  map[string]interface{}
// @Failure      404      {object}  map[string]interface{}
// @Failure      410      {object}  map[string]interface{}
// @Router       /reset-password/{token} [post]
func (h *PasswordResetHandler) ResetPassword(c *gin.Context) {
	var req struct {
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.resets.ResetPassword(c.Param("token"), req.Password); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}

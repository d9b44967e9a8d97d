package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clubportal/internal/services"
)

type MembershipHandler struct {
	memberships services.MembershipService
	users       services.UserService
}

func NewMembershipHandler(memberships services.MembershipService, users services.UserService) *MembershipHandler {
	return &MembershipHandler{memberships: memberships, users: users}
}

// @Summary      Verify USV membership number
// @Description  Checks the number against the federation API and unlocks the reduced fee
// @Tags         Membership
// @Accept       json
// @Produce      json
// @Param        request  body      object{usv_number=string}  true  "USV membership number"
// @Success      200      {object}  services.VerificationStatus
// @Failure      400      {object}  map[string]interface{}
// @Failure      502      {object}  map[string]interface{}
// @Router       /membership/verify [post]
func (h *MembershipHandler) Verify(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	var req struct {
		USVNumber string `json:"usv_number" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status, err := h.memberships.Verify(c.Request.Context(), userID, req.USVNumber)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *MembershipHandler) Status(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	user, err := h.users.GetUserByID(userID)
	if err != nil {
		writeError(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"usv_number":   user.USVNumber,
		"is_verified":  user.IsVerified,
		"verified_at":  user.VerifiedAt,
		"member_since": user.MemberSince,
	})
}

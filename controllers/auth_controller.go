package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	middleware "github.com/phillip/trust-manager-go/middleware"
)

// ---------------- LOGIN ----------------
func Login(a *App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Email    string `json:"email" binding:"required,email"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if !strings.EqualFold(strings.TrimSpace(input.Email), a.Cfg.AdminEmail) ||
			bcrypt.CompareHashAndPassword([]byte(a.Cfg.AdminPasswordHash), []byte(input.Password)) != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}

		token, exp, err := middleware.IssueToken(a.Cfg, a.Cfg.AdminEmail, middleware.RoleAdmin)
		if err != nil {
			a.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token, "expires_at": exp})
	}
}

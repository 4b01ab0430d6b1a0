package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/birlikweb/cms/config"
	"github.com/birlikweb/cms/middleware"
	"github.com/birlikweb/cms/repository"
	"github.com/birlikweb/cms/utils"
)

// AuthController issues and revokes staff tokens.
type AuthController struct {
	users repository.UserRepository
}

// NewAuthController creates a new AuthController instance.
func NewAuthController(users repository.UserRepository) *AuthController {
	return &AuthController{users: users}
}

// Login authenticates a staff account and issues a role-bearing JWT.
func (a *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := a.users.ByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.Error(ctx, http.StatusUnauthorized, "invalid credentials")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, "failed to load account")
		return
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.Error(ctx, http.StatusUnauthorized, "invalid credentials")
		return
	}

	cfg := config.Get()
	ttl := time.Duration(cfg.TokenTTLHours) * time.Hour
	token, err := utils.GenerateToken(user, ttl)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to issue token")
		return
	}

	utils.Success(ctx, gin.H{
		"token": token,
		"user":  user,
	})
}

// Logout revokes the presented token until its natural expiration.
func (a *AuthController) Logout(ctx *gin.Context) {
	tokenVal, _ := ctx.Get(middleware.ContextTokenKey)
	token, _ := tokenVal.(string)
	claimsVal, _ := ctx.Get(middleware.ContextClaimsKey)
	claims, ok := claimsVal.(*utils.Claims)
	if token == "" || !ok || claims.ExpiresAt == nil {
		utils.Error(ctx, http.StatusUnauthorized, "invalid or expired token")
		return
	}

	utils.BlacklistToken(token, claims.ExpiresAt.Time)
	utils.Success(ctx, gin.H{"message": "logged out"})
}

// Me returns the authenticated staff identity decoded from the token.
func (a *AuthController) Me(ctx *gin.Context) {
	claimsVal, _ := ctx.Get(middleware.ContextClaimsKey)
	claims, ok := claimsVal.(*utils.Claims)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "invalid or expired token")
		return
	}

	utils.Success(ctx, gin.H{
		"user_id":  claims.UserID,
		"username": claims.Username,
		"author":   claims.Author,
		"role":     claims.Role,
	})
}

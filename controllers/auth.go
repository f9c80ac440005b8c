package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"studiojb-backend/models"
	"studiojb-backend/repository"
	"studiojb-backend/utils"

	"github.com/gin-gonic/gin"
)

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type CreateUserInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name"`
}

type AuthController struct {
	Users        repository.UserRepository
	Secret       string
	Expiry       time.Duration
	SecureCookie bool
	Logger       *slog.Logger
}

// controllers/auth.go
func (ac *AuthController) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	user, err := ac.Users.FindByUsername(c.Request.Context(), input.Username)
	if errors.Is(err, repository.ErrNotFound) {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		ac.Logger.Error("failed to load user", "username", input.Username, "err", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	if !user.IsActive || !utils.CheckPasswordHash(input.Password, user.PasswordHash) {
		ac.Logger.Warn("failed admin login", "username", input.Username, "ip", c.ClientIP())
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Username, ac.Secret, ac.Expiry)
	if err != nil {
		ac.Logger.Error("failed to sign token", "err", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Could not generate token")
		return
	}

	now := time.Now()
	if err := ac.Users.TouchLastLogin(c.Request.Context(), user.ID, now); err != nil {
		ac.Logger.Warn("failed to record last login", "user_id", user.ID, "err", err)
	}
	user.LastLogin = &now

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("token", token, int(ac.Expiry.Seconds()), "/", "", ac.SecureCookie, true)

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

// Me returns the logged in admin.
func (ac *AuthController) Me(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	user, err := ac.Users.FindByID(c.Request.Context(), userID.(uint))
	if errors.Is(err, repository.ErrNotFound) {
		utils.RespondWithError(c, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	c.JSON(http.StatusOK, user)
}

func (ac *AuthController) Logout(c *gin.Context) {
	c.SetCookie("token", "", -1, "/", "", ac.SecureCookie, true)
	c.Status(http.StatusNoContent)
}

// CreateUser adds another back-office account.
func (ac *AuthController) CreateUser(c *gin.Context) {
	var input CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	_, err := ac.Users.FindByUsername(c.Request.Context(), input.Username)
	if err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Username already taken")
		return
	}
	if !errors.Is(err, repository.ErrNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	user := models.User{
		Username:     input.Username,
		PasswordHash: input.Password, // hashed in BeforeCreate
		Name:         input.Name,
		Role:         "admin",
		IsActive:     true,
	}
	if err := ac.Users.Create(c.Request.Context(), &user); err != nil {
		ac.Logger.Error("failed to create user", "username", input.Username, "err", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	ac.Logger.Info("admin user created", "username", user.Username, "by", utils.CurrentUsername(c))
	c.JSON(http.StatusCreated, user)
}

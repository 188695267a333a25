package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	authdomain "github.com/qline-io/qline/internal/auth/domain"
)

type registerRequest struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name"`
}

func (s *Server) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, authdomain.ErrInvalidEmail)
		return
	}

	user, err := s.authsvc.Register(c.Request.Context(), authdomain.RegisterRequest{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, authdomain.ErrInvalidCredentials)
		return
	}

	result, err := s.authsvc.Login(c.Request.Context(), authdomain.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

type passwordResetRequest struct {
	Email string `json:"email" binding:"required"`
}

func (s *Server) RequestPasswordReset(c *gin.Context) {
	var req passwordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, authdomain.ErrInvalidEmail)
		return
	}

	if err := s.authsvc.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		AbortWithError(c, err)
		return
	}

	// Always accepted: the response never reveals whether the email exists.
	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

type passwordResetConfirmRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

func (s *Server) ConfirmPasswordReset(c *gin.Context) {
	var req passwordResetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, authdomain.ErrInvalidToken)
		return
	}

	if err := s.authsvc.ConfirmPasswordReset(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

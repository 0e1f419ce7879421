package httpserver

import (
	"errors"
	"net/http"

	accountsvc "acaihouse/internal/service/account"
	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	User         interface{} `json:"user"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	ExpiresIn    int         `json:"expiresIn"`
}

type profileRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func signupHandler(accounts AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in accountsvc.SignupInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		u, err := accounts.Signup(c.Request.Context(), in)
		if err != nil {
			if errors.Is(err, accountsvc.ErrEmailTaken) {
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, u)
	}
}

func loginHandler(accounts AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in loginRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		u, access, refresh, err := accounts.Login(c.Request.Context(), in.Email, in.Password)
		if err != nil {
			if errors.Is(err, accountsvc.ErrInvalidCredentials) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
			return
		}
		c.JSON(http.StatusOK, loginResponse{
			User:         u,
			AccessToken:  access,
			RefreshToken: refresh,
			ExpiresIn:    accounts.AccessTTLSeconds(),
		})
	}
}

func logoutHandler(accounts AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetString("accessToken")
		if err := accounts.Logout(c.Request.Context(), token); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "logout failed"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func meHandler(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c))
}

func updateProfileHandler(accounts AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in profileRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		u := currentUser(c)
		updated, err := accounts.UpdateProfile(c.Request.Context(), u.ID, in.Name, in.Phone, in.Address)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

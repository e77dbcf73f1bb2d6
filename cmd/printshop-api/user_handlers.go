package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/akbarpress/printshop/internal/user"
)

// @Summary Register a staff account
// @Tags users
// @Accept json
// @Produce json
// @Param user body user.RegisterRequest true "account"
// @Success 201 {object} user.User
// @Failure 400 {object} order.HTTPError
// @Router /users/register [post]
func registerHandler(repo user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req user.RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		if req.FullName == "" || req.Email == "" || req.Password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "fullname, email and password are required"})
			return
		}
		hash, err := user.HashPassword(req.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "hash failed"})
			return
		}
		role := req.Role
		if role == "" {
			role = "user"
		}
		u := &user.User{
			ID:           uuid.NewString(),
			FullName:     req.FullName,
			Email:        req.Email,
			PasswordHash: hash,
			Role:         role,
			IsActive:     true,
		}
		if err := repo.Create(c.Request.Context(), u); err != nil {
			if errors.Is(err, user.ErrAlreadyExist) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "email already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
			return
		}
		c.JSON(http.StatusCreated, u)
	}
}

// loginHandler verifies the password and hands out a bearer token.
// @Summary Sign in
// @Tags users
// @Accept json
// @Produce json
// @Param credentials body user.LoginRequest true "credentials"
// @Success 200 {object} user.LoginResponse
// @Failure 401 {object} order.HTTPError
// @Router /users/login [post]
func loginHandler(repo user.Repository, secret []byte, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req user.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		u, err := repo.GetByEmail(c.Request.Context(), req.Email)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		if !user.CheckPassword(u.PasswordHash, req.Password) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		if !u.IsActive {
			c.JSON(http.StatusForbidden, gin.H{"error": "account deactivated"})
			return
		}
		token, err := user.IssueToken(secret, u, ttl, time.Now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token failed"})
			return
		}
		c.JSON(http.StatusOK, user.LoginResponse{Token: token, User: *u})
	}
}

// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {array} user.User
// @Router /users [get]
func listUsersHandler(repo user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := repo.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
			return
		}
		if users == nil {
			users = []user.User{}
		}
		c.JSON(http.StatusOK, users)
	}
}

// @Summary Get a user
// @Tags users
// @Produce json
// @Param id path string true "user id"
// @Success 200 {object} user.User
// @Failure 404 {object} order.HTTPError
// @Router /users/{id} [get]
func getUserHandler(repo user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusOK, u)
	}
}

// @Summary Update profile fields
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "user id"
// @Param user body user.UpdateUserRequest true "changes"
// @Success 200 {object} user.User
// @Failure 404 {object} order.HTTPError
// @Router /users/{id} [patch]
func updateUserHandler(repo user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req user.UpdateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		u := &user.User{
			ID:       c.Param("id"),
			FullName: req.FullName, // empty => unchanged
			Email:    req.Email,
			Role:     req.Role,
		}
		if err := repo.Update(c.Request.Context(), u); err != nil {
			if errors.Is(err, user.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
			return
		}
		out, err := repo.GetByID(c.Request.Context(), u.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "refetch failed"})
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// setUserActiveHandler serves both deactivate and reactivate; deactivation is
// the system's soft delete.
// @Summary Activate or deactivate a user
// @Tags users
// @Produce json
// @Param id path string true "user id"
// @Success 200 {object} map[string]string
// @Failure 404 {object} order.HTTPError
// @Router /users/{id}/deactivate [patch]
func setUserActiveHandler(repo user.Repository, active bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := repo.SetActive(c.Request.Context(), c.Param("id"), active); err != nil {
			if errors.Is(err, user.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
			return
		}
		msg := "user deactivated"
		if active {
			msg = "user reactivated"
		}
		c.JSON(http.StatusOK, gin.H{"message": msg})
	}
}

// @Summary Change password
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "user id"
// @Param passwords body user.ChangePasswordRequest true "old and new password"
// @Success 200 {object} map[string]string
// @Failure 400 {object} order.HTTPError
// @Router /users/{id}/password [patch]
func changePasswordHandler(repo user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req user.ChangePasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.NewPassword == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		u, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		if !user.CheckPassword(u.PasswordHash, req.OldPassword) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "old password is incorrect"})
			return
		}
		hash, err := user.HashPassword(req.NewPassword)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "hash failed"})
			return
		}
		if err := repo.UpdatePassword(c.Request.Context(), u.ID, hash); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "password changed"})
	}
}

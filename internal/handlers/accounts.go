package handlers

import (
	"database/sql"
	"net/http"
	"net/mail"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"linkmark/internal/middleware"
	"linkmark/internal/models"
	"linkmark/internal/password"
)

type registerRequest struct {
	Username  string `json:"username"`
	Password1 string `json:"password1"`
	Password2 string `json:"password2"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Register creates a new user account. Validation failures come back as
// a field -> messages mapping under "errors".
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	errs := fieldErrors{}

	if req.Username == "" {
		errs.add("username", msgFieldRequired)
	}

	if req.Email == "" {
		errs.add("email", msgFieldRequired)
	} else if !validEmail(req.Email) {
		errs.add("email", "Enter a valid email address.")
	}

	if req.Password1 == "" {
		errs.add("password1", msgFieldRequired)
	}
	if req.Password2 == "" {
		errs.add("password2", msgFieldRequired)
	}

	if req.Password1 != "" && req.Password2 != "" {
		if req.Password1 != req.Password2 {
			errs.add("password2", "The two password fields didn't match.")
		} else {
			for _, violation := range h.policy.Validate(req.Password1) {
				errs.add("password2", violation)
			}
		}
	}

	if req.Username != "" {
		taken, err := h.columnValueExists("username", req.Username)
		if err != nil {
			h.log.Error("checking username availability", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating user"})
			return
		}
		if taken {
			errs.add("username", "A user with that username already exists.")
		}
	}

	if req.Email != "" {
		taken, err := h.columnValueExists("email", req.Email)
		if err != nil {
			h.log.Error("checking email availability", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating user"})
			return
		}
		if taken {
			errs.add("email", "Email is already in use")
		}
	}

	if len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}

	hashedPassword, err := password.Hash(req.Password1)
	if err != nil {
		h.log.Error("hashing password", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error hashing password"})
		return
	}

	var userID int
	query := `INSERT INTO users (username, password, email, first_name, last_name)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err = h.db.QueryRow(query, req.Username, hashedPassword, req.Email, req.FirstName, req.LastName).Scan(&userID)
	if err != nil {
		h.log.Error("inserting user", zap.Error(err))
		if strings.Contains(err.Error(), "duplicate key value") {
			// Raced with a concurrent registration for the same name/email.
			c.JSON(http.StatusBadRequest, gin.H{"errors": fieldErrors{
				"username": {"A user with that username or email already exists."},
			}})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating user"})
		return
	}

	h.log.Info("user registered", zap.Int("user_id", userID), zap.String("username", req.Username))
	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
}

// TokenPair checks credentials and issues an access/refresh pair.
func (h *Handler) TokenPair(c *gin.Context) {
	var credentials struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&credentials); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return
	}

	var userID int
	var hashedPassword string
	query := `SELECT id, password FROM users WHERE username=$1`
	err := h.db.QueryRow(query, credentials.Username).Scan(&userID, &hashedPassword)

	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "No active account found with the given credentials"})
			return
		}
		h.log.Error("querying user for login", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error logging in"})
		return
	}

	if !password.Verify(credentials.Password, hashedPassword) {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "No active account found with the given credentials"})
		return
	}

	pair, err := h.tokens.IssuePair(userID)
	if err != nil {
		h.log.Error("issuing token pair", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error generating token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access":  pair.Access,
		"refresh": pair.Refresh,
	})
}

// TokenRefresh exchanges a valid refresh token for a new access token.
func (h *Handler) TokenRefresh(c *gin.Context) {
	var req struct {
		Refresh string `json:"refresh" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Refresh token is required"})
		return
	}

	access, err := h.tokens.Refresh(req.Refresh)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Token is invalid or expired"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"access": access})
}

// UserInfo returns the current user's profile fields.
func (h *Handler) UserInfo(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var user models.User
	query := `SELECT username, first_name, last_name, email FROM users WHERE id=$1`
	err := h.db.QueryRow(query, userID).Scan(&user.Username, &user.FirstName, &user.LastName, &user.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			return
		}
		h.log.Error("querying user info", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"username":   user.Username,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"email":      user.Email,
	})
}

func (h *Handler) columnValueExists(column, value string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE ` + column + `=$1)`
	err := h.db.QueryRow(query, value).Scan(&exists)
	return exists, err
}

func validEmail(email string) bool {
	parsed, err := mail.ParseAddress(email)
	return err == nil && parsed.Address == email
}

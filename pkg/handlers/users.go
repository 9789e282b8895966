package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"video-portfolio/pkg/ratelimit"
)

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type passwordChange struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (h *Handler) Login(c *gin.Context) {
	ctx := c.Request.Context()
	key := c.ClientIP()

	if h.Limiter != nil {
		d, err := h.Limiter.Allow(ctx, key)
		if err != nil {
			// fail open: a broken limiter must not lock every admin out
			h.Log.WithError(err).Warn("login limiter unavailable")
		} else if !d.Allowed {
			tooManyAttempts(c, d)
			return
		}
	}

	var creds Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		fail(c, http.StatusBadRequest, "Username and password are required.")
		return
	}

	sess, err := h.Accounts.Login(creds.Username, creds.Password)
	if err != nil {
		h.respondError(c, err, "logging in")
		return
	}
	if h.Limiter != nil {
		if err := h.Limiter.Reset(ctx, key); err != nil {
			h.Log.WithError(err).Warn("login limiter reset failed")
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful.",
		"token":   sess.Token,
		"user":    gin.H{"id": sess.Admin.ID, "username": sess.Admin.Username},
	})
}

func tooManyAttempts(c *gin.Context, d ratelimit.Decision) {
	secs := int(d.RetryAfter.Seconds())
	if secs < 1 {
		secs = 1
	}
	c.Header("Retry-After", strconv.Itoa(secs))
	fail(c, http.StatusTooManyRequests, "Too many login attempts. Try again later.")
}

func (h *Handler) Profile(c *gin.Context) {
	admin, err := h.Accounts.Profile(actor(c))
	if err != nil {
		h.respondError(c, err, "loading the profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": admin})
}

func (h *Handler) ListUsers(c *gin.Context) {
	admins, err := h.Accounts.List()
	if err != nil {
		h.respondError(c, err, "loading users")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "users": admins})
}

func (h *Handler) CreateUser(c *gin.Context) {
	var creds Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body.")
		return
	}

	admin, err := h.Accounts.Create(actor(c), creds.Username, creds.Password)
	if err != nil {
		h.respondError(c, err, "creating the user")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "User created.", "user": admin})
}

func (h *Handler) DeleteUser(c *gin.Context) {
	if err := h.Accounts.Delete(actor(c), c.Param("id")); err != nil {
		h.respondError(c, err, "deleting the user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Account deleted."})
}

func (h *Handler) ChangePassword(c *gin.Context) {
	var req passwordChange
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if err := h.Accounts.ChangePassword(actor(c), req.CurrentPassword, req.NewPassword); err != nil {
		h.respondError(c, err, "changing the password")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password changed."})
}

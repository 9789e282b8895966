package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"video-portfolio/pkg/accounts"
	"video-portfolio/pkg/auth"
	"video-portfolio/pkg/catalog"
	"video-portfolio/pkg/logger"
	"video-portfolio/pkg/ordering"
	"video-portfolio/pkg/ratelimit"
)

type Handler struct {
	Catalog  *catalog.Service
	Accounts *accounts.Service
	Issuer   *auth.Issuer
	Limiter  ratelimit.Limiter
	Log      logrus.FieldLogger

	// TrustedProxies lists the addresses allowed to set X-Forwarded-For. Empty means the
	// client address is always the peer address, which is what login throttling keys on.
	TrustedProxies []string
}

// Router builds the engine with the API routes; static pages are added by the caller.
func (h *Handler) Router(origins []string) *gin.Engine {
	r := gin.New()
	if err := r.SetTrustedProxies(h.TrustedProxies); err != nil {
		h.Log.WithError(err).Warn("invalid trusted proxies, ignoring forwarded headers")
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(logger.Middleware(h.Log))
	r.Use(gin.CustomRecovery(h.recovered))
	r.Use(cors.New(corsConfig(origins)))
	h.Register(r)
	return r
}

func (h *Handler) Register(r *gin.Engine) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	api := r.Group("/api")
	api.GET("/videos", h.PublicVideos)

	admin := api.Group("/admin")
	admin.POST("/login", h.Login)

	protected := admin.Group("", auth.Middleware(h.Issuer))
	protected.GET("/profile", h.Profile)
	protected.GET("/videos", h.ListVideos)
	protected.POST("/videos", h.CreateVideo)
	// must be registered before /videos/:id
	protected.PUT("/videos/reorder", h.ReorderVideos)
	protected.PUT("/videos/:id", h.UpdateVideo)
	protected.DELETE("/videos/:id", h.DeleteVideo)
	protected.GET("/users", h.ListUsers)
	protected.POST("/users", h.CreateUser)
	protected.DELETE("/users/:id", h.DeleteUser)
	protected.PUT("/change-password", h.ChangePassword)

	r.NoRoute(h.NotFound)
}

func (h *Handler) NotFound(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		fail(c, http.StatusNotFound, "Endpoint not found.")
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) recovered(c *gin.Context, err interface{}) {
	h.Log.WithField("panic", err).Error("handler panicked")
	fail(c, http.StatusInternalServerError, "Internal server error.")
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}

func fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": message})
}

type errorStatus struct {
	err    error
	status int
}

var errorStatuses = []errorStatus{
	{catalog.ErrNotFound, http.StatusNotFound},
	{catalog.ErrMissingFields, http.StatusBadRequest},
	{catalog.ErrEmptyTitle, http.StatusBadRequest},
	{catalog.ErrInvalidYoutubeID, http.StatusBadRequest},
	{ordering.ErrEmpty, http.StatusBadRequest},
	{ordering.ErrBlankID, http.StatusBadRequest},
	{ordering.ErrDuplicate, http.StatusBadRequest},
	{accounts.ErrMissingCredentials, http.StatusBadRequest},
	{accounts.ErrMissingPasswords, http.StatusBadRequest},
	{accounts.ErrWeakPassword, http.StatusBadRequest},
	{accounts.ErrLastAdmin, http.StatusBadRequest},
	{accounts.ErrInvalidCredentials, http.StatusUnauthorized},
	{accounts.ErrWrongPassword, http.StatusUnauthorized},
	{accounts.ErrForbiddenCreate, http.StatusForbidden},
	{accounts.ErrForbiddenDelete, http.StatusForbidden},
	{accounts.ErrNotFound, http.StatusNotFound},
	{accounts.ErrUsernameTaken, http.StatusConflict},
}

// respondError maps use-case errors to a status and a readable message. Anything unknown
// is logged and reported as a generic 500.
func (h *Handler) respondError(c *gin.Context, err error, during string) {
	for _, es := range errorStatuses {
		if errors.Is(err, es.err) {
			fail(c, es.status, sentence(err.Error()))
			return
		}
	}
	_ = c.Error(err)
	h.Log.WithError(err).Errorf("%s failed", during)
	fail(c, http.StatusInternalServerError, "Server error while "+during+".")
}

func sentence(msg string) string {
	if msg == "" {
		return msg
	}
	msg = strings.ToUpper(msg[:1]) + msg[1:]
	if !strings.HasSuffix(msg, ".") {
		msg += "."
	}
	return msg
}

func actor(c *gin.Context) accounts.Actor {
	claims := auth.CurrentClaims(c)
	if claims == nil {
		return accounts.Actor{}
	}
	return accounts.Actor{ID: claims.ID, Username: claims.Username}
}

package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"perfume-catalog/internal/auth"
	"perfume-catalog/internal/domain"
	"perfume-catalog/internal/service"
	"perfume-catalog/internal/storage"
)

const principalKey = "principal"

// Options carries the process-wide settings the HTTP layer reports or enforces.
type Options struct {
	AppName        string
	AppVersion     string
	AllowedOrigins []string
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	perfumes service.PerfumeService
	users    service.UserService
	tokens   *auth.TokenService
	logger   *logrus.Logger
	opts     Options
}

func NewHandler(perfumes service.PerfumeService, users service.UserService, tokens *auth.TokenService, logger *logrus.Logger, opts Options) *Handler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Handler{
		perfumes: perfumes,
		users:    users,
		tokens:   tokens,
		logger:   logger,
		opts:     opts,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(requestLogger(h.logger), corsMiddleware(h.opts.AllowedOrigins))

	api := router.Group("/api")
	{
		api.GET("/health", h.health)

		authGroup := api.Group("/auth")
		authGroup.POST("/login", h.login)
		authGroup.GET("/me", h.requireAuth, h.me)
		authGroup.POST("/logout", h.logout)

		perfumes := api.Group("/perfumes")
		perfumes.GET("/", h.listPerfumes)
		perfumes.GET("/search/suggestions", h.suggestPerfumes)
		perfumes.GET("/:id", h.getPerfume)
		perfumes.POST("/", h.requireAuth, h.createPerfume)
		perfumes.PUT("/:id", h.requireAuth, h.updatePerfume)
		perfumes.DELETE("/:id", h.requireAuth, h.deletePerfume)
		perfumes.POST("/:id/image", h.requireAuth, h.uploadImage)
	}
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"app":     h.opts.AppName,
		"version": h.opts.AppVersion,
	})
}

func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"latency":   time.Since(start).String(),
			"client_ip": c.ClientIP(),
		}).Info("request")
	}
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}
	_, wildcard := allowed["*"]

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if _, ok := allowed[origin]; origin != "" && (ok || wildcard) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Add("Vary", "Origin")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// requireAuth resolves the bearer token to its subject or aborts with 401.
func (h *Handler) requireAuth(c *gin.Context) {
	scheme, token, ok := strings.Cut(c.GetHeader("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		h.writeError(c, domain.ErrInvalidCredentials)
		c.Abort()
		return
	}

	subject, err := h.tokens.Verify(strings.TrimSpace(token))
	if err != nil {
		h.writeError(c, err)
		c.Abort()
		return
	}

	c.Set(principalKey, subject)
	c.Next()
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "perfume not found"})
	case errors.Is(err, domain.ErrConflict):
		c.JSON(http.StatusBadRequest, gin.H{"error": "perfume with this id already exists"})
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.Header("WWW-Authenticate", "Bearer")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
	case errors.Is(err, storage.ErrDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		h.logger.WithField("path", c.Request.URL.Path).Errorf("request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

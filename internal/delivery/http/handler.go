package http

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/analoghub/backend/internal/domain"
	"github.com/analoghub/backend/internal/infrastructure/storage"
	"github.com/analoghub/backend/internal/usecase"
)

// Dependencies are the services behind the HTTP API
type Dependencies struct {
	Search   *usecase.SearchService
	Resolver *usecase.ResolverService
	Tools    *usecase.ToolService
	Auth     *usecase.AuthService
	Queue    domain.TaskQueue
	Storage  *storage.Storage
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	search   *usecase.SearchService
	resolver *usecase.ResolverService
	tools    *usecase.ToolService
	auth     *usecase.AuthService
	queue    domain.TaskQueue
	storage  *storage.Storage
}

// NewHandler creates a new HTTP handler
func NewHandler(deps Dependencies) *Handler {
	return &Handler{
		search:   deps.Search,
		resolver: deps.Resolver,
		tools:    deps.Tools,
		auth:     deps.Auth,
		queue:    deps.Queue,
		storage:  deps.Storage,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "analoghub-backend",
		"version": "1.0.0",
	})
}

// writeError maps domain errors to a status code and a {"detail": ...} body
func writeError(c *gin.Context, err error) {
	status, detail := http.StatusInternalServerError, "internal server error"

	switch {
	case errors.Is(err, domain.ErrInvalidContentType),
		errors.Is(err, domain.ErrMissingColumns),
		errors.Is(err, domain.ErrInvalidRequest):
		status, detail = http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrInvalidCredentials):
		status, detail = http.StatusBadRequest, "Incorrect username or password"
	case errors.Is(err, domain.ErrInactiveUser):
		status, detail = http.StatusBadRequest, "User not active or disabled"
	case errors.Is(err, domain.ErrNotFound):
		status, detail = http.StatusNotFound, "not found"
	case errors.Is(err, domain.ErrTokenExpired):
		status, detail = http.StatusUnauthorized, "Token expired"
	case errors.Is(err, domain.ErrUnauthorized):
		status, detail = http.StatusUnauthorized, "Not authorized"
	case errors.Is(err, domain.ErrUserExists):
		status, detail = http.StatusUnprocessableEntity, "User exists"
	case errors.Is(err, domain.ErrDuplicateTool):
		status, detail = http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, domain.ErrRateLimited):
		status, detail = http.StatusTooManyRequests, err.Error()
	case errors.Is(err, domain.ErrCacheUnavailable):
		status, detail = http.StatusServiceUnavailable, err.Error()
	case errors.Is(err, domain.ErrBadQuery):
		status, detail = http.StatusInternalServerError, "bad request"
	}

	if status == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", "Bearer")
	}
	if status >= http.StatusInternalServerError {
		log.Printf("[HTTP] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}

// bindError wraps a gin binding failure as an invalid request
func bindError(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
}

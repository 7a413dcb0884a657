// Package api exposes the reminder operations and the digest trigger over HTTP.
package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pathakanu/taskDigest/internal/digest"
	"github.com/pathakanu/taskDigest/internal/reminder"
	"go.uber.org/zap"
)

// Paths served by the API.
const (
	PathAddItems   = "/add-items"
	PathDeleteItem = "/delete-item"
	PathGetItems   = "/get-items"
	PathUpdateItem = "/update-item"
	PathSendMail   = "/send-mail"
)

// Repository is the reminder store as seen by the HTTP layer.
type Repository interface {
	AddMany(ctx context.Context, items []reminder.Item) ([]string, error)
	Update(ctx context.Context, id string, item reminder.Item) error
	Delete(ctx context.Context, id string) error
	ListByRecipient(ctx context.Context, recipient string) (reminder.Listing, error)
}

// Server wires the handlers to their collaborators.
type Server struct {
	repo   Repository
	digest digest.Runner
	logger *zap.SugaredLogger
}

// New creates a Server.
func New(repo Repository, runner digest.Runner, logger *zap.SugaredLogger) *Server {
	return &Server{repo: repo, digest: runner, logger: logger}
}

// Router returns the gin engine serving every route.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.logger))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	r.POST(PathAddItems, s.addItems)
	r.POST(PathDeleteItem, s.deleteItem)
	r.POST(PathGetItems, s.getItems)
	r.POST(PathUpdateItem, s.updateItem)
	r.POST(PathSendMail, s.sendMail)
	r.GET(PathSendMail, s.sendMail)

	return r
}

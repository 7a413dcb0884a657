package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pathakanu/taskDigest/internal/lease"
	"github.com/pathakanu/taskDigest/internal/reminder"
)

// ErrRequestMalformed is returned when a payload is not valid JSON or lacks a required field.
var ErrRequestMalformed = errors.New("request malformed")

// Message is free-form and may be empty, so only its presence is required.
type itemInput struct {
	Email   string  `json:"email" binding:"required"`
	Date    string  `json:"date" binding:"required"`
	Message *string `json:"message" binding:"required"`
}

func (in itemInput) toItem() reminder.Item {
	return reminder.Item{Recipient: in.Email, DueDate: in.Date, Message: *in.Message}
}

type addItemsInput struct {
	Items []itemInput `json:"items" binding:"required,dive"`
}

type deleteItemInput struct {
	UUID string `json:"uuid" binding:"required"`
}

type getItemsInput struct {
	EmailID string `json:"email_id" binding:"required"`
}

type updateItemInput struct {
	Item struct {
		Email   string  `json:"email" binding:"required"`
		Date    string  `json:"date" binding:"required"`
		Message *string `json:"message" binding:"required"`
		UUID    string  `json:"uuid" binding:"required"`
	} `json:"item"`
}

func (s *Server) addItems(c *gin.Context) {
	var input addItemsInput
	if !s.bind(c, &input) {
		return
	}

	items := make([]reminder.Item, len(input.Items))
	for i, in := range input.Items {
		items[i] = in.toItem()
	}

	if _, err := s.repo.AddMany(c.Request.Context(), items); err != nil {
		s.fail(c, http.StatusInternalServerError, "add-items", err)
		return
	}
	respond(c, "insertion done")
}

func (s *Server) deleteItem(c *gin.Context) {
	var input deleteItemInput
	if !s.bind(c, &input) {
		return
	}

	if err := s.repo.Delete(c.Request.Context(), input.UUID); err != nil {
		s.fail(c, http.StatusInternalServerError, "delete-item", err)
		return
	}
	respond(c, "deletion done")
}

func (s *Server) getItems(c *gin.Context) {
	var input getItemsInput
	if !s.bind(c, &input) {
		return
	}

	listing, err := s.repo.ListByRecipient(c.Request.Context(), input.EmailID)
	if err != nil {
		s.fail(c, http.StatusInternalServerError, "get-items", err)
		return
	}
	respond(c, listing)
}

func (s *Server) updateItem(c *gin.Context) {
	var input updateItemInput
	if !s.bind(c, &input) {
		return
	}

	in := input.Item
	item := reminder.Item{Recipient: in.Email, DueDate: in.Date, Message: *in.Message}
	if err := s.repo.Update(c.Request.Context(), in.UUID, item); err != nil {
		s.fail(c, http.StatusInternalServerError, "update-item", err)
		return
	}
	respond(c, "update done")
}

func (s *Server) sendMail(c *gin.Context) {
	// A client hanging up must not interrupt a run that is already mailing digests.
	_, err := s.digest.Run(context.WithoutCancel(c.Request.Context()))
	switch {
	case errors.Is(err, lease.ErrLeaseHeld):
		s.fail(c, http.StatusConflict, "send-mail", err)
	case err != nil:
		s.fail(c, http.StatusInternalServerError, "send-mail", err)
	default:
		respond(c, "mail sent")
	}
}

// bind decodes the JSON body into dst and writes a 400 response when it cannot.
func (s *Server) bind(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		s.fail(c, http.StatusBadRequest, c.FullPath(), fmt.Errorf("%w: %w", ErrRequestMalformed, err))
		return false
	}
	return true
}

func respond(c *gin.Context, msg interface{}) {
	c.JSON(http.StatusOK, gin.H{"msg": msg})
}

// fail logs err and returns its message as a JSON string body.
func (s *Server) fail(c *gin.Context, status int, operation string, err error) {
	s.logger.Errorw("request failed", "operation", operation, "status", status, "error", err)
	c.JSON(status, err.Error())
}

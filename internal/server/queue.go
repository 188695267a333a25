package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	entrydomain "github.com/qline-io/qline/internal/entry/domain"
	queuedomain "github.com/qline-io/qline/internal/queue/domain"
)

type createQueueRequest struct {
	Name           string  `json:"name" binding:"required"`
	Type           string  `json:"type" binding:"required"`
	Visibility     string  `json:"visibility"`
	OrganizationID *string `json:"organization_id"`
}

func (s *Server) CreateQueue(c *gin.Context) {
	var req createQueueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, queuedomain.ErrInvalidName)
		return
	}

	createReq := queuedomain.CreateRequest{
		Name:       req.Name,
		Type:       req.Type,
		Visibility: req.Visibility,
	}
	if req.OrganizationID != nil {
		orgID, err := parseID(*req.OrganizationID)
		if err != nil {
			AbortWithError(c, queuedomain.ErrOrganizationNeeded)
			return
		}
		createReq.OrganizationID = &orgID
	}

	q, err := s.queueSvc.Create(c.Request.Context(), userIDFromContext(c), createReq)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, q)
}

func (s *Server) ListQueues(c *gin.Context) {
	var organizationID *snowflake.ID
	if raw := strings.TrimSpace(c.Query("organization_id")); raw != "" {
		id, err := parseID(raw)
		if err != nil {
			AbortWithError(c, queuedomain.ErrNotFound)
			return
		}
		organizationID = &id
	}

	queues, err := s.queueSvc.List(c.Request.Context(), organizationID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"queues": queues})
}

func (s *Server) GetQueue(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, queuedomain.ErrNotFound)
		return
	}

	q, err := s.queueSvc.Get(c.Request.Context(), userIDFromContext(c), id, c.Query("access_token"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, q)
}

func (s *Server) DeleteQueue(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, queuedomain.ErrNotFound)
		return
	}

	if err := s.queueSvc.Delete(c.Request.Context(), userIDFromContext(c), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) ListQueueEntries(c *gin.Context) {
	queueID, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, queuedomain.ErrNotFound)
		return
	}

	filter := entrydomain.ListFilter{QueueID: queueID}
	for _, raw := range strings.Split(c.Query("status"), ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		status, ok := entrydomain.ParseStatus(raw)
		if !ok {
			AbortWithError(c, entrydomain.ErrInvalidStatus)
			return
		}
		filter.Statuses = append(filter.Statuses, status)
	}

	entries, err := s.entrySvc.List(c.Request.Context(), filter)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (s *Server) GetNextEntry(c *gin.Context) {
	queueID, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, queuedomain.ErrNotFound)
		return
	}

	next, err := s.entrySvc.NextInQueue(c.Request.Context(), queueID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, next)
}

func (s *Server) GetEntryPosition(c *gin.Context) {
	queueID, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, queuedomain.ErrNotFound)
		return
	}
	entryID, err := parseID(c.Param("entryId"))
	if err != nil {
		AbortWithError(c, entrydomain.ErrNotFound)
		return
	}

	position, err := s.entrySvc.Position(c.Request.Context(), queueID, entryID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"position": position})
}

type addAdminRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

func (s *Server) AddQueueAdmin(c *gin.Context) {
	queueID, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, queuedomain.ErrNotFound)
		return
	}

	var req addAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, queuedomain.ErrAdminNotFound)
		return
	}
	userID, err := parseID(req.UserID)
	if err != nil {
		AbortWithError(c, queuedomain.ErrAdminNotFound)
		return
	}

	grant, err := s.queueSvc.AddAdministrator(c.Request.Context(), userIDFromContext(c), queueID, userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, grant)
}

func (s *Server) ListQueueAdmins(c *gin.Context) {
	queueID, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, queuedomain.ErrNotFound)
		return
	}

	admins, err := s.queueSvc.ListAdministrators(c.Request.Context(), userIDFromContext(c), queueID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"administrators": admins})
}

func (s *Server) RemoveQueueAdmin(c *gin.Context) {
	queueID, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, queuedomain.ErrNotFound)
		return
	}
	userID, err := parseID(c.Param("userId"))
	if err != nil {
		AbortWithError(c, queuedomain.ErrAdminNotFound)
		return
	}

	if err := s.queueSvc.RemoveAdministrator(c.Request.Context(), userIDFromContext(c), queueID, userID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

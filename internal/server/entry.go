package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	entrydomain "github.com/qline-io/qline/internal/entry/domain"
)

type createEntryRequest struct {
	QueueID              string `json:"queue_id" binding:"required"`
	UserID               string `json:"user_id"`
	Date                 string `json:"date"`
	Time                 string `json:"time"`
	NotificationMinutes  *int   `json:"notification_minutes"`
	NotificationPosition *int   `json:"notification_position"`
}

func (s *Server) CreateEntry(c *gin.Context) {
	var req createEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, entrydomain.ErrInvalidDateTime)
		return
	}

	queueID, err := parseID(req.QueueID)
	if err != nil {
		AbortWithError(c, entrydomain.ErrNotFound)
		return
	}

	createReq := entrydomain.CreateRequest{
		QueueID:              queueID,
		Date:                 req.Date,
		Time:                 req.Time,
		NotificationMinutes:  req.NotificationMinutes,
		NotificationPosition: req.NotificationPosition,
	}
	if req.UserID != "" {
		userID, err := parseID(req.UserID)
		if err != nil {
			AbortWithError(c, entrydomain.ErrNotFound)
			return
		}
		createReq.UserID = userID
	}

	e, err := s.entrySvc.Create(c.Request.Context(), userIDFromContext(c), createReq)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, e)
}

func (s *Server) ListEntries(c *gin.Context) {
	filter := entrydomain.ListFilter{UserID: userIDFromContext(c)}

	entries, err := s.entrySvc.List(c.Request.Context(), filter)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (s *Server) GetEntry(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, entrydomain.ErrNotFound)
		return
	}

	e, err := s.entrySvc.FindOne(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, e)
}

type updateEntryRequest struct {
	NotificationMinutes  *int `json:"notification_minutes"`
	NotificationPosition *int `json:"notification_position"`
}

func (s *Server) UpdateEntry(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, entrydomain.ErrNotFound)
		return
	}

	var req updateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, entrydomain.ErrFieldNotAllowed)
		return
	}

	e, err := s.entrySvc.Update(c.Request.Context(), userIDFromContext(c), id, entrydomain.UpdateRequest{
		NotificationMinutes:  req.NotificationMinutes,
		NotificationPosition: req.NotificationPosition,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, e)
}

type updateEntryStatusRequest struct {
	Status  string `json:"status" binding:"required"`
	Comment string `json:"comment"`
}

func (s *Server) UpdateEntryStatus(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, entrydomain.ErrNotFound)
		return
	}

	var req updateEntryStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, entrydomain.ErrInvalidStatus)
		return
	}

	status, ok := entrydomain.ParseStatus(req.Status)
	if !ok {
		AbortWithError(c, entrydomain.ErrInvalidStatus)
		return
	}

	e, err := s.entrySvc.UpdateStatus(c.Request.Context(), userIDFromContext(c), id, status, req.Comment)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, e)
}

func (s *Server) DeleteEntry(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, entrydomain.ErrNotFound)
		return
	}

	if err := s.entrySvc.Remove(c.Request.Context(), userIDFromContext(c), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) GetEntryJournal(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, entrydomain.ErrNotFound)
		return
	}

	// Confirms the entry exists before listing so missing entries 404.
	if _, err := s.entrySvc.FindOne(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	records, err := s.journalSvc.ListByEntry(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"journal": records})
}

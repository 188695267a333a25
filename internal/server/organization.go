package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	organizationdomain "github.com/qline-io/qline/internal/organization/domain"
)

type createOrganizationRequest struct {
	Name string `json:"name" binding:"required"`
}

func (s *Server) CreateOrganization(c *gin.Context) {
	var req createOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, organizationdomain.ErrInvalidName)
		return
	}

	org, err := s.organizationSvc.Create(c.Request.Context(), userIDFromContext(c), req.Name)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, org)
}

func (s *Server) ListOrganizations(c *gin.Context) {
	orgs, err := s.organizationSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"organizations": orgs})
}

func (s *Server) GetOrganization(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, organizationdomain.ErrNotFound)
		return
	}

	org, err := s.organizationSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, org)
}

func (s *Server) DeleteOrganization(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, organizationdomain.ErrNotFound)
		return
	}

	if err := s.organizationSvc.Delete(c.Request.Context(), userIDFromContext(c), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

package server

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	integrationdomain "github.com/qline-io/qline/internal/integration/domain"
)

// ProcessIntegration converts an external-format payload into an entry
// and answers in the caller's preferred format. Failures are encoded as
// a structured error document in the negotiated format; when no format
// could be negotiated the error falls back to JSON.
func (s *Server) ProcessIntegration(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		s.integrationError(c, integrationdomain.ErrMalformedPayload)
		return
	}

	result, err := s.integrationSvc.Process(
		c.Request.Context(),
		string(body),
		c.GetHeader("Content-Type"),
		c.GetHeader("Accept"),
	)
	if err != nil {
		s.integrationError(c, err)
		return
	}

	c.Data(http.StatusOK, result.MediaType, []byte(result.Body))
}

func (s *Server) integrationError(c *gin.Context, err error) {
	_ = c.Error(err)
	mapped := mapError(err)

	// Callers of this surface get exactly two failure shapes: 400 for
	// anything they caused (conversion or business-rule failures, whatever
	// the inner classification), 5xx for server faults.
	if mapped.status < http.StatusInternalServerError {
		mapped.status = http.StatusBadRequest
	}

	payload := integrationdomain.ErrorPayload{
		StatusCode: mapped.status,
		Message:    mapped.message,
		Error:      http.StatusText(mapped.status),
	}

	outbound, convErr := s.registry.Outbound(c.GetHeader("Accept"))
	if convErr != nil {
		c.JSON(mapped.status, payload)
		c.Abort()
		return
	}

	encoded, encErr := outbound.EncodeError(payload)
	if encErr != nil {
		c.JSON(mapped.status, payload)
		c.Abort()
		return
	}

	c.Data(mapped.status, outbound.MediaType(), []byte(encoded))
	c.Abort()
}

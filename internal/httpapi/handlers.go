package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jobsieve/jobsieve/internal/parse"
)

type extractRequest struct {
	Text string `json:"text" binding:"required"`
}

// extractJob is the POST /api/v1/jobs/extract endpoint. Pipeline error kinds
// map onto HTTP statuses: bad input is the client's fault, missing
// credentials mean the service is not ready, a refusal from the extraction
// service is unprocessable, and an exhausted transient failure is a bad
// gateway.
func (s *Server) extractJob(c *gin.Context) {
	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	rec, err := s.pipeline.ExtractJob(c.Request.Context(), req.Text)
	if err != nil {
		status := statusForError(err)
		s.logger.Error("extraction request failed", "status", status, "error", err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"record": rec})
}

func statusForError(err error) int {
	var perr *parse.Error
	if !errors.As(err, &perr) {
		return http.StatusInternalServerError
	}
	switch perr.Kind {
	case parse.KindInput:
		return http.StatusBadRequest
	case parse.KindConfig:
		return http.StatusServiceUnavailable
	case parse.KindRejected:
		return http.StatusUnprocessableEntity
	case parse.KindTransient:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

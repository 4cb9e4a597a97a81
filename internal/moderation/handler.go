package moderation

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	httperr "github.com/timely-lab/timely-admin/internal/core/errors"
	"github.com/timely-lab/timely-admin/internal/core/storage"
)

const (
	msgInvalidJSON    = "Invalid JSON body"
	msgReportNotFound = "Report not found"
	msgUpdateFailed   = "Failed to update report status"
)

type transitionRequest struct {
	Status string `json:"status" binding:"required"`
}

// ListReportsHandler handles GET /v1/reports?status=a,b&limit=n.
func (s *Service) ListReportsHandler(c *gin.Context) {
	var q ReportQuery

	if raw, ok := c.GetQuery("status"); ok {
		statuses, bad, valid := ParseStatuses(raw)
		if !valid {
			c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
				ErrorType: httperr.HttpInvalidStatusError,
				Message:   "Unknown status " + strconv.Quote(bad),
				Details:   gin.H{"allowed": Statuses()},
			})
			return
		}
		q.Statuses = statuses
	}

	if raw := c.Query("limit"); raw != "" {
		n, err := s.limits.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
				ErrorType: httperr.HttpInvalidQueryError,
				Message:   "limit must be an integer",
			})
			return
		}
		q.Limit = &n
	}

	c.JSON(http.StatusOK, s.ListReports(c.Request.Context(), q))
}

// TransitionsHandler handles GET /v1/reports/transitions.
func (s *Service) TransitionsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"statuses":    Statuses(),
		"transitions": Workflow(),
	})
}

// ApplyTransitionHandler handles POST /v1/reports/:id/status.
func (s *Service) ApplyTransitionHandler(c *gin.Context) {
	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidJsonError,
			Message:   msgInvalidJSON,
		})
		return
	}

	id := c.Param("id")
	err := s.ApplyTransition(c.Request.Context(), id, req.Status)
	switch {
	case err == nil:
		status, _ := ParseStatus(req.Status)
		c.JSON(http.StatusOK, gin.H{"id": id, "status": status})
	case errors.Is(err, ErrInvalidTransition):
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidStatusError,
			Message:   err.Error(),
			Details:   gin.H{"allowed": Statuses()},
		})
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, httperr.ErrorResponse{
			ErrorType: httperr.HttpReportNotFoundError,
			Message:   msgReportNotFound,
			Details:   gin.H{"id": id},
		})
	default:
		c.JSON(http.StatusBadGateway, httperr.ErrorResponse{
			ErrorType: httperr.HttpStoreError,
			Message:   msgUpdateFailed,
			Details:   gin.H{"kind": storage.Classify(err)},
		})
	}
}

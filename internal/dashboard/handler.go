package dashboard

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	httperr "github.com/timely-lab/timely-admin/internal/core/errors"
	"github.com/timely-lab/timely-admin/internal/fetch"
)

// OverviewHandler handles GET /v1/overview?limit=&days=.
func (s *Service) OverviewHandler(c *gin.Context) {
	q, ok := s.bindQuery(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.Overview(c.Request.Context(), q))
}

// SeriesHandler handles GET /v1/series/:collection?limit=&days=.
func (s *Service) SeriesHandler(c *gin.Context) {
	q, ok := s.bindQuery(c)
	if !ok {
		return
	}
	res, err := s.Series(c.Request.Context(), c.Param("collection"), q)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// DistributionHandler handles GET /v1/distribution/:collection?field=&limit=.
func (s *Service) DistributionHandler(c *gin.Context) {
	limit, ok := intParam(c, "limit", s.limits)
	if !ok {
		return
	}
	res, err := s.Distribution(c.Request.Context(), c.Param("collection"), c.Query("field"), limit)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// CollectionsHandler handles GET /v1/collections.
func (s *Service) CollectionsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"collections": s.Collections()})
}

// ExploreHandler handles GET /v1/collections/:collection?limit=.
func (s *Service) ExploreHandler(c *gin.Context) {
	limit, ok := intParam(c, "limit", s.limits)
	if !ok {
		return
	}
	res, err := s.Explore(c.Request.Context(), c.Param("collection"), limit)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// SearchUsersHandler handles GET /v1/users/search?q=&limit=.
func (s *Service) SearchUsersHandler(c *gin.Context) {
	limit, ok := intParam(c, "limit", s.limits)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.SearchUsers(c.Request.Context(), c.Query("q"), limit))
}

// RefreshHandler handles POST /v1/refresh.
func (s *Service) RefreshHandler(c *gin.Context) {
	s.Refresh()
	c.JSON(http.StatusOK, gin.H{"status": "refreshed"})
}

func (s *Service) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUnknownCollection):
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpUnknownCollectionError,
			Message:   err.Error(),
			Details:   gin.H{"allowed": s.names},
		})
	case errors.Is(err, ErrInvalidQuery):
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidQueryError,
			Message:   err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   "Failed to build dashboard view",
			Details:   err.Error(),
		})
	}
}

func (s *Service) bindQuery(c *gin.Context) (Query, bool) {
	limit, ok := intParam(c, "limit", s.limits)
	if !ok {
		return Query{}, false
	}
	days, ok := intParam(c, "days", s.window)
	if !ok {
		return Query{}, false
	}
	return Query{Limit: limit, WindowDays: days}, true
}

// intParam reads an optional integer query parameter clamped to b. An omitted
// parameter yields nil. It writes a 400 and returns false when the value is not
// an integer.
func intParam(c *gin.Context, name string, b fetch.Bounds) (*int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	n, err := b.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidQueryError,
			Message:   name + " must be an integer",
			Details:   gin.H{name: raw},
		})
		return nil, false
	}
	return &n, true
}

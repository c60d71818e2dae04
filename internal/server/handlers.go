package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jungleai/curveclean-go/pkg/curveclean"
	"github.com/jungleai/curveclean-go/pkg/curveclean/export"
	"github.com/jungleai/curveclean-go/pkg/curveclean/figure"
	"github.com/jungleai/curveclean-go/pkg/curveclean/locator"
	"github.com/jungleai/curveclean-go/pkg/curveclean/models"
	"github.com/jungleai/curveclean-go/pkg/curveclean/store"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// MarkerRequest sets one or both coordinates of a marker.
type MarkerRequest struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

// EmptyFigure returns the chart object shown before the first pass.
func (s *Server) EmptyFigure(c *gin.Context) {
	c.JSON(http.StatusOK, figure.Empty(s.reconciler.Options().Geometry))
}

// Reconcile runs one reconciliation pass for a UI event.
func (s *Server) Reconcile(c *gin.Context) {
	var req curveclean.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid request body",
			Details: err.Error(),
		})
		return
	}

	res, err := s.reconciler.Reconcile(c.Request.Context(), req)
	if err != nil {
		s.log.Warn("reconciliation failed", zap.Error(err))
		s.fail(c, "reconciliation failed", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// SetMarker saves marker coordinates out of band. The next pass moves the
// marker there.
func (s *Server) SetMarker(c *gin.Context) {
	var req MarkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid request body",
			Details: err.Error(),
		})
		return
	}
	if req.X == nil && req.Y == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "x or y required"})
		return
	}

	uuid, name := c.Param("uuid"), c.Param("name")
	values := make(map[string]string, 2)
	if req.X != nil {
		values[store.MarkerKey(uuid, name, models.AxisX)] = store.FormatFloat(*req.X)
	}
	if req.Y != nil {
		values[store.MarkerKey(uuid, name, models.AxisY)] = store.FormatFloat(*req.Y)
	}
	if err := s.store.SetMany(c.Request.Context(), values); err != nil {
		s.fail(c, "failed to save marker", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": values})
}

// ResetMarker deletes saved marker coordinates so the next pass snaps the
// marker back to the axis midpoint. Without ?axis both axes are reset.
func (s *Server) ResetMarker(c *gin.Context) {
	var axes []models.Axis
	switch axis := c.Query("axis"); axis {
	case "":
		axes = []models.Axis{models.AxisX, models.AxisY}
	case string(models.AxisX), string(models.AxisY):
		axes = []models.Axis{models.Axis(axis)}
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid axis",
			Details: fmt.Sprintf("axis must be x or y, got %q", axis),
		})
		return
	}

	uuid, name := c.Param("uuid"), c.Param("name")
	keys := make([]string, len(axes))
	for i, axis := range axes {
		keys[i] = store.MarkerKey(uuid, name, axis)
	}
	if err := s.store.Delete(c.Request.Context(), keys...); err != nil {
		s.fail(c, "failed to reset marker", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": keys})
}

// Export downloads the session described by the query string as xlsx.
func (s *Server) Export(c *gin.Context) {
	session, err := locator.FromQuery(c.Request.URL.Query())
	if err != nil {
		s.fail(c, "invalid session", err)
		return
	}

	f, err := export.Workbook(c.Request.Context(), s.store, session)
	if err != nil {
		s.fail(c, "export failed", err)
		return
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.fail(c, "export failed", err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", session.UUID+".xlsx"))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

package trend

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinsight/clinsight/internal/platform/auth"
)

const maxForecastHorizon = 12

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	read := auth.RequireRole("researcher", "viewer")

	g.GET("/patients/:id/trends/:testType", h.patientTrend, read)
	g.POST("/trends/merge", h.mergeSeries, read)
	g.POST("/trends/anomalies", h.anomalies, read)
}

func (h *Handler) patientTrend(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}

	horizon := 0
	if raw := c.QueryParam("forecast"); raw != "" {
		horizon, err = strconv.Atoi(raw)
		if err != nil || horizon < 0 || horizon > maxForecastHorizon {
			return echo.NewHTTPError(http.StatusBadRequest, "forecast must be 0-12")
		}
	}

	report, err := h.svc.Report(c.Request().Context(), id, c.Param("testType"), horizon)
	if err != nil {
		if errors.Is(err, ErrMissingTestType) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, report)
}

// mergeSeriesRequest accepts both the current field names and the
// legacy ones still sent by older dashboard builds. The alias is
// resolved here once; nothing past the handler sees both names.
type mergeSeriesRequest struct {
	Observed   []ObservedPoint   `json:"observed"`
	Data       []ObservedPoint   `json:"data"`
	Predicted  []TrajectoryPoint `json:"predicted"`
	Trajectory []TrajectoryPoint `json:"trajectory"`
}

func (r *mergeSeriesRequest) resolve() ([]ObservedPoint, []TrajectoryPoint) {
	observed := r.Observed
	if observed == nil {
		observed = r.Data
	}
	predicted := r.Predicted
	if predicted == nil {
		predicted = r.Trajectory
	}
	return observed, predicted
}

func (h *Handler) mergeSeries(c echo.Context) error {
	var req mergeSeriesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	observed, predicted := req.resolve()
	points := MergeSeries(observed, predicted)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"points":   points,
		"has_data": len(points) > 0,
	})
}

type anomalyRequest struct {
	Values []float64 `json:"values"`
}

func (h *Handler) anomalies(c echo.Context) error {
	var req anomalyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	report, err := DetectAnomalies(req.Values)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, report)
}

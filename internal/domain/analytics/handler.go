package analytics

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinsight/clinsight/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	read := auth.RequireRole("researcher", "viewer")

	g.GET("/analytics/dashboard", h.dashboard, read)
	g.GET("/analytics/psa-distribution", h.psaDistribution, read)
	g.GET("/analytics/gleason-distribution", h.gleasonDistribution, read)
	g.GET("/analytics/risk-stratification", h.stratification, read)
	g.GET("/analytics/high-risk", h.highRisk, read)
	g.GET("/analytics/data-quality", h.dataQuality, read)
	g.POST("/analytics/predict-risk", h.predictRisk, read)
}

func (h *Handler) dataQuality(c echo.Context) error {
	report, err := h.svc.Quality(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}

func (h *Handler) dashboard(c echo.Context) error {
	stats, err := h.svc.Dashboard(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *Handler) psaDistribution(c echo.Context) error {
	buckets, err := h.svc.PSADistribution(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, buckets)
}

func (h *Handler) gleasonDistribution(c echo.Context) error {
	buckets, err := h.svc.GleasonDistribution(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, buckets)
}

func (h *Handler) stratification(c echo.Context) error {
	patients, err := h.svc.Stratification(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, patients)
}

func (h *Handler) highRisk(c echo.Context) error {
	patients, err := h.svc.HighRisk(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, patients)
}

func (h *Handler) predictRisk(c echo.Context) error {
	var features RiskFeatures
	if err := c.Bind(&features); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return c.JSON(http.StatusOK, PredictRisk(features))
}

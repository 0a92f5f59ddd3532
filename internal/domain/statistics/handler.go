package statistics

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinsight/clinsight/internal/platform/auth"
)

// Handler exposes the analysis endpoints. Each operates on posted
// sample data rather than stored records, so researchers can test
// arbitrary cohort slices exported from the filter UI.
type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	read := auth.RequireRole("researcher", "viewer")

	g.POST("/statistics/t-test", h.tTest, read)
	g.POST("/statistics/anova", h.anova, read)
	g.POST("/statistics/chi-square", h.chiSquare, read)
	g.POST("/statistics/correlation", h.correlation, read)
	g.POST("/statistics/regression", h.regression, read)
	g.POST("/statistics/descriptive", h.descriptive, read)
}

type tTestRequest struct {
	Group1 []float64 `json:"group1"`
	Group2 []float64 `json:"group2"`
}

func (h *Handler) tTest(c echo.Context) error {
	var req tTestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	result, err := TTest(req.Group1, req.Group2)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

type anovaRequest struct {
	Groups [][]float64 `json:"groups"`
}

func (h *Handler) anova(c echo.Context) error {
	var req anovaRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	result, err := OneWayANOVA(req.Groups)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

type chiSquareRequest struct {
	Observed [][]float64 `json:"observed"`
}

func (h *Handler) chiSquare(c echo.Context) error {
	var req chiSquareRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	result, err := ChiSquareIndependence(req.Observed)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

type pairedRequest struct {
	XData []float64 `json:"x_data"`
	YData []float64 `json:"y_data"`
}

func (h *Handler) correlation(c echo.Context) error {
	var req pairedRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	result, err := PearsonCorrelation(req.XData, req.YData)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) regression(c echo.Context) error {
	var req pairedRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	result, err := LinearRegression(req.XData, req.YData)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

type descriptiveRequest struct {
	Data []float64 `json:"data"`
}

func (h *Handler) descriptive(c echo.Context) error {
	var req descriptiveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	result, err := Describe(req.Data)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

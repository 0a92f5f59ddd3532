package insight

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinsight/clinsight/internal/platform/auth"
	"github.com/clinsight/clinsight/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	read := auth.RequireRole("researcher", "viewer")
	write := auth.RequireRole("researcher")

	g.GET("/insights", h.list, read)
	g.POST("/insights", h.create, write)
	g.GET("/insights/:id", h.get, read)
	g.PUT("/insights/:id", h.update, write)
	g.DELETE("/insights/:id", h.delete, write)
	g.POST("/insights/:id/pin", h.pin, write)
	g.DELETE("/insights/:id/pin", h.unpin, write)
	g.GET("/patients/:id/insights", h.listByPatient, read)
}

func (h *Handler) create(c echo.Context) error {
	var in Insight
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if in.Author == "" {
		in.Author = auth.UserIDFromContext(c.Request().Context())
	}
	if err := h.svc.Create(c.Request().Context(), &in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, in)
}

func (h *Handler) get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid insight id")
	}
	in, err := h.svc.Get(c.Request().Context(), id)
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "insight not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, in)
}

func (h *Handler) list(c echo.Context) error {
	page := pagination.FromContext(c)
	insights, total, err := h.svc.List(c.Request().Context(), c.QueryParam("category"), page.Limit, page.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(insights, total, page.Limit, page.Offset))
}

func (h *Handler) listByPatient(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	insights, err := h.svc.ListByPatient(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, insights)
}

func (h *Handler) update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid insight id")
	}
	var in Insight
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	in.ID = id
	if err := h.svc.Update(c.Request().Context(), &in); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "insight not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, in)
}

func (h *Handler) delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid insight id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "insight not found")
		}
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) pin(c echo.Context) error {
	return h.setPinned(c, true)
}

func (h *Handler) unpin(c echo.Context) error {
	return h.setPinned(c, false)
}

func (h *Handler) setPinned(c echo.Context, pinned bool) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid insight id")
	}
	var opErr error
	if pinned {
		opErr = h.svc.Pin(c.Request().Context(), id)
	} else {
		opErr = h.svc.Unpin(c.Request().Context(), id)
	}
	if errors.Is(opErr, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "insight not found")
	}
	if opErr != nil {
		return opErr
	}
	return c.NoContent(http.StatusNoContent)
}

package clinical

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
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
	write := auth.RequireRole("researcher")

	g.GET("/patients/:id/procedures", h.listProcedures, read)
	g.POST("/procedures", h.createProcedure, write)
	g.GET("/procedures/:id", h.getProcedure, read)
	g.PUT("/procedures/:id", h.updateProcedure, write)
	g.DELETE("/procedures/:id", h.deleteProcedure, write)

	g.GET("/patients/:id/lab-results", h.listLabResults, read)
	g.POST("/lab-results", h.createLabResult, write)
	g.GET("/lab-results/:id", h.getLabResult, read)
	g.PUT("/lab-results/:id", h.updateLabResult, write)
	g.DELETE("/lab-results/:id", h.deleteLabResult, write)

	g.GET("/patients/:id/follow-ups", h.listFollowUps, read)
	g.POST("/follow-ups", h.createFollowUp, write)
	g.GET("/follow-ups/:id", h.getFollowUp, read)
	g.PUT("/follow-ups/:id", h.updateFollowUp, write)
	g.DELETE("/follow-ups/:id", h.deleteFollowUp, write)
}

func pathID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

func (h *Handler) createProcedure(c echo.Context) error {
	var p Procedure
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.svc.CreateProcedure(c.Request().Context(), &p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) getProcedure(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	p, err := h.svc.GetProcedure(c.Request().Context(), id)
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "procedure not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) updateProcedure(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var p Procedure
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	p.ID = id
	if err := h.svc.UpdateProcedure(c.Request().Context(), &p); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "procedure not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) deleteProcedure(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteProcedure(c.Request().Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "procedure not found")
		}
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) listProcedures(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	procs, err := h.svc.ProceduresForPatient(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, procs)
}

func (h *Handler) createLabResult(c echo.Context) error {
	var l LabResult
	if err := c.Bind(&l); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.svc.CreateLabResult(c.Request().Context(), &l); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, l)
}

func (h *Handler) getLabResult(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	l, err := h.svc.GetLabResult(c.Request().Context(), id)
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "lab result not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, l)
}

func (h *Handler) updateLabResult(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var l LabResult
	if err := c.Bind(&l); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	l.ID = id
	if err := h.svc.UpdateLabResult(c.Request().Context(), &l); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "lab result not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, l)
}

func (h *Handler) deleteLabResult(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteLabResult(c.Request().Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "lab result not found")
		}
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) listLabResults(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if testType := c.QueryParam("test_type"); testType != "" {
		labs, err := h.svc.LabSeries(c.Request().Context(), id, testType)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return c.JSON(http.StatusOK, labs)
	}
	labs, err := h.svc.LabResultsForPatient(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, labs)
}

func (h *Handler) createFollowUp(c echo.Context) error {
	var f FollowUp
	if err := c.Bind(&f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.svc.CreateFollowUp(c.Request().Context(), &f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, f)
}

func (h *Handler) getFollowUp(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	f, err := h.svc.GetFollowUp(c.Request().Context(), id)
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "follow-up not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, f)
}

func (h *Handler) updateFollowUp(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var f FollowUp
	if err := c.Bind(&f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	f.ID = id
	if err := h.svc.UpdateFollowUp(c.Request().Context(), &f); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "follow-up not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, f)
}

func (h *Handler) deleteFollowUp(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteFollowUp(c.Request().Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "follow-up not found")
		}
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) listFollowUps(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	followUps, err := h.svc.FollowUpsForPatient(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, followUps)
}

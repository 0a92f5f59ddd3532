package patient

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

	g.GET("/patients", h.list, read)
	g.POST("/patients", h.create, write)
	g.POST("/patients/search", h.search, read)
	g.GET("/patients/:id", h.get, read)
	g.PUT("/patients/:id", h.update, write)
	g.DELETE("/patients/:id", h.delete, write)

	g.GET("/tags", h.listTags, read)
	g.POST("/tags", h.createTag, write)
	g.POST("/patients/:id/tags/:tagId", h.assignTag, write)
	g.DELETE("/patients/:id/tags/:tagId", h.unassignTag, write)
}

func (h *Handler) create(c echo.Context) error {
	var p Patient
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.svc.Register(c.Request().Context(), &p); err != nil {
		if errors.Is(err, ErrDuplicateMRN) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	p, err := h.svc.Get(c.Request().Context(), id)
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) list(c echo.Context) error {
	page := pagination.FromContext(c)
	patients, total, err := h.svc.List(c.Request().Context(), page.Limit, page.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(patients, total, page.Limit, page.Offset))
}

func (h *Handler) search(c echo.Context) error {
	var f Filter
	if err := c.Bind(&f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid filter")
	}
	page := pagination.FromContext(c)
	patients, total, err := h.svc.Search(c.Request().Context(), f, page.Limit, page.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(patients, total, page.Limit, page.Offset))
}

func (h *Handler) update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	var p Patient
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	p.ID = id
	if err := h.svc.Update(c.Request().Context(), &p); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		}
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) createTag(c echo.Context) error {
	var t Tag
	if err := c.Bind(&t); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.svc.CreateTag(c.Request().Context(), &t); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *Handler) listTags(c echo.Context) error {
	tags, err := h.svc.ListTags(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tags)
}

func (h *Handler) assignTag(c echo.Context) error {
	patientID, tagID, err := tagParams(c)
	if err != nil {
		return err
	}
	if err := h.svc.AssignTag(c.Request().Context(), patientID, tagID); err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrTagNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) unassignTag(c echo.Context) error {
	patientID, tagID, err := tagParams(c)
	if err != nil {
		return err
	}
	if err := h.svc.UnassignTag(c.Request().Context(), patientID, tagID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func tagParams(c echo.Context) (uuid.UUID, uuid.UUID, error) {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	tagID, err := uuid.Parse(c.Param("tagId"))
	if err != nil {
		return uuid.Nil, uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid tag id")
	}
	return patientID, tagID, nil
}

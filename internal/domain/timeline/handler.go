package timeline

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinsight/clinsight/internal/domain/clinical"
	"github.com/clinsight/clinsight/internal/platform/auth"
)

type Handler struct {
	clinical *clinical.Service
}

func NewHandler(clinicalSvc *clinical.Service) *Handler {
	return &Handler{clinical: clinicalSvc}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	read := auth.RequireRole("researcher", "viewer")

	g.GET("/patients/:id/timeline", h.patientTimeline, read)
	g.POST("/timeline/merge", h.mergeRaw, read)
}

// patientTimeline builds the merged event history from stored records.
func (h *Handler) patientTimeline(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	ctx := c.Request().Context()

	procs, err := h.clinical.ProceduresForPatient(ctx, id)
	if err != nil {
		return err
	}
	labs, err := h.clinical.LabResultsForPatient(ctx, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, Merge(toProcedureRecords(procs), toLabRecords(labs)))
}

type mergeRequest struct {
	Procedures []ProcedureRecord `json:"procedures"`
	LabResults []LabRecord       `json:"lab_results"`
}

// mergeRaw merges caller-supplied record arrays without touching
// storage. Malformed dates in the payload degrade to undated entries
// instead of failing the request.
func (h *Handler) mergeRaw(c echo.Context) error {
	var req mergeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return c.JSON(http.StatusOK, Merge(req.Procedures, req.LabResults))
}

func toProcedureRecords(procs []clinical.Procedure) []ProcedureRecord {
	out := make([]ProcedureRecord, 0, len(procs))
	for _, p := range procs {
		out = append(out, ProcedureRecord{
			Date:     p.ProcedureDate.Format(time.RFC3339),
			Type:     p.ProcedureType,
			Provider: deref(p.Provider),
			Facility: deref(p.Facility),
			Notes:    deref(p.Notes),
		})
	}
	return out
}

func toLabRecords(labs []clinical.LabResult) []LabRecord {
	out := make([]LabRecord, 0, len(labs))
	for _, l := range labs {
		out = append(out, LabRecord{
			Date:           l.TestDate.Format(time.RFC3339),
			Type:           l.TestType,
			Value:          l.TestValue,
			Unit:           deref(l.TestUnit),
			ReferenceRange: deref(l.ReferenceRange),
			Notes:          deref(l.Notes),
		})
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

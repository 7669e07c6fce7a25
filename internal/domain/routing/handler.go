package routing

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ems/ems/internal/domain/hospital"
	"github.com/ems/ems/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	readGroup := api.Group("", auth.RequireRole("admin", "dispatcher", "physician", "nurse"))
	readGroup.POST("/routing/optimal", h.Optimal)

	writeGroup := api.Group("", auth.RequireRole("admin", "dispatcher"))
	writeGroup.POST("/routing/dispatch", h.Dispatch)

	adminGroup := api.Group("", auth.RequireRole("admin"))
	adminGroup.GET("/routing/overlay", h.OverlaySnapshot)
}

type optimalRequest struct {
	PatientRequest
	// Hospitals, when present, replaces the configured dataset for this
	// call only.
	Hospitals []*hospital.Hospital `json:"hospitals,omitempty"`
}

func (h *Handler) Optimal(c echo.Context) error {
	var req optimalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var (
		result *RoutingResult
		err    error
	)
	if req.Hospitals != nil {
		result, err = h.svc.OptimalFor(c.Request().Context(), &req.PatientRequest, req.Hospitals)
	} else {
		result, err = h.svc.Optimal(c.Request().Context(), &req.PatientRequest)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if result == nil {
		return echo.NewHTTPError(http.StatusNotFound, "no eligible hospital")
	}
	return c.JSON(http.StatusOK, result)
}

type dispatchRequest struct {
	HospitalID string `json:"hospital_id"`
	PatientRequest
}

func (h *Handler) Dispatch(c echo.Context) error {
	var req dispatchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.HospitalID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "hospital_id is required")
	}
	h.svc.SendPatient(req.HospitalID, &req.PatientRequest)
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) OverlaySnapshot(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.Overlay().Snapshot())
}

package booking

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/petnav/petnav/internal/platform/auth"
	"github.com/petnav/petnav/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/clinics/:id/slots", h.GetSlots)
	api.GET("/clinics/:id/book/preview", h.PreviewBooking)

	ownerGroup := api.Group("", auth.RequireRole("owner"))
	ownerGroup.POST("/clinics/:id/book/confirm", h.ConfirmBooking)
	ownerGroup.GET("/appointments", h.ListMine)
	ownerGroup.POST("/appointments/:id/cancel", h.CancelAppointment)
	ownerGroup.POST("/appointments/:id/restore", h.RestoreAppointment)

	adminGroup := api.Group("", auth.RequireRole("clinic_admin"))
	adminGroup.GET("/clinics/:id/calendar", h.Calendar)
}

func callerID(c echo.Context) (uuid.UUID, error) {
	uid := auth.UserIDFromContext(c.Request().Context())
	id, err := uuid.Parse(uid)
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "unknown caller")
	}
	return id, nil
}

func mapServiceError(err error) error {
	switch {
	case errors.Is(err, ErrSlotTaken):
		return echo.NewHTTPError(http.StatusConflict, ErrSlotTaken.Error())
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

// queryDate reads ?date=YYYY-MM-DD, quietly falling back to today in the
// clinic's timezone when absent or malformed.
func (h *Handler) queryDate(c echo.Context) time.Time {
	if d, err := time.ParseInLocation("2006-01-02", c.QueryParam("date"), h.svc.Location()); err == nil {
		return d
	}
	return time.Now().In(h.svc.Location())
}

func (h *Handler) GetSlots(c echo.Context) error {
	clinicID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	slots, err := h.svc.ComputeAvailability(c.Request().Context(), clinicID, h.queryDate(c))
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, slots)
}

func (h *Handler) PreviewBooking(c echo.Context) error {
	// anonymous browsing is allowed; a known caller gets their pet list
	owner := uuid.Nil
	if uid, err := uuid.Parse(auth.UserIDFromContext(c.Request().Context())); err == nil {
		owner = uid
	}
	preview, err := h.svc.PreviewBooking(c.Request().Context(), owner,
		c.QueryParam("vet_id"), c.QueryParam("start"), c.QueryParam("end"))
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, preview)
}

type confirmBody struct {
	VetID string `json:"vet_id"`
	PetID string `json:"pet_id"`
	Start string `json:"start"`
	End   string `json:"end"`
}

func (h *Handler) ConfirmBooking(c echo.Context) error {
	owner, err := callerID(c)
	if err != nil {
		return err
	}
	clinicID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var body confirmBody
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	vetID, err := uuid.Parse(body.VetID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid vet_id")
	}
	petID, err := uuid.Parse(body.PetID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid pet_id")
	}
	start, err := time.Parse(time.RFC3339, body.Start)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "start must be RFC3339")
	}
	end, err := time.Parse(time.RFC3339, body.End)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "end must be RFC3339")
	}

	appt, err := h.svc.Confirm(c.Request().Context(), owner, clinicID, ConfirmRequest{
		VetID: vetID, PetID: petID, Start: start, End: end,
	})
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusCreated, appt)
}

func (h *Handler) ListMine(c echo.Context) error {
	owner, err := callerID(c)
	if err != nil {
		return err
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListMine(c.Request().Context(), owner, pg.Limit, pg.Offset)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) CancelAppointment(c echo.Context) error {
	owner, err := callerID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	appt, err := h.svc.Cancel(c.Request().Context(), owner, id)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, appt)
}

func (h *Handler) RestoreAppointment(c echo.Context) error {
	owner, err := callerID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	appt, err := h.svc.Restore(c.Request().Context(), owner, id)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, appt)
}

func (h *Handler) Calendar(c echo.Context) error {
	admin, err := callerID(c)
	if err != nil {
		return err
	}
	clinicID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	items, err := h.svc.Calendar(c.Request().Context(), admin, clinicID, h.queryDate(c))
	if err != nil {
		return mapServiceError(err)
	}
	if items == nil {
		items = []*Appointment{}
	}
	return c.JSON(http.StatusOK, items)
}

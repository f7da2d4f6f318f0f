package clinic

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
	api.GET("/clinics", h.ListClinics)
	api.GET("/clinics/:id", h.GetClinic)
	api.GET("/clinics/:id/vets", h.ListVets)
	api.GET("/clinics/:id/hours", h.ListClinicRules)
	api.GET("/clinics/:id/exceptions", h.ListClinicExceptions)
	api.GET("/vets/:id/hours", h.ListVetRules)
	api.GET("/vets/:id/exceptions", h.ListVetExceptions)

	adminGroup := api.Group("", auth.RequireRole("clinic_admin"))
	adminGroup.POST("/clinics", h.CreateClinic)
	adminGroup.PUT("/clinics/:id", h.UpdateClinic)
	adminGroup.DELETE("/clinics/:id", h.DeleteClinic)
	adminGroup.POST("/clinics/:id/vets", h.AddVet)
	adminGroup.DELETE("/vets/:id", h.RemoveVet)
	adminGroup.PUT("/clinics/:id/hours", h.SetClinicRule)
	adminGroup.DELETE("/clinics/:id/hours/:rule_id", h.DeleteClinicRule)
	adminGroup.PUT("/vets/:id/hours", h.SetVetRule)
	adminGroup.DELETE("/vets/:id/hours/:rule_id", h.DeleteVetRule)
	adminGroup.PUT("/clinics/:id/exceptions/:date", h.SetClinicException)
	adminGroup.DELETE("/clinics/:id/exceptions/:date", h.DeleteClinicException)
	adminGroup.PUT("/vets/:id/exceptions/:date", h.SetVetException)
	adminGroup.DELETE("/vets/:id/exceptions/:date", h.DeleteVetException)
}

func callerID(c echo.Context) (uuid.UUID, error) {
	uid := auth.UserIDFromContext(c.Request().Context())
	id, err := uuid.Parse(uid)
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "unknown caller")
	}
	return id, nil
}

func pathID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

func mapServiceError(err error) error {
	if errors.Is(err, ErrNotAdmin) {
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	}
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return echo.NewHTTPError(http.StatusBadRequest, err.Error())
}

// -- Clinic --

func (h *Handler) ListClinics(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListClinics(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) GetClinic(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	cl, err := h.svc.GetClinic(c.Request().Context(), id)
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "clinic not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, cl)
}

func (h *Handler) CreateClinic(c echo.Context) error {
	admin, err := callerID(c)
	if err != nil {
		return err
	}
	var cl Clinic
	if err := c.Bind(&cl); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateClinic(c.Request().Context(), admin, &cl); err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusCreated, cl)
}

func (h *Handler) UpdateClinic(c echo.Context) error {
	admin, err := callerID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var cl Clinic
	if err := c.Bind(&cl); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	cl.ID = id
	if err := h.svc.UpdateClinic(c.Request().Context(), admin, &cl); err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, cl)
}

func (h *Handler) DeleteClinic(c echo.Context) error {
	admin, err := callerID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteClinic(c.Request().Context(), admin, id); err != nil {
		return mapServiceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Vets --

func (h *Handler) ListVets(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	items, err := h.svc.ListVets(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if items == nil {
		items = []*Vet{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) AddVet(c echo.Context) error {
	admin, err := callerID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var v Vet
	if err := c.Bind(&v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	v.ClinicID = id
	if err := h.svc.AddVet(c.Request().Context(), admin, &v); err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusCreated, v)
}

func (h *Handler) RemoveVet(c echo.Context) error {
	admin, err := callerID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.RemoveVet(c.Request().Context(), admin, id); err != nil {
		return mapServiceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Hours --

func (h *Handler) ListClinicRules(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	items, err := h.svc.ListClinicRules(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if items == nil {
		items = []*HourRule{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) SetClinicRule(c echo.Context) error {
	admin, err := callerID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var r HourRule
	if err := c.Bind(&r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.SetClinicRule(c.Request().Context(), admin, id, &r); err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) DeleteClinicRule(c echo.Context) error {
	admin, err := callerID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ruleID, err := pathID(c, "rule_id")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteClinicRule(c.Request().Context(), admin, id, ruleID); err != nil {
		return mapServiceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListVetRules(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	items, err := h.svc.ListVetRules(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if items == nil {
		items = []*HourRule{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) SetVetRule(c echo.Context) error {
	admin, err := callerID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var r HourRule
	if err := c.Bind(&r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.SetVetRule(c.Request().Context(), admin, id, &r); err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) DeleteVetRule(c echo.Context) error {
	admin, err := callerID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ruleID, err := pathID(c, "rule_id")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteVetRule(c.Request().Context(), admin, id, ruleID); err != nil {
		return mapServiceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Exceptions --

func pathDate(c echo.Context) (time.Time, error) {
	d, err := time.Parse("2006-01-02", c.Param("date"))
	if err != nil {
		return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "invalid date, want YYYY-MM-DD")
	}
	return d, nil
}

func (h *Handler) ListClinicExceptions(c echo.Context) error {
	return h.listExceptions(c, EntityClinic)
}

func (h *Handler) ListVetExceptions(c echo.Context) error {
	return h.listExceptions(c, EntityVet)
}

func (h *Handler) listExceptions(c echo.Context, entityType string) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	items, err := h.svc.ListExceptions(c.Request().Context(), entityType, id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if items == nil {
		items = []*Exception{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) SetClinicException(c echo.Context) error {
	return h.setException(c, EntityClinic)
}

func (h *Handler) SetVetException(c echo.Context) error {
	return h.setException(c, EntityVet)
}

func (h *Handler) setException(c echo.Context, entityType string) error {
	admin, err := callerID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	date, err := pathDate(c)
	if err != nil {
		return err
	}
	var e Exception
	if err := c.Bind(&e); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	e.EntityType = entityType
	e.EntityID = id
	e.Date = date
	if err := h.svc.SetException(c.Request().Context(), admin, &e); err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, e)
}

func (h *Handler) DeleteClinicException(c echo.Context) error {
	return h.deleteException(c, EntityClinic)
}

func (h *Handler) DeleteVetException(c echo.Context) error {
	return h.deleteException(c, EntityVet)
}

func (h *Handler) deleteException(c echo.Context, entityType string) error {
	admin, err := callerID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	date, err := pathDate(c)
	if err != nil {
		return err
	}
	e := Exception{EntityType: entityType, EntityID: id, Date: date}
	if err := h.svc.DeleteException(c.Request().Context(), admin, &e); err != nil {
		return mapServiceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

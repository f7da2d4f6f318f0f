package pet

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/petnav/petnav/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireRole("owner"))
	g.GET("/pets", h.ListPets)
	g.POST("/pets", h.CreatePet)
	g.PUT("/pets/:id", h.UpdatePet)
	g.DELETE("/pets/:id", h.DeletePet)
}

func callerID(c echo.Context) (uuid.UUID, error) {
	uid := auth.UserIDFromContext(c.Request().Context())
	id, err := uuid.Parse(uid)
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "unknown caller")
	}
	return id, nil
}

func (h *Handler) ListPets(c echo.Context) error {
	owner, err := callerID(c)
	if err != nil {
		return err
	}
	items, err := h.svc.ListPets(c.Request().Context(), owner)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if items == nil {
		items = []*Pet{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) CreatePet(c echo.Context) error {
	owner, err := callerID(c)
	if err != nil {
		return err
	}
	var p Pet
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreatePet(c.Request().Context(), owner, &p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) UpdatePet(c echo.Context) error {
	owner, err := callerID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var p Pet
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p.ID = id
	if err := h.svc.UpdatePet(c.Request().Context(), owner, &p); err != nil {
		return mapPetError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) DeletePet(c echo.Context) error {
	owner, err := callerID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeletePet(c.Request().Context(), owner, id); err != nil {
		return mapPetError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func mapPetError(err error) error {
	switch {
	case errors.Is(err, ErrNotOwner):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

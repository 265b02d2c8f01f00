package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ppsammartino/usgs-earthquake-monitor/internal/core/domain"
	"github.com/ppsammartino/usgs-earthquake-monitor/internal/core/ports"
)

// CityHandler handles HTTP requests for city management.
type CityHandler struct {
	service ports.CityService
}

func NewCityHandler(service ports.CityService) *CityHandler {
	return &CityHandler{service: service}
}

type createCityRequest struct {
	Name      string  `json:"name"      validate:"required"`
	Latitude  float64 `json:"latitude"  validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
}

type cityResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	CreatedAt string  `json:"created_at"`
}

func toCityResponse(c *domain.City) cityResponse {
	return cityResponse{
		ID:        c.ID,
		Name:      c.Name,
		Latitude:  c.Coordinates.Lat,
		Longitude: c.Coordinates.Lng,
		CreatedAt: c.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// Create handles POST /v1/cities.
//
// @Summary      Register a new city
// @Tags         cities
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createCityRequest  true  "City name and coordinates"
// @Success      201   {object}  cityResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /v1/cities [post]
func (h *CityHandler) Create(c echo.Context) error {
	var req createCityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	city, err := h.service.CreateCity(c.Request().Context(), ports.CreateCityInput{
		Name:      req.Name,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	})
	if err != nil {
		if errors.Is(err, domain.ErrCityExists) {
			return echo.NewHTTPError(http.StatusConflict, "city already exists")
		}
		return err
	}

	return c.JSON(http.StatusCreated, toCityResponse(city))
}

// List handles GET /v1/cities.
//
// @Summary      List all registered cities
// @Tags         cities
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   cityResponse
// @Failure      500  {object}  map[string]string
// @Router       /v1/cities [get]
func (h *CityHandler) List(c echo.Context) error {
	cities, err := h.service.ListCities(c.Request().Context())
	if err != nil {
		return err
	}

	resp := make([]cityResponse, 0, len(cities))
	for _, city := range cities {
		resp = append(resp, toCityResponse(city))
	}
	return c.JSON(http.StatusOK, resp)
}

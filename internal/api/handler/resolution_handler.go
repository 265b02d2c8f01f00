package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ppsammartino/usgs-earthquake-monitor/internal/core/domain"
	"github.com/ppsammartino/usgs-earthquake-monitor/internal/core/ports"
)

// historyWarning is attached to an otherwise-successful resolution response
// when the history append failed: the resolution itself still succeeded.
const historyWarning = "resolution succeeded but could not be recorded in history"

// ResolutionHandler handles nearest-earthquake resolution requests and the
// resolution history listing.
type ResolutionHandler struct {
	resolver ports.ResolutionService
	history  ports.HistoryService
	logger   zerolog.Logger
}

func NewResolutionHandler(resolver ports.ResolutionService, history ports.HistoryService, logger zerolog.Logger) *ResolutionHandler {
	return &ResolutionHandler{resolver: resolver, history: history, logger: logger}
}

// Resolve handles POST /v1/resolutions.
//
// @Summary      Resolve the nearest earthquake for a city and date range
// @Tags         resolutions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      resolveRequest  true  "City, date range, and optional magnitude threshold (default 5.0)"
// @Success      200   {object}  resolveResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /v1/resolutions [post]
func (h *ResolutionHandler) Resolve(c echo.Context) error {
	var req resolveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid start_date, expected YYYY-MM-DD")
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid end_date, expected YYYY-MM-DD")
	}

	input := ports.ResolveInput{
		CityID:    req.CityID,
		StartDate: start,
		EndDate:   end,
	}
	if req.MinMagnitude != nil {
		input.MinMagnitude = *req.MinMagnitude
		input.ThresholdSet = true
	}

	result, err := h.resolver.Resolve(c.Request().Context(), input)
	if err != nil {
		return err
	}

	resp := resolveResponse{
		VerboseMsg: result.VerboseMsg,
		Cached:     result.CacheHit,
	}
	if result.Nearest != nil {
		mag := result.Nearest.Magnitude
		ts := result.Nearest.Time
		dist := result.DistanceKm
		resp.Location = result.Nearest.Place
		resp.Magnitude = &mag
		resp.Time = &ts
		resp.DistanceKm = &dist
	}

	// Every resolution is recorded, cache hits included. A failed append is
	// a warning, not a failure: the caller still has their answer.
	if _, recErr := h.history.Record(c.Request().Context(), result); recErr != nil {
		h.logger.Warn().Err(recErr).Str("city", result.CityName).Msg("failed to record resolution history")
		resp.Warning = historyWarning
	}

	return c.JSON(http.StatusOK, resp)
}

// History handles GET /v1/resolutions/history.
//
// @Summary      List past resolutions, most recent first
// @Tags         resolutions
// @Produce      json
// @Security     BearerAuth
// @Param        page       query     int  false  "Page number (1-based)"
// @Param        page_size  query     int  false  "Results per page (max 100)"
// @Success      200        {object}  historyListResponse
// @Failure      500        {object}  map[string]string
// @Router       /v1/resolutions/history [get]
func (h *ResolutionHandler) History(c echo.Context) error {
	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "page_size", 10)

	result, err := h.history.List(c.Request().Context(), page, pageSize)
	if err != nil {
		return err
	}

	items := make([]historyItemResponse, 0, len(result.Records))
	for _, rec := range result.Records {
		items = append(items, historyItemResponse{
			CityName:   rec.CityName,
			Location:   rec.Location,
			Magnitude:  rec.Magnitude,
			Time:       rec.Time,
			DistanceKm: rec.DistanceKm,
			VerboseMsg: rec.VerboseMsg,
			CreatedAt:  rec.CreatedAt,
		})
	}

	resp := historyListResponse{
		Count:       result.Total,
		TotalPages:  result.TotalPages,
		HasNext:     result.HasNext,
		HasPrevious: result.HasPrevious,
		Results:     items,
	}
	if result.HasNext {
		resp.Next = pageLink(c.Path(), result.Page+1, result.PageSize)
	}
	if result.HasPrevious {
		resp.Previous = pageLink(c.Path(), result.Page-1, result.PageSize)
	}

	return c.JSON(http.StatusOK, resp)
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(domain.DateFormat, s)
}

func queryInt(c echo.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func pageLink(path string, page, pageSize int) *string {
	link := fmt.Sprintf("%s?page=%d&page_size=%d", path, page, pageSize)
	return &link
}

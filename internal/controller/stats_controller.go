package controller

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"logintel-backend/internal/dto"
	"logintel-backend/internal/model"
	"logintel-backend/internal/service"
	"logintel-backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type StatsController struct {
	usageQueryService service.UsageQueryService
}

func NewStatsController(usageQueryService service.UsageQueryService) *StatsController {
	return &StatsController{
		usageQueryService: usageQueryService,
	}
}

func RegisterStatsRoutes(router *gin.Engine, controller *StatsController) {
	v1 := router.Group("/api/v1/stats")
	{
		v1.GET("/summary", controller.GetSummary)
		v1.GET("/timeseries", controller.GetTimeseries)
	}
}

// GetSummary godoc
// @Summary      Get usage summary
// @Description  Retrieves total, ok and error counts of translate calls within a time range, optionally filtered by query type.
// @Tags         stats
// @Produce      json
// @Param        startTime  query     string  true   "Start time (ISO 8601 or epoch ms)"
// @Param        endTime    query     string  true   "End time (ISO 8601 or epoch ms)"
// @Param        queryType  query     string  false  "Filter to one query type (count, greeting, help, unsupported, unknown)"
// @Success      200        {object}  dto.UsageSummaryResponse "Successfully retrieved usage summary"
// @Failure      400        {object}  model.Response "Invalid query parameters"
// @Failure      500        {object}  model.Response "Internal server error"
// @Router       /api/v1/stats/summary [get]
func (c *StatsController) GetSummary(ctx *gin.Context) {
	startTime, endTime, err := parseStatsWindow(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, model.NewResponse(err.Error(), nil))
		return
	}

	req := dto.UsageSummaryRequest{
		StartTime: startTime,
		EndTime:   endTime,
		QueryType: ctx.Query("queryType"),
	}

	result, err := c.usageQueryService.GetSummary(ctx.Request.Context(), req)
	if err != nil {
		log.Error().Err(err).Msg("Error getting usage summary")
		ctx.JSON(http.StatusInternalServerError, model.NewResponse("Failed to get usage summary", nil))
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// GetTimeseries godoc
// @Summary      Get usage timeseries
// @Description  Retrieves translate call counts bucketed over an interval, optionally grouped by query type, status or index pattern.
// @Tags         stats
// @Produce      json
// @Param        startTime  query     string  true   "Start time (ISO 8601 or epoch ms)"
// @Param        endTime    query     string  true   "End time (ISO 8601 or epoch ms)"
// @Param        interval   query     string  false  "Bucket interval (default: '1 hour')" Enums(1 minute, 5 minute, 10 minute, 30 minute, 1 hour, 1 day)
// @Param        groupBy    query     string  false  "Dimension to group by (default: total)" Enums(query_type, status, index_pattern, total)
// @Param        queryType  query     string  false  "Filter to one query type"
// @Success      200        {object}  dto.UsageTimeseriesResponse "Successfully retrieved usage timeseries"
// @Failure      400        {object}  model.Response "Invalid query parameters"
// @Failure      500        {object}  model.Response "Internal server error"
// @Router       /api/v1/stats/timeseries [get]
func (c *StatsController) GetTimeseries(ctx *gin.Context) {
	startTime, endTime, err := parseStatsWindow(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, model.NewResponse(err.Error(), nil))
		return
	}

	req := dto.UsageTimeseriesRequest{
		StartTime: startTime,
		EndTime:   endTime,
		Interval:  ctx.DefaultQuery("interval", "1 hour"),
		GroupBy:   ctx.DefaultQuery("groupBy", "total"),
		QueryType: ctx.Query("queryType"),
	}

	result, err := c.usageQueryService.GetTimeseries(ctx.Request.Context(), req)
	if err != nil {
		log.Error().Err(err).Msg("Error getting usage timeseries")
		if strings.Contains(err.Error(), "invalid") {
			ctx.JSON(http.StatusBadRequest, model.NewResponse(err.Error(), nil))
		} else {
			ctx.JSON(http.StatusInternalServerError, model.NewResponse("Failed to get usage timeseries", nil))
		}
		return
	}
	ctx.JSON(http.StatusOK, result)
}

func parseStatsWindow(ctx *gin.Context) (time.Time, time.Time, error) {
	startTimeStr := ctx.Query("startTime")
	endTimeStr := ctx.Query("endTime")

	if startTimeStr == "" || endTimeStr == "" {
		return time.Time{}, time.Time{}, errors.New("startTime and endTime are required query parameters")
	}

	startTime, errStart := util.ParseTimeFlexible(startTimeStr)
	endTime, errEnd := util.ParseTimeFlexible(endTimeStr)
	if errStart != nil || errEnd != nil {
		return time.Time{}, time.Time{}, errors.New("invalid startTime or endTime format. Use ISO 8601 or epoch milliseconds")
	}
	if endTime.Before(startTime) {
		return time.Time{}, time.Time{}, errors.New("endTime cannot be before startTime")
	}
	return startTime, endTime, nil
}

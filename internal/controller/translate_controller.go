package controller

import (
	"net/http"
	"strconv"

	"logintel-backend/internal/dto"
	"logintel-backend/internal/model"
	"logintel-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type TranslateController struct {
	translationService service.TranslationService
}

func NewTranslateController(translationService service.TranslationService) *TranslateController {
	return &TranslateController{
		translationService: translationService,
	}
}

func RegisterTranslateRoutes(router *gin.Engine, controller *TranslateController) {
	v1 := router.Group("/api/v1")
	{
		v1.POST("/translate", controller.HandleTranslate)
		v1.GET("/translations/recent", controller.ListRecentTranslations)
	}
}

// HandleTranslate godoc
// @Summary      Translate a natural language question into a log query
// @Description  Takes a plain-English question about the banking logs and an optional conversation ID for follow-ups. Interprets the question, builds and runs a bounded count query against Elasticsearch, and returns a text answer with the generated query document and Kibana deep links. Domain failures (unknown field, unrecognized time range, search errors) come back with resultType "error" and HTTP 200, chat style.
// @Tags         translate
// @Accept       json
// @Produce      json
// @Param        request body dto.TranslateRequest true "Question, optional conversation ID, optional result-size hint"
// @Success      200 {object} dto.TranslateResponse "Question processed. Contains the answer or an error message."
// @Failure      400 {object} model.Response "Invalid request body"
// @Failure      500 {object} model.Response "Internal server error"
// @Router       /api/v1/translate [post]
func (c *TranslateController) HandleTranslate(ctx *gin.Context) {
	var req dto.TranslateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Invalid translate request body")
		ctx.JSON(http.StatusBadRequest, model.NewResponse("Invalid request body: "+err.Error(), nil))
		return
	}

	resp, err := c.translationService.Translate(ctx.Request.Context(), req)
	if err != nil {
		log.Error().Err(err).Str("question", req.Question).Msg("Internal error processing translate request")
		ctx.JSON(http.StatusInternalServerError, model.NewResponse("Internal server error", nil))
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// ListRecentTranslations godoc
// @Summary      List recent translations
// @Description  Returns the latest translation audit records, newest first: question, interpreted query type, index pattern, generated query, answer and outcome.
// @Tags         translate
// @Produce      json
// @Param        limit query int false "Maximum records to return (default 20, max 200)"
// @Success      200 {array} model.TranslationRecord "Recent translation records"
// @Failure      400 {object} model.Response "Invalid limit parameter"
// @Failure      500 {object} model.Response "Internal server error"
// @Router       /api/v1/translations/recent [get]
func (c *TranslateController) ListRecentTranslations(ctx *gin.Context) {
	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		ctx.JSON(http.StatusBadRequest, model.NewResponse("limit must be a positive integer", nil))
		return
	}
	if limit > 200 {
		limit = 200
	}

	records, err := c.translationService.RecentTranslations(ctx.Request.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list recent translations")
		ctx.JSON(http.StatusInternalServerError, model.NewResponse("Failed to list recent translations", nil))
		return
	}
	ctx.JSON(http.StatusOK, records)
}

package controller

import (
	"net/http"

	"logintel-backend/config"

	"github.com/gin-gonic/gin"
)

type HealthController struct {
	cfg *config.Config
}

func NewHealthController(cfg *config.Config) *HealthController {
	return &HealthController{
		cfg: cfg,
	}
}

func RegisterHealthRoutes(router *gin.Engine, controller *HealthController) {
	router.GET("/health", controller.GetHealth)
	router.GET("/", controller.GetRoot)
}

// GetHealth godoc
// @Summary      Health check
// @Description  Liveness probe. Returns ok when the process is serving.
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /health [get]
func (c *HealthController) GetHealth(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetRoot godoc
// @Summary      Service description
// @Description  Returns the service name and the effective query bounds: Elasticsearch addresses, Kibana base URL, allowed index patterns and the maximum result size.
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]interface{}
// @Router       / [get]
func (c *HealthController) GetRoot(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"service":                "logintel-backend",
		"elasticsearch":          c.cfg.Elasticsearch.Addresses,
		"kibana_base_url":        c.cfg.Kibana.BaseURL,
		"allowed_index_patterns": c.cfg.Query.AllowedIndexPatterns,
		"max_result_size":        c.cfg.Query.MaxResultSize,
	})
}

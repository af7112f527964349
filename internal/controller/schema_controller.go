package controller

import (
	"net/http"

	"logintel-backend/internal/dto"
	"logintel-backend/internal/schema"

	"github.com/gin-gonic/gin"
)

type SchemaController struct {
	schemas schema.Provider
}

func NewSchemaController(schemas schema.Provider) *SchemaController {
	return &SchemaController{
		schemas: schemas,
	}
}

func RegisterSchemaRoutes(router *gin.Engine, controller *SchemaController) {
	v1 := router.Group("/api/v1")
	{
		v1.GET("/schema", controller.GetSchema)
		v1.GET("/dictionary", controller.GetDictionary)
	}
}

// GetSchema godoc
// @Summary      Get the current log schema
// @Description  Returns the queryable fields of the banking log schema as currently loaded, plus the default time field and the primary facet fields.
// @Tags         schema
// @Produce      json
// @Success      200 {object} dto.SchemaResponse "Current schema snapshot"
// @Router       /api/v1/schema [get]
func (c *SchemaController) GetSchema(ctx *gin.Context) {
	snapshot := c.schemas.Snapshot()

	fields := make([]dto.SchemaFieldResponse, 0, snapshot.Len())
	for _, f := range snapshot.Fields {
		fields = append(fields, dto.SchemaFieldResponse{
			Name:        f.Name,
			Type:        f.Type,
			Description: f.Description,
			Synonyms:    f.Synonyms,
			ValidValues: f.ValidValues,
		})
	}

	ctx.JSON(http.StatusOK, dto.SchemaResponse{
		Fields:           fields,
		DefaultTimeField: snapshot.DefaultTimeField,
		PrimaryFacets:    snapshot.PrimaryFacets,
	})
}

// GetDictionary godoc
// @Summary      Get the field dictionary
// @Description  Returns the synonym dictionary: per-field descriptions, synonyms, valid values and example questions, as merged into the current snapshot.
// @Tags         schema
// @Produce      json
// @Success      200 {object} dto.DictionaryResponse "Current dictionary entries"
// @Router       /api/v1/dictionary [get]
func (c *SchemaController) GetDictionary(ctx *gin.Context) {
	snapshot := c.schemas.Snapshot()

	entries := make([]dto.DictionaryEntryResponse, 0, snapshot.Len())
	for _, f := range snapshot.Fields {
		entries = append(entries, dto.DictionaryEntryResponse{
			Field:       f.Name,
			Description: f.Description,
			Synonyms:    f.Synonyms,
			ValidValues: f.ValidValues,
			Example:     f.Example,
			Domain:      f.Domain,
		})
	}

	ctx.JSON(http.StatusOK, dto.DictionaryResponse{Entries: entries})
}

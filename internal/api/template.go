package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lalith-99/plotgrid/internal/layout"
	"github.com/lalith-99/plotgrid/internal/middleware"
	"github.com/lalith-99/plotgrid/internal/service"
)

// TemplateHandler serves /v1/templates. It talks to the service, never to
// a repository, so validation always runs before anything is stored.
type TemplateHandler struct {
	svc    *service.TemplateService
	logger *zap.Logger
}

func NewTemplateHandler(svc *service.TemplateService, logger *zap.Logger) *TemplateHandler {
	return &TemplateHandler{svc: svc, logger: logger}
}

// Register mounts the template routes on rg. Writes go through limit.
func (h *TemplateHandler) Register(rg *gin.RouterGroup, limit gin.HandlerFunc) {
	t := rg.Group("/templates")
	t.GET("", h.List)
	t.POST("/validate", h.Validate)
	t.GET("/:id", h.Get)
	t.GET("/:id/summary", h.Summary)
	t.GET("/:id/export", h.Export)

	w := t.Group("", limit)
	w.POST("", h.Create)
	w.POST("/import", h.Import)
	w.PUT("/:id", h.Update)
	w.DELETE("/:id", h.Delete)
	w.POST("/:id/renumber", h.Renumber)
}

// Create handles POST /v1/templates
func (h *TemplateHandler) Create(c *gin.Context) {
	var req layoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	d, err := req.draft("")
	if err != nil {
		respondError(c, h.logger, "template", err)
		return
	}

	t, err := h.svc.Save(c.Request.Context(), d, middleware.GetUserID(c))
	if err != nil {
		respondError(c, h.logger, "template", err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

// Update handles PUT /v1/templates/:id
func (h *TemplateHandler) Update(c *gin.Context) {
	var req layoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	d, err := req.draft(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "template", err)
		return
	}

	t, err := h.svc.Update(c.Request.Context(), c.Param("id"), d, middleware.GetUserID(c))
	if err != nil {
		respondError(c, h.logger, "template", err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// List handles GET /v1/templates
func (h *TemplateHandler) List(c *gin.Context) {
	templates, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "template", err)
		return
	}
	c.JSON(http.StatusOK, templates)
}

// Get handles GET /v1/templates/:id
func (h *TemplateHandler) Get(c *gin.Context) {
	t, err := h.svc.Load(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "template", err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// Delete handles DELETE /v1/templates/:id
func (h *TemplateHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, "template", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Summary handles GET /v1/templates/:id/summary
func (h *TemplateHandler) Summary(c *gin.Context) {
	_, d, err := h.svc.LoadDraft(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "template", err)
		return
	}
	c.JSON(http.StatusOK, summarize(d))
}

// Validate handles POST /v1/templates/validate. Nothing is stored; the
// response lists every rule the layout breaks.
func (h *TemplateHandler) Validate(c *gin.Context) {
	var req layoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	d, err := req.draft("")
	if err != nil {
		respondError(c, h.logger, "template", err)
		return
	}

	failures := h.svc.Validate(d)
	c.JSON(http.StatusOK, gin.H{
		"ok":       len(failures) == 0,
		"failures": failures,
		"summary":  d.Summary(),
	})
}

// Renumber handles POST /v1/templates/:id/renumber
func (h *TemplateHandler) Renumber(c *gin.Context) {
	t, changed, err := h.svc.Renumber(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "template", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"template": t, "changed": changed})
}

// Export handles GET /v1/templates/:id/export
func (h *TemplateHandler) Export(c *gin.Context) {
	id := c.Param("id")
	doc, err := h.svc.Export(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "template", err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="template-`+id+`.yaml"`)
	c.Data(http.StatusOK, "application/yaml", doc)
}

// Import handles POST /v1/templates/import with a YAML layout document as
// the body.
func (h *TemplateHandler) Import(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		respondBindError(c, err)
		return
	}
	if len(body) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be a YAML layout document"})
		return
	}

	t, err := h.svc.Import(c.Request.Context(), body, middleware.GetUserID(c))
	if err != nil {
		var verr *layout.ValidationError
		if !errors.As(err, &verr) && !isStorageError(err) {
			// yaml syntax errors carry no sentinel.
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		respondError(c, h.logger, "template", err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lalith-99/plotgrid/internal/middleware"
	"github.com/lalith-99/plotgrid/internal/service"
)

type ProjectHandler struct {
	svc    *service.ProjectService
	logger *zap.Logger
}

func NewProjectHandler(svc *service.ProjectService, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{svc: svc, logger: logger}
}

// Register mounts the project routes except the live stream, which needs
// the upgrader and is mounted by StreamHandler.
func (h *ProjectHandler) Register(rg *gin.RouterGroup, limit gin.HandlerFunc) {
	p := rg.Group("/projects")
	p.GET("", h.List)
	p.GET("/:id", h.Get)
	p.GET("/:id/summary", h.Summary)

	w := p.Group("", limit)
	w.POST("", h.Create)
	w.PUT("/:id", h.Update)
	w.DELETE("/:id", h.Delete)
	w.PATCH("/:id/cells/:row/:col", h.UpdateCell)
}

// Create handles POST /v1/projects. The new project starts with a copy of
// the template's grid.
func (h *ProjectHandler) Create(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	p, err := h.svc.CreateFromTemplate(c.Request.Context(), service.CreateProjectInput{
		TemplateID:  req.TemplateID,
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
	}, middleware.GetUserID(c))
	if err != nil {
		respondError(c, h.logger, "template", err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// List handles GET /v1/projects
func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "project", err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

// Get handles GET /v1/projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	p, err := h.svc.Load(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "project", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Update handles PUT /v1/projects/:id, replacing the whole layout.
func (h *ProjectHandler) Update(c *gin.Context) {
	var req layoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	d, err := req.draft(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "project", err)
		return
	}

	p, err := h.svc.Save(c.Request.Context(), d, req.Location, middleware.GetUserID(c))
	if err != nil {
		respondError(c, h.logger, "project", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Delete handles DELETE /v1/projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, "project", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Summary handles GET /v1/projects/:id/summary
func (h *ProjectHandler) Summary(c *gin.Context) {
	_, d, err := h.svc.LoadDraft(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "project", err)
		return
	}
	c.JSON(http.StatusOK, summarize(d))
}

// UpdateCell handles PATCH /v1/projects/:id/cells/:row/:col
func (h *ProjectHandler) UpdateCell(c *gin.Context) {
	row, errRow := strconv.Atoi(c.Param("row"))
	col, errCol := strconv.Atoi(c.Param("col"))
	if errRow != nil || errCol != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "row and col must be integers"})
		return
	}

	var req cellPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	cell, err := h.svc.UpdatePlot(c.Request.Context(), c.Param("id"), row, col, req.update())
	if err != nil {
		respondError(c, h.logger, "project", err)
		return
	}
	c.JSON(http.StatusOK, cell.Record())
}

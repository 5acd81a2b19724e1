package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fgc-incentivos/reports-backend/internal/auth"
	"github.com/fgc-incentivos/reports-backend/internal/reports/domain"
	"github.com/fgc-incentivos/reports-backend/internal/reports/service"
)

// Handler exposes the report lifecycle over HTTP. All business rules live in
// the service; this layer only binds requests and maps errors.
type Handler struct {
	svc *service.LifecycleService
}

func NewHandler(svc *service.LifecycleService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("", h.create)
	rg.GET("", h.list)
	rg.GET("/:id", h.get)
	rg.PATCH("/:id", h.update)
	rg.DELETE("/:id", h.delete)
	rg.POST("/:id/submit", h.submit)
	rg.POST("/:id/review", h.review)
	rg.POST("/:id/comments", h.addComment)
	rg.POST("/:id/attachments", h.addAttachment)
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	r, err := h.svc.CreateDraft(c.Request.Context(), auth.Actor(c), req.ProjectID, domain.ReportFields{
		Period:       req.Period,
		Progress:     req.Progress,
		JobPositions: req.JobPositions,
		Notes:        req.Notes,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "report": r})
}

func (h *Handler) list(c *gin.Context) {
	filter := domain.ReportFilter{
		ProjectID: c.Query("project_id"),
		Status:    c.Query("status"),
		Period:    c.Query("period"),
	}
	items, err := h.svc.ListReports(c.Request.Context(), auth.Actor(c), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "reports": items})
}

func (h *Handler) get(c *gin.Context) {
	detail, err := h.svc.GetReport(c.Request.Context(), auth.Actor(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":          true,
		"report":      detail.Report,
		"attachments": detail.Attachments,
		"comments":    detail.Comments,
	})
}

func (h *Handler) update(c *gin.Context) {
	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	r, err := h.svc.UpdateDraft(c.Request.Context(), auth.Actor(c), c.Param("id"), domain.ReportFields{
		Period:       req.Period,
		Progress:     req.Progress,
		JobPositions: req.JobPositions,
		Notes:        req.Notes,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "report": r})
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.DeleteReport(c.Request.Context(), auth.Actor(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) submit(c *gin.Context) {
	r, err := h.svc.Submit(c.Request.Context(), auth.Actor(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "report": r})
}

func (h *Handler) review(c *gin.Context) {
	var req reviewReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	r, err := h.svc.Review(c.Request.Context(), auth.Actor(c), c.Param("id"), req.Decision, req.Comment)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "report": r})
}

func (h *Handler) addComment(c *gin.Context) {
	var req commentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	comment, err := h.svc.AddComment(c.Request.Context(), auth.Actor(c), c.Param("id"), req.Comment)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "comment": comment})
}

func (h *Handler) addAttachment(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "file is required"})
		return
	}
	typ := c.PostForm("type")

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "open upload: " + err.Error()})
		return
	}
	defer file.Close()

	a, err := h.svc.AddAttachment(c.Request.Context(), auth.Actor(c), c.Param("id"),
		typ, fileHeader.Header.Get("Content-Type"), file)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "attachment": a})
}

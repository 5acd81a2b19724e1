package projects

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fgc-incentivos/reports-backend/internal/auth"
	"github.com/fgc-incentivos/reports-backend/internal/reports/domain"
)

type Handler struct {
	repo *Repo
}

func Register(rg *gin.RouterGroup, repo *Repo) {
	h := &Handler{repo: repo}

	rg.GET("", h.list)
	rg.GET("/:id", h.get)
}

func (h *Handler) list(c *gin.Context) {
	actor := auth.Actor(c)

	var (
		items []Project
		err   error
	)
	if actor.Role == domain.RoleAdmin {
		items, err = h.repo.List(c.Request.Context())
	} else {
		items, err = h.repo.ListForBeneficiary(c.Request.Context(), actor.ID)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": items})
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.repo.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrProjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fgc-incentivos/reports-backend/internal/reports/domain"
)

type createReq struct {
	ProjectID    string  `json:"project_id"`
	Period       string  `json:"period"`
	Progress     string  `json:"descricao_progresso"`
	JobPositions int     `json:"postos_trabalho"`
	Notes        *string `json:"observacoes,omitempty"`
}

type updateReq struct {
	Period       string  `json:"period"`
	Progress     string  `json:"descricao_progresso"`
	JobPositions int     `json:"postos_trabalho"`
	Notes        *string `json:"observacoes,omitempty"`
}

type reviewReq struct {
	Decision string `json:"decision"`
	Comment  string `json:"comentario"`
}

type commentReq struct {
	Comment string `json:"comentario"`
}

// writeError maps the lifecycle error taxonomy onto HTTP statuses. Every
// failure carries its kind and reason; nothing collapses into a generic 500
// unless it genuinely is one.
func writeError(c *gin.Context, err error) {
	var (
		authErr *domain.AuthorizationError
		trErr   *domain.InvalidTransitionError
		valErr  *domain.ValidationError
		depErr  *domain.DependencyError
	)
	switch {
	case errors.Is(err, domain.ErrReportNotFound), errors.Is(err, domain.ErrProjectNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": err.Error()})
	case errors.As(err, &authErr):
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": authErr.Error(), "reason": authErr.Reason})
	case errors.As(err, &trErr):
		c.JSON(http.StatusConflict, gin.H{"ok": false, "error": trErr.Error()})
	case errors.As(err, &valErr):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": valErr.Error(), "field": valErr.Field})
	case errors.As(err, &depErr):
		c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": depErr.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
	}
}

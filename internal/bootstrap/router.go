package bootstrap

import (
	fbauth "firebase.google.com/go/v4/auth"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	httpapi "github.com/fgc-incentivos/reports-backend/internal/api/http"
	"github.com/fgc-incentivos/reports-backend/internal/api/http/middleware"
	"github.com/fgc-incentivos/reports-backend/internal/auth"
	"github.com/fgc-incentivos/reports-backend/internal/profiles"
	"github.com/fgc-incentivos/reports-backend/internal/projects"
	reportshttp "github.com/fgc-incentivos/reports-backend/internal/reports/http"
	"github.com/fgc-incentivos/reports-backend/internal/reports/service"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	DB          *pgxpool.Pool
	AuthClient  *fbauth.Client
	Reports     *service.LifecycleService
	// RateLimit is requests per second per authenticated user; 0 disables it.
	RateLimit float64
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	r.Use(cors.New(corsCfg))
	r.Use(middleware.RequestID())

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")

	profileRepo := profiles.NewRepo(dep.DB)
	api.Use(auth.WithActor(dep.AuthClient, profileRepo))
	if dep.RateLimit > 0 {
		burst := int(dep.RateLimit * 2)
		if burst < 1 {
			burst = 1
		}
		api.Use(middleware.RateLimit(dep.RateLimit, burst))
	}

	projectRepo := projects.NewRepo(dep.DB)
	projects.Register(api.Group("/projects"), projectRepo)

	reportsHandler := reportshttp.NewHandler(dep.Reports)
	reportsHandler.Register(api.Group("/reports"))

	return r
}

package main

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/helljxnn/astrostar-backend-sub000/internal/interfaces/http/handlers"
	"github.com/helljxnn/astrostar-backend-sub000/internal/interfaces/http/middleware"
)

const (
	serviceName    = "astrostar-teams"
	serviceVersion = "1.0.0"

	teamsModule = "equipos"
)

type routeDeps struct {
	teamHandler    *handlers.TeamHandler
	authMiddleware gin.HandlerFunc
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		teams := v1.Group("/teams")
		teams.Use(d.authMiddleware)
		{
			teams.GET("", middleware.RequirePermission(teamsModule, "Ver"), d.teamHandler.ListTeams)
			teams.GET("/stats", middleware.RequirePermission(teamsModule, "Ver"), d.teamHandler.GetStats)
			teams.GET("/check-name", middleware.RequirePermission(teamsModule, "Ver"), d.teamHandler.CheckName)
			teams.GET("/:id", middleware.RequirePermission(teamsModule, "Ver"), d.teamHandler.GetTeam)
			teams.POST("", middleware.RequirePermission(teamsModule, "Crear"), middleware.IdempotencyMiddleware(), d.teamHandler.CreateTeam)
			teams.PUT("/:id", middleware.RequirePermission(teamsModule, "Editar"), d.teamHandler.UpdateTeam)
			teams.PATCH("/:id/status", middleware.RequirePermission(teamsModule, "Editar"), d.teamHandler.ChangeStatus)
			teams.DELETE("/:id", middleware.RequirePermission(teamsModule, "Eliminar"), d.teamHandler.DeleteTeam)
		}
	}
}

// applyCORSMiddleware answers preflight requests itself and decorates the
// rest with the allowed-origin headers.
func applyCORSMiddleware(r *gin.Engine, origins []string) {
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
		},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "Idempotency-Key", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "X-Idempotency-Hit"},
		AllowCredentials: true,
	})

	r.Use(func(ctx *gin.Context) {
		c.HandlerFunc(ctx.Writer, ctx.Request)
		if ctx.Request.Method == http.MethodOptions && ctx.GetHeader("Access-Control-Request-Method") != "" {
			ctx.AbortWithStatus(http.StatusNoContent)
			return
		}
		ctx.Next()
	})
}

func registerHealthRoute(r *gin.Engine, ping func(context.Context) error) {
	r.GET("/health", func(c *gin.Context) {
		body := gin.H{"status": "ok", "service": serviceName, "version": serviceVersion}
		if err := ping(c.Request.Context()); err != nil {
			body["status"] = "degraded"
			body["database"] = "unavailable"
			c.JSON(http.StatusServiceUnavailable, body)
			return
		}
		body["database"] = "ok"
		c.JSON(http.StatusOK, body)
	})
}

func registerMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func registerValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return handlers.RegisterValidators(v)
}

// Package api wires the gin engine: routes, CORS, and rate limiting.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/voxbet/terminal/internal/api/handler"
	"github.com/voxbet/terminal/internal/api/middleware"
	"github.com/voxbet/terminal/internal/config"
	"github.com/voxbet/terminal/internal/domain"
	"github.com/voxbet/terminal/internal/service"
	"github.com/voxbet/terminal/internal/ws"
)

// RouterDeps bundles every dependency needed to build the router.
// Populated once in main() and passed to SetupRouter.
type RouterDeps struct {
	BetSvc    *service.BetService
	CmdSvc    *service.CommandService
	Catalogue *domain.Catalogue
	Hub       *ws.Hub
	Cfg       *config.Config
}

// SetupRouter creates and configures the main Gin engine with all routes,
// middleware, CORS, and rate limiting rules.
func SetupRouter(deps RouterDeps) *gin.Engine {
	if deps.Cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	// ── CORS ─────────────────────────────────────────────────────────────────
	r.Use(corsMiddleware(deps.Cfg))

	// ── Health check ─────────────────────────────────────────────────────────
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ── Handlers ─────────────────────────────────────────────────────────────
	betH := handler.NewBetHandler(deps.BetSvc)
	matchH := handler.NewMatchHandler(deps.Catalogue)
	voiceH := handler.NewVoiceHandler(deps.CmdSvc)

	// ── Rate limiters ─────────────────────────────────────────────────────────
	// Voice endpoints are the expensive path (parsing, optionally an LLM call),
	// so they get a tighter budget than plain ledger CRUD.
	voiceRL := middleware.RateLimit(5)
	betRL := middleware.RateLimit(30)

	api := r.Group("/api")
	{
		// ── Bets ──────────────────────────────────────────────────────────────
		bets := api.Group("/bets")
		bets.Use(betRL)
		{
			bets.GET("", betH.List)
			bets.POST("", betH.Create)
			bets.POST("/place-all", betH.PlaceAll)
			bets.DELETE("/:id", betH.Delete)
			bets.PATCH("/:id/status", betH.UpdateStatus)
		}

		// ── Matches (public, read-only) ──────────────────────────────────────
		matches := api.Group("/matches")
		{
			matches.GET("", matchH.List)
			matches.GET("/:id/bet-options", matchH.BetOptions)
		}

		// ── Voice pipeline ────────────────────────────────────────────────────
		voice := api.Group("")
		voice.Use(voiceRL)
		{
			voice.POST("/voice-command", voiceH.Command)
			voice.POST("/validate-voice-command", voiceH.Validate)
		}
	}

	// ── WebSocket ─────────────────────────────────────────────────────────────
	if deps.Hub != nil {
		r.GET("/ws", func(c *gin.Context) {
			deps.Hub.ServeWs(c.Writer, c.Request)
		})
	}

	return r
}

// ── CORS helper ───────────────────────────────────────────────────────────────

// corsMiddleware returns a gin middleware that sets appropriate CORS headers.
// In development all origins are allowed; in production only configured origins.
func corsMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		if !cfg.IsProd() {
			// Development: allow any origin
			c.Header("Access-Control-Allow-Origin", "*")
		} else if origin != "" {
			allowed := map[string]bool{
				"https://voxbet.app":     true,
				"https://www.voxbet.app": true,
			}
			if allowed[origin] {
				c.Header("Access-Control-Allow-Origin", origin)
			}
		}

		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

package http

import (
	"context"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/openjamlab/bandroom/internal/adapters/signal"
	"github.com/openjamlab/bandroom/internal/config"
)

// SessionTokenMiddleware hands every browser a stable lobby token. The
// token survives the lobby->room page navigation even though the WS
// connection identity does not; it is what lets the presentation layer
// correlate the two phases.
func SessionTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("lt")
		if token == "" {
			token = uuid.NewString()
			c.SetCookie("lt", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("lobby_token", token)
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, ctl *signal.Controller) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("BandroomSessions", store))
	r.Use(SessionTokenMiddleware())

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	api := r.Group("/api")

	api.GET("/rooms/:code", roomProbe(ctl))

	api.GET("/ws/signal", func(c *gin.Context) {
		log.Info().Str("module", "adapters.http").Str("lobby_token", c.GetString("lobby_token")).Msg("ws signal endpoint hit")
		ctl.HandleSignal(ctx, c)
	})

	return r
}

type roomProbeURI struct {
	Code string `uri:"code" binding:"required,len=4"`
}

type roomProbeQuery struct {
	InstrumentRole string `form:"instrumentRole" binding:"required,oneof=guitar piano drums vocal"`
}

// roomProbe is the REST twin of validate-join-request for lobbies that
// want to check a code before opening a socket. Read-only.
func roomProbe(ctl *signal.Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		var uri roomProbeURI
		if err := c.ShouldBindUri(&uri); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "room code must be 4 characters"})
			return
		}
		var q roomProbeQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "instrumentRole must be one of guitar, piano, drums, vocal"})
			return
		}

		v := ctl.Binder.ValidateJoin(uri.Code, q.InstrumentRole)
		if v.Success {
			c.JSON(http.StatusOK, v)
			return
		}
		status := http.StatusConflict
		if _, live := ctl.Registry.Room(v.Code); !live {
			status = http.StatusNotFound
		}
		c.JSON(status, v)
	}
}

// Package debug serves a local HTTP endpoint for health, metrics and a
// live dump of the client's state. It is optional; the TUI runs fine
// without it.
package debug

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"webchat-client/internal/chat"
	"webchat-client/internal/presence"
	"webchat-client/internal/session"
)

// Server exposes the running client's internals on a local port.
type Server struct {
	router *gin.Engine
}

// New wires the debug routes against the live components.
func New(sess *session.Session, sync *chat.Synchronizer, tracker *presence.Tracker) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("webchat-client"))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/debug/state", func(c *gin.Context) {
		user, loggedIn := sess.User()
		active := sync.Snapshot()

		peers := make(map[int]presence.PeerState, len(active.Users))
		for _, id := range active.Users {
			if id != user.ID {
				peers[id] = tracker.Peer(id)
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"logged_in": loggedIn,
			"user":      user,
			"chat":      active,
			"peers":     peers,
		})
	})

	return &Server{router: router}
}

// Run blocks serving the debug routes on addr.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

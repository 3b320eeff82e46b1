package gateway

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/sessionkit/errors"
	"github.com/kbukum/sessionkit/server"
)

// RegisterRoutes mounts the WebSocket endpoint and the watch stream.
func (g *Gateway) RegisterRoutes(r gin.IRouter) {
	r.GET("/ws", func(c *gin.Context) {
		g.ServeWS(c.Writer, c.Request)
	})
	r.GET("/api/session/:id/watch", func(c *gin.Context) {
		err := g.ServeWatch(c.Writer, c.Request, c.Param("id"))
		if err == nil || c.Writer.Written() {
			return
		}
		if errors.Is(err, ErrGatewayClosed) {
			err = apperrors.ServiceUnavailable("connection gateway")
		}
		server.RespondWithError(c, err)
	})
}

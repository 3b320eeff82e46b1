package lifecycle

import (
	"github.com/gin-gonic/gin"

	"github.com/kbukum/sessionkit/server"
)

// Route paths served by Handler.
const (
	PathCreate       = "/api/create-session"
	PathVerify       = "/api/verify-session/:id"
	PathParticipants = "/api/session/:id/participants"
)

// Handler exposes a Service over gin.
type Handler struct {
	svc *Service
}

// NewHandler creates an HTTP handler for svc.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the lifecycle routes on r.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.POST(PathCreate, h.create)
	r.GET(PathVerify, h.verify)
	r.GET(PathParticipants, h.participants)
}

func (h *Handler) create(c *gin.Context) {
	out, err := h.svc.Create(c.Request.Context())
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondCreated(c, out)
}

func (h *Handler) verify(c *gin.Context) {
	out, err := h.svc.Verify(c.Request.Context(), c.Param("id"))
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, out)
}

func (h *Handler) participants(c *gin.Context) {
	out, err := h.svc.Roster(c.Request.Context(), c.Param("id"))
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, out)
}

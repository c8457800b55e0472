package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PagesHandler serves the static informational pages (plans, support) as
// JSON for the presentation layer to render.
type PagesHandler struct {
	supportContact string
}

// NewPagesHandler creates a new PagesHandler.
func NewPagesHandler(supportContact string) *PagesHandler {
	return &PagesHandler{
		supportContact: supportContact,
	}
}

// Plans describes how credits are purchased.
func (h *PagesHandler) Plans(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"title":   "Planes",
		"message": "Credits are added by an administrator after purchase.",
		"contact": h.supportContact,
	})
}

// Support points the user at the support channel.
func (h *PagesHandler) Support(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"title":   "Soporte",
		"contact": h.supportContact,
	})
}

package public

import "github.com/sponza-next/internal/provider"

// Handler serves the public, brand and influencer facing API.
type Handler struct {
	*provider.Container
}

// New creates the public handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

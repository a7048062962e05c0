package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"farmvibe/internal/classifier"
	"farmvibe/internal/config"
	"farmvibe/internal/resolver"
)

type generateRequest struct {
	Input string `json:"input" example:"rooftop balcony vertical garden in the city"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// generateHandler godoc
// @Summary Generate a farm vibe
// @Description Static mode matches keywords against a fixed table. Generative mode asks the configured language model and falls back to the keyword match on any failure.
// @Tags vibes
// @Accept json
// @Produce json
// @Param request body generateRequest true "Farm vibe description"
// @Success 200 {object} classifier.Descriptor
// @Failure 400 {object} errorResponse
// @Failure 405 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /api/generate-farm-vibe [post]
// @Router /api/generate-farm-vibe-ai [post]
func (s *Server) generateHandler(mode resolver.Mode) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req generateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			s.logger.WithError(err).Debug("undecodable request body")
			c.JSON(http.StatusBadRequest, errorResponse{Error: "Input is required"})
			return
		}

		result, err := s.resolver.Resolve(c.Request.Context(), req.Input, mode)
		if err != nil {
			switch {
			case errors.Is(err, resolver.ErrInputRequired):
				c.JSON(http.StatusBadRequest, errorResponse{Error: "Input is required"})
			case errors.Is(err, resolver.ErrCredentialMissing):
				c.JSON(http.StatusInternalServerError, errorResponse{Error: s.missingCredentialMessage()})
			default:
				s.logger.WithError(err).WithField("mode", mode).Error("resolution failed")
				c.JSON(http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
			}
			return
		}

		c.Header("X-Vibe-Source", string(result.Source))
		c.Header("X-Vibe-Category", string(result.Category))
		c.JSON(http.StatusOK, normalizeDescriptor(result.Descriptor))
	}
}

func (s *Server) missingCredentialMessage() string {
	label := "OpenAI"
	if s.provider == config.ProviderGemini {
		label = "Gemini"
	}
	return fmt.Sprintf("%s API key not configured", label)
}

// normalizeDescriptor keeps items a JSON array even when a model omits it.
func normalizeDescriptor(d classifier.Descriptor) classifier.Descriptor {
	if d.Items == nil {
		d.Items = []string{}
	}
	return d
}

// vibeSummaryHandler godoc
// @Summary Resolution summary
// @Description Counts recorded resolutions by category and source.
// @Tags vibes
// @Produce json
// @Success 200 {object} database.Summary
// @Failure 500 {object} errorResponse
// @Router /api/vibes/summary [get]
func (s *Server) vibeSummaryHandler(c *gin.Context) {
	summary, err := s.db.Summarize(c.Request.Context())
	if err != nil {
		s.logger.WithError(err).Error("failed to summarize vibes")
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to summarize vibes"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

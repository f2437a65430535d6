package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"whichcharacter/internal/domain"
	"whichcharacter/internal/repository"
	"whichcharacter/internal/service"
)

// ScoreHandler expone el matching, el mapeo directo de entidades y feedback.
type ScoreHandler struct {
	logger   *zap.Logger
	match    *service.MatchService
	mappings *service.MappingService
	feedback repository.FeedbackRepository
}

func NewScoreHandler(
	logger *zap.Logger,
	match *service.MatchService,
	mappings *service.MappingService,
	feedback repository.FeedbackRepository,
) *ScoreHandler {
	return &ScoreHandler{logger: logger, match: match, mappings: mappings, feedback: feedback}
}

type scoreRequest struct {
	Name          string          `json:"name" binding:"required"`
	Universes     []string        `json:"universes" binding:"required,min=1"`
	Answers       []domain.Answer `json:"answers" binding:"required,min=1"`
	Songs         []string        `json:"songs"`
	Movies        []string        `json:"movies"`
	Actors        []string        `json:"actors"`
	Athletes      []string        `json:"athletes"`
	Personalities []string        `json:"personalities"`
}

// PostScore maneja POST /api/score. La validacion de campos requeridos vive
// aca; el core de matching nunca falla por problemas de calidad de datos.
func (h *ScoreHandler) PostScore(c *gin.Context) {
	var req scoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid score request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}

	out, err := h.match.Score(c.Request.Context(), service.ScoreInput{
		Name:      req.Name,
		Universes: req.Universes,
		Answers:   req.Answers,
		Preferences: map[string][]string{
			domain.CategorySong:        req.Songs,
			domain.CategoryMovie:       req.Movies,
			domain.CategoryActor:       req.Actors,
			domain.CategoryAthlete:     req.Athletes,
			domain.CategoryPersonality: req.Personalities,
		},
	})
	if err != nil {
		h.logger.Error("score failed", zap.String("name", req.Name), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not compute matches"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"topMatches":     out.TopMatches,
		"bestByUniverse": out.BestByUniverse,
		"finalVector":    out.FinalVector,
	})
}

// MapMedia maneja POST /api/media/map: mapeo directo via oracle.
func (h *ScoreHandler) MapMedia(c *gin.Context) {
	var req struct {
		Title    string `json:"title" binding:"required"`
		Category string `json:"category" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing title or category"})
		return
	}
	if !domain.IsValidCategory(req.Category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category"})
		return
	}

	mapping, err := h.mappings.MapEntity(c.Request.Context(), req.Title, req.Category)
	if err != nil {
		h.logger.Error("map entity failed", zap.String("title", req.Title), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to map entity"})
		return
	}
	c.JSON(http.StatusOK, mapping)
}

// PostFeedback maneja POST /api/feedback.
func (h *ScoreHandler) PostFeedback(c *gin.Context) {
	var req struct {
		Name          string `json:"name" binding:"required"`
		SelectedTrait string `json:"selected_trait" binding:"required"`
		Note          string `json:"note"`
		Consent       bool   `json:"consent"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || !req.Consent {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}

	fb := domain.Feedback{
		ID:            uuid.NewString(),
		Name:          req.Name,
		SelectedTrait: req.SelectedTrait,
		Note:          req.Note,
		Consent:       req.Consent,
		IP:            c.ClientIP(),
		CreatedAt:     time.Now().UTC(),
	}
	if err := h.feedback.Insert(c.Request.Context(), fb); err != nil {
		h.logger.Error("insert feedback failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store feedback"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"whichcharacter/internal/repository"
)

// CatalogHandler sirve la data de referencia: preguntas y personajes.
type CatalogHandler struct {
	logger     *zap.Logger
	questions  repository.QuestionRepository
	characters repository.CharacterRepository
}

func NewCatalogHandler(logger *zap.Logger, questions repository.QuestionRepository, characters repository.CharacterRepository) *CatalogHandler {
	return &CatalogHandler{logger: logger, questions: questions, characters: characters}
}

// GetQuestions maneja GET /api/questions.
func (h *CatalogHandler) GetQuestions(c *gin.Context) {
	questions, err := h.questions.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list questions failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load questions"})
		return
	}
	c.JSON(http.StatusOK, questions)
}

// GetCharacters maneja GET /api/characters?universe=&limit=.
func (h *CatalogHandler) GetCharacters(c *gin.Context) {
	universe := c.Query("universe")
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 0 {
		limit = 10
	}

	var filter []string
	if universe != "" && universe != "All" {
		filter = []string{universe}
	}

	chars, err := h.characters.ListByUniverses(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("list characters failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load characters"})
		return
	}
	if limit > 0 && len(chars) > limit {
		chars = chars[:limit]
	}
	c.JSON(http.StatusOK, chars)
}

package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"whichcharacter/internal/domain"
	"whichcharacter/internal/repository"
	"whichcharacter/internal/service"
)

// AdminHandler agrupa los endpoints de administracion.
type AdminHandler struct {
	logger      *zap.Logger
	auth        *service.AdminAuthService
	results     repository.ResultRepository
	feedback    repository.FeedbackRepository
	mappings    *service.MappingService
	mappingRepo repository.MappingRepository
	questions   repository.QuestionRepository
	characters  repository.CharacterRepository
}

func NewAdminHandler(
	logger *zap.Logger,
	auth *service.AdminAuthService,
	results repository.ResultRepository,
	feedback repository.FeedbackRepository,
	mappings *service.MappingService,
	mappingRepo repository.MappingRepository,
	questions repository.QuestionRepository,
	characters repository.CharacterRepository,
) *AdminHandler {
	return &AdminHandler{
		logger:      logger,
		auth:        auth,
		results:     results,
		feedback:    feedback,
		mappings:    mappings,
		mappingRepo: mappingRepo,
		questions:   questions,
		characters:  characters,
	}
}

// Login maneja POST /admin/login: canjea el token estatico por un JWT.
func (h *AdminHandler) Login(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing token"})
		return
	}

	jwt, err := h.auth.Login(req.Token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": jwt})
}

// GetResults maneja GET /admin/results?limit=.
func (h *AdminHandler) GetResults(c *gin.Context) {
	limit := queryLimit(c, 50)
	results, err := h.results.ListRecent(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("list results failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load results"})
		return
	}
	c.JSON(http.StatusOK, results)
}

// GetFeedback maneja GET /admin/feedback?limit=.
func (h *AdminHandler) GetFeedback(c *gin.Context) {
	limit := queryLimit(c, 50)
	items, err := h.feedback.ListRecent(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("list feedback failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load feedback"})
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetStats maneja GET /admin/stats.
func (h *AdminHandler) GetStats(c *gin.Context) {
	ctx := c.Request.Context()

	stats := domain.Stats{}
	counts := []struct {
		dest  *int64
		count func() (int64, error)
	}{
		{&stats.TotalResults, func() (int64, error) { return h.results.Count(ctx) }},
		{&stats.TotalFeedback, func() (int64, error) { return h.feedback.Count(ctx) }},
		{&stats.TotalMappings, func() (int64, error) { return h.mappingRepo.Count(ctx) }},
		{&stats.TotalCharacters, func() (int64, error) { return h.characters.Count(ctx) }},
		{&stats.TotalQuestions, func() (int64, error) { return h.questions.Count(ctx) }},
	}
	for _, item := range counts {
		n, err := item.count()
		if err != nil {
			h.logger.Error("load stats failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load stats"})
			return
		}
		*item.dest = n
	}

	universes, err := h.characters.DistinctUniverses(ctx)
	if err != nil {
		h.logger.Error("load stats failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load stats"})
		return
	}
	stats.Universes = universes

	c.JSON(http.StatusOK, stats)
}

// RemapMedia maneja POST /admin/media-mapping: borra y re-mapea una entidad.
func (h *AdminHandler) RemapMedia(c *gin.Context) {
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

	mapping, err := h.mappings.Remap(c.Request.Context(), req.Title, req.Category)
	if err != nil {
		h.logger.Error("remap failed", zap.String("title", req.Title), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remap entity"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "mapping": mapping})
}

// AdminAuthMiddleware valida el JWT de administracion.
func AdminAuthMiddleware(auth *service.AdminAuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			c.Abort()
			return
		}
		token := strings.TrimSpace(header[len("Bearer "):])
		if err := auth.Verify(token); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func queryLimit(c *gin.Context, fallback int) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(fallback)))
	if err != nil || limit <= 0 {
		return fallback
	}
	return limit
}

package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/BigDee2008/FAQForge/service"

	"github.com/gin-gonic/gin"
)

// FaqHandler handles HTTP requests for FAQs
type FaqHandler struct {
	faqService    *service.FaqService
	exportService *service.ExportService
	logger        *slog.Logger
}

// NewFaqHandler creates a new FAQ handler
func NewFaqHandler(faqService *service.FaqService, exportService *service.ExportService, logger *slog.Logger) *FaqHandler {
	return &FaqHandler{
		faqService:    faqService,
		exportService: exportService,
		logger:        logger.With("component", "faq_handler"),
	}
}

// GenerateFaq handles POST /api/generate-faq
func (h *FaqHandler) GenerateFaq(c *gin.Context) {
	userID := CallerID(c)
	if userID == "" {
		h.writeError(c, service.ErrUnauthenticated)
		return
	}

	var input service.GenerateFaqInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    "INVALID_REQUEST",
			"message": "Invalid input data. Please check your form and try again.",
			"errors":  []string{err.Error()},
		})
		return
	}

	result, err := h.faqService.GenerateFaq(c.Request.Context(), userID, input)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetFaq handles GET /api/faq/:id
func (h *FaqHandler) GetFaq(c *gin.Context) {
	id, ok := parseFaqID(c)
	if !ok {
		return
	}

	faq, err := h.faqService.GetFaq(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, faq)
}

// DownloadFaq handles GET /api/faq/:id/download?format=html|markdown
func (h *FaqHandler) DownloadFaq(c *gin.Context) {
	id, ok := parseFaqID(c)
	if !ok {
		return
	}

	format, err := service.ParseExportFormat(c.Query("format"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	ctx := c.Request.Context()
	exported, err := h.exportService.Export(ctx, id, format)
	if err != nil {
		h.writeError(c, err)
		return
	}

	body, err := h.exportService.Open(ctx, exported.StoragePath)
	if err != nil {
		h.writeError(c, err)
		return
	}
	defer body.Close()

	c.DataFromReader(http.StatusOK, int64(exported.Size), exported.ContentType, body, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", exported.FileName),
	})
}

func parseFaqID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    "INVALID_ID",
			"message": "Invalid FAQ ID",
		})
		return 0, false
	}
	return id, true
}

// writeError maps service errors onto status codes. Unexpected errors are
// logged and reported without detail.
func (h *FaqHandler) writeError(c *gin.Context, err error) {
	var validationErr *service.ValidationError
	var quotaErr *service.QuotaExceededError

	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{
			"code":    "UNAUTHENTICATED",
			"message": "Authentication required",
		})
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    "INVALID_INPUT",
			"message": "Invalid input data. Please check your form and try again.",
			"errors":  validationErr.Violations,
		})
	case errors.As(err, &quotaErr):
		c.JSON(http.StatusTooManyRequests, gin.H{
			"code":      "DAILY_LIMIT_REACHED",
			"message":   fmt.Sprintf("Daily limit reached. You can generate %d FAQs per day. Your count resets at midnight.", quotaErr.Limit),
			"limit":     quotaErr.Limit,
			"remaining": 0,
			"resetTime": quotaErr.ResetTime.Format(time.RFC3339),
		})
	case errors.Is(err, service.ErrGenerationUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"code":    "AI_UNAVAILABLE",
			"message": "AI service temporarily unavailable. Please try again in a moment.",
		})
	case errors.Is(err, service.ErrFaqNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"code":    "NOT_FOUND",
			"message": "FAQ not found",
		})
	case errors.Is(err, service.ErrExportNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"code":    "NOT_FOUND",
			"message": "Exported document not found",
		})
	case errors.Is(err, service.ErrUnsupportedFormat):
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    "INVALID_FORMAT",
			"message": "Format must be html or markdown",
		})
	default:
		_ = c.Error(err)
		h.logger.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "INTERNAL_ERROR",
			"message": "An unexpected error occurred. Please try again.",
		})
	}
}

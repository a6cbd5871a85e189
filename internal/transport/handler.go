package transport

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"go-tamper-inspector/internal/config"
	apperrors "go-tamper-inspector/internal/errors"
	"go-tamper-inspector/internal/logger"
	"go-tamper-inspector/internal/observer"
	"go-tamper-inspector/internal/service"
	"go-tamper-inspector/pkg/models"
)

const apiVersion = "1.0.0"

// Handler serves the tamper detection HTTP API
type Handler struct {
	service  service.DetectionService
	counters *observer.CounterObserver
	cfg      *config.Config
}

// NewHandler builds the router. counters may be nil; /v1/stats then reports
// zeroes.
func NewHandler(detectionService service.DetectionService, counters *observer.CounterObserver, cfg *config.Config) http.Handler {
	h := &Handler{
		service:  detectionService,
		counters: counters,
		cfg:      cfg,
	}

	r := gin.Default()
	r.Use(
		requestSizeLimiter(cfg.MaxRequestBodySize),
		errorHandler(),
	)

	r.GET("/health", healthCheck)

	v1 := r.Group("/v1")
	{
		v1.POST("/detect", h.detect)
		v1.POST("/scene-change", h.sceneChange)
		v1.POST("/smear", h.smear)
		v1.POST("/report", h.report)
		v1.GET("/history", h.history)
		v1.GET("/stats", h.stats)
	}

	return r
}

// detect scores one frame for all tamper conditions
func (h *Handler) detect(c *gin.Context) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.RequestTimeout)
	defer cancel()

	logger.WithFields(logrus.Fields{
		"method": c.Request.Method,
		"path":   c.Request.URL.Path,
		"ip":     c.ClientIP(),
	}).Info("Processing tamper detection request")

	var req models.DetectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewValidationError("invalid request format", err))
		return
	}

	response, err := h.service.DetectTamper(ctx, req)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.WithFields(logrus.Fields{
		"frame_url":          req.FrameURL,
		"camera_id":          req.CameraID,
		"processing_time_ms": time.Since(start).Milliseconds(),
		"blur_score":         response.Scores.BlurScore,
		"blackout_score":     response.Scores.BlackoutScore,
		"flash_score":        response.Scores.FlashScore,
		"smear_score":        response.Scores.SmearScore,
		"issues":             len(response.Issues),
	}).Info("Tamper detection completed")

	c.JSON(http.StatusOK, response)
}

// sceneChange compares two consecutive frames
func (h *Handler) sceneChange(c *gin.Context) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.RequestTimeout)
	defer cancel()

	var req models.SceneChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewValidationError("invalid request format", err))
		return
	}

	response, err := h.service.DetectSceneChange(ctx, req)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.WithFields(logrus.Fields{
		"current_url":        req.CurrentURL,
		"camera_id":          req.CameraID,
		"processing_time_ms": time.Since(start).Milliseconds(),
		"scene_change_score": response.SceneChange.SceneChangeScore,
	}).Info("Scene change detection completed")

	c.JSON(http.StatusOK, response)
}

// smear scores one frame for lens obstruction only
func (h *Handler) smear(c *gin.Context) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.RequestTimeout)
	defer cancel()

	var req models.DetectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewValidationError("invalid request format", err))
		return
	}

	response, err := h.service.DetectSmear(ctx, req)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.WithFields(logrus.Fields{
		"frame_url":          req.FrameURL,
		"processing_time_ms": time.Since(start).Milliseconds(),
		"smear_score":        response.Smear.SmearScore,
	}).Info("Smear detection completed")

	c.JSON(http.StatusOK, response)
}

// report produces the full diagnostic report for one frame
func (h *Handler) report(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.RequestTimeout)
	defer cancel()

	var req models.ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewValidationError("invalid request format", err))
		return
	}

	report, err := h.service.BuildReport(ctx, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// history lists archived score records
func (h *Handler) history(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.RequestTimeout)
	defer cancel()

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondError(c, apperrors.NewValidationError("limit must be a positive integer", err))
			return
		}
		limit = parsed
	}

	response, err := h.service.History(ctx, c.Query("camera_id"), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// stats exposes the detection counters
func (h *Handler) stats(c *gin.Context) {
	if h.counters == nil {
		c.JSON(http.StatusOK, models.StatsResponse{})
		return
	}
	c.JSON(http.StatusOK, h.counters.Stats())
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"version": apiVersion,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// Middleware and helper functions

func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			respondError(c, c.Errors.Last().Err)
		}
	}
}

// respondError renders any error as {error, message} with its AppError status
// code. Errors without an AppError in their chain become internal errors.
func respondError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			appErr = apperrors.NewTimeoutError("request timed out", err)
		default:
			appErr = apperrors.NewInternalError("request processing failed", err)
		}
	}

	logger.WithError(err).WithFields(logrus.Fields{
		"status_code": appErr.StatusCode,
		"error_type":  string(appErr.Type),
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	}).Error("Request failed")

	c.AbortWithStatusJSON(appErr.StatusCode, models.ErrorResponse{
		Error:   string(appErr.Type),
		Message: appErr.Message,
	})
}

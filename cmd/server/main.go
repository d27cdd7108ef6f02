package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/talentsift/talentsift/internal/analysis"
	"github.com/talentsift/talentsift/internal/config"
	"github.com/talentsift/talentsift/internal/errors"
	"github.com/talentsift/talentsift/internal/export"
	"github.com/talentsift/talentsift/internal/fairness"
	"github.com/talentsift/talentsift/internal/monitoring"
	"github.com/talentsift/talentsift/internal/security"
	"github.com/talentsift/talentsift/internal/session"
	"github.com/talentsift/talentsift/internal/types"
)

func main() {
	// Structured logging setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()

	analyzer := analysis.NewAnalyzer(cfg)
	sessions := session.NewStore(cfg.SessionTTL)

	r := gin.New()

	// Initialize monitoring system
	appMetrics := monitoring.NewMetrics()
	appLogger := monitoring.NewLogger()

	// Add monitoring middleware first (to capture all requests)
	r.Use(monitoring.MonitoringMiddleware(appMetrics, appLogger))

	// Add error handling middleware
	r.Use(errors.ErrorHandler())
	r.Use(errors.RecoveryHandler())

	// Security middleware setup
	securityConfig := security.DefaultSecurityConfig()
	securityConfig.MaxRequestsPerMin = cfg.RequestsPerMin
	securityConfig.RequestTimeout = cfg.RequestTimeout
	securityMiddleware := security.NewSecurityMiddleware(securityConfig)
	securityMiddleware.Cleanup()

	r.Use(securityMiddleware.SecurityHeaders)
	r.Use(securityMiddleware.RequestTimeout)
	r.Use(securityMiddleware.ValidateContentType)
	r.Use(securityMiddleware.MaxBodySize)
	r.Use(securityMiddleware.RateLimitByIP)

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Accept", "Origin"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	respondError := func(c *gin.Context, err error) {
		appErr := errors.ToAppError(err)
		if appErr.Category == errors.CategoryTimeout {
			appMetrics.IncrementTimeout()
		}
		errors.LogError(c, appErr)
		c.JSON(appErr.HTTPStatus, appErr)
	}

	fairnessConfig := func(topK int) fairness.Config {
		fc := fairness.DefaultConfig()
		fc.TopK = topK
		fc.TopKFraction = float64(cfg.TopKFraction) / 100.0
		fc.ImpactLow = cfg.ImpactLow
		fc.ImpactHigh = cfg.ImpactHigh
		fc.MinGroupSize = cfg.MinGroupSize
		return fc
	}

	// auditGroups projects the per-candidate group value for one attribute.
	auditGroups := func(sensitive map[string]types.SensitiveAttributes, attribute string) map[string]string {
		groups := make(map[string]string, len(sensitive))
		for id, attrs := range sensitive {
			if v, ok := attrs[attribute]; ok {
				groups[id] = v
			}
		}
		return groups
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   "1.0.0",
			"sessions":  sessions.Size(),
			"metrics":   appMetrics.GetStats(),
		})
	})

	r.POST("/api/screen", func(c *gin.Context) {
		start := time.Now()

		var req types.ScreenRequest
		if err := c.BindJSON(&req); err != nil {
			respondError(c, errors.NewInputError("invalid JSON payload: "+err.Error()))
			return
		}

		if !security.ValidateText(req.Job.Description) {
			respondError(c, errors.NewInputError("job description contains invalid characters"))
			return
		}

		// Reject bad weight overrides before any scoring starts.
		weights, err := analyzer.DefaultWeights().Apply(req.Weights)
		if err != nil {
			respondError(c, err)
			return
		}

		// Sensitive attributes are split off here; the scoring pipeline
		// never sees them. Only the auditor reads them, in aggregate.
		sensitive := make(map[string]types.SensitiveAttributes)
		for _, p := range req.Profiles {
			if p.ID != "" && len(p.Sensitive) > 0 {
				sensitive[p.ID] = p.Sensitive
			}
		}

		result, err := analyzer.Screen(c.Request.Context(), req.Job, req.Profiles)
		if err != nil {
			respondError(c, err)
			return
		}

		if req.Weights != nil {
			result.Weights = weights
			result.Ranked = result.Rescore(weights)
		}

		fingerprint := session.Fingerprint(req.Job)
		sessionID := sessions.Resolve(req.SessionID, fingerprint)

		var report *types.FairnessReport
		if req.FairnessAttribute != "" {
			rep := fairness.Audit(result.Ranked, req.FairnessAttribute,
				auditGroups(sensitive, req.FairnessAttribute), fairnessConfig(req.TopK))
			appMetrics.RecordFairnessAudit(len(rep.Flags))
			appLogger.FairnessLogger(sessionID, req.FairnessAttribute, len(rep.Groups), len(rep.Flags))
			report = &rep
		}

		sessions.Put(sessionID, &session.Entry{
			Batch:          result,
			Sensitive:      sensitive,
			Attribute:      req.FairnessAttribute,
			TopK:           req.TopK,
			JobFingerprint: fingerprint,
		})

		appMetrics.RecordScreening(len(result.Ranked), len(result.Excluded))
		appLogger.ScreeningLogger(sessionID, len(result.Ranked), len(result.Excluded), result.Incomplete, time.Since(start))

		c.JSON(http.StatusOK, types.ScreenResponse{
			SessionID:  sessionID,
			Ranked:     result.Ranked,
			Excluded:   result.Excluded,
			Fairness:   report,
			Flags:      result.Flags,
			Incomplete: result.Incomplete,
		})
	})

	r.POST("/api/whatif", func(c *gin.Context) {
		start := time.Now()

		var req types.WhatIfRequest
		if err := c.BindJSON(&req); err != nil {
			respondError(c, errors.NewInputError("invalid JSON payload: "+err.Error()))
			return
		}

		entry, ok := sessions.Get(req.SessionID)
		if !ok {
			respondError(c, errors.NewNotFoundError("session not found or expired"))
			return
		}

		// Overrides land on the configured defaults, not on the previous
		// what-if, so repeated calls do not compound.
		weights, err := analyzer.DefaultWeights().Apply(&req.Weights)
		if err != nil {
			respondError(c, err)
			return
		}

		// Re-score into a fresh entry; concurrent readers of the stored
		// one (another what-if, a CSV export) keep a consistent ranking.
		updated := entry.Reweight(weights)
		sessions.Put(req.SessionID, updated)

		var report *types.FairnessReport
		if updated.Attribute != "" {
			rep := fairness.Audit(updated.Batch.Ranked, updated.Attribute,
				auditGroups(updated.Sensitive, updated.Attribute), fairnessConfig(updated.TopK))
			appMetrics.RecordFairnessAudit(len(rep.Flags))
			report = &rep
		}

		appMetrics.IncrementWhatIf()
		appLogger.WhatIfLogger(req.SessionID, len(updated.Batch.Ranked), time.Since(start))

		c.JSON(http.StatusOK, types.ScreenResponse{
			SessionID:  req.SessionID,
			Ranked:     updated.Batch.Ranked,
			Excluded:   updated.Batch.Excluded,
			Fairness:   report,
			Flags:      updated.Batch.Flags,
			Incomplete: updated.Batch.Incomplete,
		})
	})

	r.POST("/api/export", func(c *gin.Context) {
		var req types.ExportRequest
		if err := c.BindJSON(&req); err != nil {
			respondError(c, errors.NewInputError("invalid JSON payload: "+err.Error()))
			return
		}

		entry, ok := sessions.Get(req.SessionID)
		if !ok {
			respondError(c, errors.NewNotFoundError("session not found or expired"))
			return
		}

		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "screening-"+req.SessionID+".csv"))
		if err := export.WriteCSV(c.Writer, entry.Batch.Ranked); err != nil {
			respondError(c, errors.NewInternalError("csv export failed", err))
			return
		}

		appMetrics.IncrementExport()
	})

	// Metrics endpoint
	r.GET("/metrics", func(c *gin.Context) {
		stats := appMetrics.GetStats()
		c.JSON(http.StatusOK, stats)
	})

	// Start server with graceful shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		slog.Info("Starting server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited")
}

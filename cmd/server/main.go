package main

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/24kool/ttb-label-verification/config"
	httpDelivery "github.com/24kool/ttb-label-verification/internal/delivery/http"
	"github.com/24kool/ttb-label-verification/internal/infrastructure/annotate"
	"github.com/24kool/ttb-label-verification/internal/infrastructure/cache"
	"github.com/24kool/ttb-label-verification/internal/infrastructure/ocrengine"
	"github.com/24kool/ttb-label-verification/internal/infrastructure/vision"
	"github.com/24kool/ttb-label-verification/internal/monitoring"
	"github.com/24kool/ttb-label-verification/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Server.Environment == "production" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetLevel(logrus.DebugLevel)
	}

	logrus.WithFields(logrus.Fields{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
	}).Info("Starting TTB Label Verification v1.0.0")

	if cfg.Vision.APIKey == "" {
		logrus.Warn("Vision API key not configured; extraction calls will fail and verifications degrade to OCR-only output")
	}

	// Initialize infrastructure dependencies
	metrics := monitoring.NewMetrics()
	memoryCache := cache.NewMemoryCache()
	visionClient := vision.NewClient(vision.Config{
		APIKey:          cfg.Vision.APIKey,
		BaseURL:         cfg.Vision.BaseURL,
		Model:           cfg.Vision.Model,
		Timeout:         cfg.Vision.Timeout,
		RequestsPerHour: cfg.RateLimit.VisionPerHour,
	})
	locator := ocrengine.NewTesseractLocator(cfg.OCR.Languages)
	annotator := annotate.NewBoxAnnotator()

	// Initialize usecase layer
	verificationService := usecase.NewVerificationService(
		visionClient,
		locator,
		annotator,
		memoryCache,
		metrics,
		usecase.VerificationConfig{
			CacheTTL: cfg.Cache.TTL,
			Grounding: usecase.GroundingConfig{
				MinOverlap:   cfg.Grounding.MinOverlap,
				MaxRunLength: cfg.Grounding.MaxRunLength,
			},
		},
	)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(verificationService)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler, metrics)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logrus.Infof("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		logrus.Fatalf("Failed to start server: %v", err)
	}
}

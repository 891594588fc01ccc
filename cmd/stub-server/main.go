// Command stub-server is a local stand-in for the receipts backend. It
// accepts uploads and review updates with the same routes, payloads and
// error envelope, fabricating extraction results so the full wizard flow
// can run without the real service.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/complicopilot/ccp-cli/internal/receipt"
	"github.com/complicopilot/ccp-cli/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/subosito/gotenv"
	"go.uber.org/zap"
)

var allowedUploadTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"application/pdf": true,
}

// store keeps the fabricated records for the lifetime of the process
type store struct {
	mu      sync.Mutex
	records map[string]receipt.Record
}

func main() {
	_ = gotenv.Load()

	addr := flag.String("addr", ":8000", "listen address")
	flag.Parse()

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      "info",
		OutputPath: "stderr",
		Format:     "console",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "ccp-stub-server",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	db := &store{records: make(map[string]receipt.Record)}
	api := router.Group("/api/v1")
	api.Use(requireBearer())
	{
		api.POST("/receipts/", db.createReceipt)
		api.PATCH("/receipts/:id", db.updateReceipt)
	}

	srv := &http.Server{
		Addr:         *addr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("Stub backend listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down stub backend...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
}

// requireBearer rejects requests without a bearer credential, using the
// same {"detail": ...} envelope as the real backend. Any non-empty token
// is accepted; the stub does not verify signatures.
func requireBearer() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") || strings.TrimSpace(strings.TrimPrefix(auth, "Bearer ")) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
			return
		}
		c.Next()
	}
}

func (s *store) createReceipt(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "No file provided"})
		return
	}

	contentType := file.Header.Get("Content-Type")
	if !allowedUploadTypes[contentType] {
		c.JSON(http.StatusUnsupportedMediaType, gin.H{
			"detail": fmt.Sprintf("Unsupported file type: %s", contentType),
		})
		return
	}

	rec := fabricateRecord(file.Filename, contentType)
	s.mu.Lock()
	s.records[rec.ID] = rec
	s.mu.Unlock()

	c.JSON(http.StatusCreated, rec)
}

func (s *store) updateReceipt(c *gin.Context) {
	var edits struct {
		Vendor    string   `json:"vendor"`
		Date      string   `json:"date"`
		Amount    float64  `json:"amount"`
		Category  string   `json:"category"`
		GSTIN     string   `json:"gstin"`
		TaxAmount *float64 `json:"tax_amount"`
	}
	if err := c.ShouldBindJSON(&edits); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request body"})
		return
	}
	if err := utils.ValidateGSTIN(edits.GSTIN); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	if err := utils.ValidateAmount(edits.Amount); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	id := c.Param("id")
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": fmt.Sprintf("Receipt %s not found", id)})
		return
	}

	rec.Vendor = edits.Vendor
	rec.Date = edits.Date
	rec.Amount = edits.Amount
	rec.Category = edits.Category
	rec.GSTIN = edits.GSTIN
	if edits.TaxAmount != nil {
		rec.TaxAmount = *edits.TaxAmount
	}
	rec.Status = receipt.StatusApproved.String()
	s.records[id] = rec

	c.JSON(http.StatusOK, rec)
}

// fabricateRecord mimics the backend's extraction output. The vendor is
// derived from the filename so runs are distinguishable; a deterministic
// slice of uploads comes back with fields missing, exercising the review
// fallbacks.
func fabricateRecord(filename, contentType string) receipt.Record {
	id := uuid.New().String()

	vendor := strings.TrimSuffix(filename, filepath.Ext(filename))
	vendor = utils.SanitizeString(strings.ReplaceAll(vendor, "_", " "))

	rec := receipt.Record{
		ID:        id,
		Vendor:    vendor,
		Date:      time.Now().Format("2006-01-02"),
		Amount:    149.50,
		Currency:  receipt.DefaultCurrency,
		Category:  receipt.CategoryUncategorized.String(),
		Status:    receipt.StatusPending.String(),
		CreatedAt: time.Now().Format(time.RFC3339),
		Filename:  filename,
		MimeType:  contentType,
	}

	// Roughly one in four uploads loses its extracted fields.
	if id[0] <= '3' {
		rec.Vendor = ""
		rec.Date = "1970-01-01"
		rec.Amount = 0
	}
	return rec
}

func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)))
	}
}

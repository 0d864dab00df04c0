package http

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/24kool/ttb-label-verification/internal/domain"
)

// Verifier is the slice of the verification service the handlers need.
type Verifier interface {
	Verify(ctx context.Context, image []byte, form *domain.FormFields) (*domain.VerificationResponse, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	verifier Verifier
}

// NewHandler creates a new HTTP handler
func NewHandler(verifier Verifier) *Handler {
	return &Handler{verifier: verifier}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "ttb-label-verification",
		"version": "1.0.0",
	})
}

// VerifyLabel handles a multipart verification request: one or more label
// images under "images" plus the form fields as regular form values. Only the
// first image is verified; additional files are accepted and ignored so batch
// clients do not get rejected.
func (h *Handler) VerifyLabel(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form: " + err.Error()})
		return
	}

	files := form.File["images"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one image is required under field 'images'"})
		return
	}

	file, err := files[0].Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unable to read uploaded image"})
		return
	}
	image, err := io.ReadAll(file)
	file.Close()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unable to read uploaded image"})
		return
	}

	fields := &domain.FormFields{
		Brand:  c.PostForm("brand"),
		Type:   c.PostForm("type"),
		ABV:    c.PostForm("abv"),
		Volume: c.PostForm("volume"),
	}

	response, err := h.verifier.Verify(c.Request.Context(), image, fields)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logrus.WithError(err).Error("verification failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, response)
}

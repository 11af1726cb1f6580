package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/maxborn/loan_management_app/internal/core/ports/services"
	"github.com/maxborn/loan_management_app/internal/middleware"
	"github.com/maxborn/loan_management_app/internal/platform/config"
)

// uploadHandler handles document uploads (KYC scans, photos, payment
// proofs). The returned reference is what callers store on loan and
// directory records.
type uploadHandler struct {
	storage       portssvc.FileStorage
	maxUploadSize int64
}

func newUploadHandler(storage portssvc.FileStorage, cfg *config.Config) *uploadHandler {
	return &uploadHandler{storage: storage, maxUploadSize: cfg.MaxUploadSize}
}

// registerUploadRoutes registers the document upload/download routes.
func registerUploadRoutes(rg *gin.RouterGroup, storage portssvc.FileStorage, cfg *config.Config) {
	h := newUploadHandler(storage, cfg)

	uploads := rg.Group("/uploads")
	{
		uploads.POST("/:category", h.upload)
		uploads.GET("/*ref", h.download)
	}
}

// upload godoc
// @Summary Upload a document
// @Description Stores an uploaded document under the given category and returns the reference to store on the owning record.
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Param category path string true "Document category (kyc, proofs, photos)"
// @Param file formData file true "Document file"
// @Success 201 {object} map[string]string
// @Failure 400 {object} ErrorResponse
// @Failure 413 {object} ErrorResponse
// @Security BearerAuth
// @Router /uploads/{category} [post]
func (h *uploadHandler) upload(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing file field"})
		return
	}
	if header.Size > h.maxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "File exceeds the upload size limit"})
		return
	}

	f, err := header.Open()
	if err != nil {
		logger.Error("Failed to open uploaded file", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to read upload"})
		return
	}
	defer f.Close()

	ref, err := h.storage.Save(c.Request.Context(), c.Param("category"), header.Filename, f)
	if err != nil {
		logger.Error("Failed to store uploaded file", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to store upload"})
		return
	}

	logger.Info("Document uploaded", slog.String("ref", ref), slog.Int64("size", header.Size))
	c.JSON(http.StatusCreated, gin.H{"ref": ref})
}

// download godoc
// @Summary Download a document
// @Description Streams back a previously uploaded document by its reference.
// @Tags uploads
// @Produce octet-stream
// @Param ref path string true "Document reference"
// @Success 200 {file} binary
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /uploads/{ref} [get]
func (h *uploadHandler) download(c *gin.Context) {
	ref := c.Param("ref")
	if len(ref) > 0 && ref[0] == '/' {
		ref = ref[1:]
	}

	rc, err := h.storage.Open(c.Request.Context(), ref)
	if err != nil {
		respondWithError(c, err, "Failed to open document")
		return
	}
	defer rc.Close()

	c.Header("Content-Type", "application/octet-stream")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to stream document", slog.String("error", err.Error()))
	}
}

package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/finledger/transactions-api/internal/cqrs"
	"github.com/finledger/transactions-api/internal/middleware"
	"github.com/finledger/transactions-api/internal/models"
	"github.com/gin-gonic/gin"
)

// ImageCommander defines the write-side operations used by ImageHandler.
type ImageCommander interface {
	UploadImage(ctx context.Context, cmd cqrs.UploadImageCommand) (*models.Image, error)
}

// ImageQuerier defines the read-side operations used by ImageHandler.
type ImageQuerier interface {
	ListImages(cqrs.ListImagesQuery) ([]models.Image, error)
}

type ImageHandler struct {
	commands ImageCommander
	queries  ImageQuerier
	maxBytes int64
}

func NewImageHandler(commands ImageCommander, queries ImageQuerier, maxBytes int64) *ImageHandler {
	return &ImageHandler{commands: commands, queries: queries, maxBytes: maxBytes}
}

func (h *ImageHandler) UploadImage(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "No file provided")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to read file")
		return
	}
	defer file.Close()

	// Read at most one byte over the ceiling; the extra byte lets the
	// policy check report an oversized payload without buffering all of it.
	data, err := io.ReadAll(io.LimitReader(file, h.maxBytes+1))
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to read file")
		return
	}

	image, err := h.commands.UploadImage(c, cqrs.UploadImageCommand{
		UserID:  principal.ID,
		Data:    data,
		Caption: c.PostForm("caption"),
	})
	if err != nil {
		switch err.Error() {
		case "unsupported image type":
			middleware.RespondWithError(c, http.StatusBadRequest, "Only JPG and PNG images are allowed")
		case "file too large":
			middleware.RespondWithError(c, http.StatusBadRequest, "File is too large")
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, "Image upload failed")
		}
		return
	}

	c.JSON(http.StatusCreated, image)
}

func (h *ImageHandler) ListImages(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	images, err := h.queries.ListImages(cqrs.ListImagesQuery{UserID: principal.ID})
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to list images")
		return
	}
	if images == nil {
		images = []models.Image{}
	}

	c.JSON(http.StatusOK, images)
}

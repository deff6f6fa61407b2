package command

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/finledger/transactions-api/internal/cqrs"
	"github.com/finledger/transactions-api/internal/events"
	"github.com/finledger/transactions-api/internal/models"
	"github.com/finledger/transactions-api/internal/repository"
	"github.com/finledger/transactions-api/internal/upload"
)

// ImageCommandService runs the upload pipeline: policy check, object-storage
// upload, then the database link. The external call happens before any store
// write and never inside a store transaction.
type ImageCommandService struct {
	imageRepo *repository.ImageRepository
	uploader  upload.Uploader
	policy    upload.Policy
	publisher *events.Publisher
}

func NewImageCommandService(
	imageRepo *repository.ImageRepository,
	uploader upload.Uploader,
	policy upload.Policy,
	publisher *events.Publisher,
) *ImageCommandService {
	return &ImageCommandService{
		imageRepo: imageRepo,
		uploader:  uploader,
		policy:    policy,
		publisher: publisher,
	}
}

func (s *ImageCommandService) UploadImage(ctx context.Context, cmd cqrs.UploadImageCommand) (*models.Image, error) {
	if err := s.policy.Check(cmd.Data); err != nil {
		return nil, err
	}

	url, err := s.uploader.Upload(ctx, cmd.Data)
	if err != nil {
		// Upstream details stay in the log; the caller gets a generic failure.
		log.Printf("Image upload to object storage failed: %v", err)
		return nil, fmt.Errorf("upload failed")
	}

	image := &models.Image{
		UserID:   cmd.UserID,
		ImageURL: url,
		Caption:  cmd.Caption,
		Created:  time.Now().UTC(),
	}
	if err := s.imageRepo.Create(image); err != nil {
		return nil, err
	}

	if err := s.publisher.Publish(ctx, events.ImageEventsStream, events.ImageUploaded, events.ImageUploadedEvent{
		ImageID:  image.ID,
		UserID:   image.UserID,
		ImageURL: image.ImageURL,
	}); err != nil {
		log.Printf("Failed to publish image.uploaded event: %v", err)
	}
	return image, nil
}

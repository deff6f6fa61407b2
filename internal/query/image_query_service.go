package query

import (
	"github.com/finledger/transactions-api/internal/cqrs"
	"github.com/finledger/transactions-api/internal/models"
	"github.com/finledger/transactions-api/internal/repository"
)

// ImageQueryService serves image listings. Every listing is scoped to the
// requesting principal; there is deliberately no admin-wide view.
type ImageQueryService struct {
	imageRepo *repository.ImageRepository
}

func NewImageQueryService(imageRepo *repository.ImageRepository) *ImageQueryService {
	return &ImageQueryService{imageRepo: imageRepo}
}

func (s *ImageQueryService) ListImages(q cqrs.ListImagesQuery) ([]models.Image, error) {
	return s.imageRepo.ListByUserID(q.UserID)
}

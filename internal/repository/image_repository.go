package repository

import (
	"database/sql"
	"fmt"

	"github.com/finledger/transactions-api/internal/models"
)

type ImageRepository struct {
	db *sql.DB
}

func NewImageRepository(db *sql.DB) *ImageRepository {
	return &ImageRepository{db: db}
}

func (r *ImageRepository) Create(image *models.Image) error {
	query := `
		INSERT INTO images (user_id, image_url, caption, created)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.db.QueryRow(query,
		image.UserID, image.ImageURL, nullString(image.Caption), image.Created,
	).Scan(&image.ID)
	if err != nil {
		return fmt.Errorf("failed to create image: %w", err)
	}
	return nil
}

// ListByUserID returns the user's images, newest first.
func (r *ImageRepository) ListByUserID(userID int64) ([]models.Image, error) {
	query := `
		SELECT id, user_id, image_url, caption, created
		FROM images
		WHERE user_id = $1
		ORDER BY created DESC
	`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	defer rows.Close()

	var images []models.Image
	for rows.Next() {
		var image models.Image
		var caption sql.NullString
		if err := rows.Scan(&image.ID, &image.UserID, &image.ImageURL, &caption, &image.Created); err != nil {
			return nil, fmt.Errorf("failed to scan image: %w", err)
		}
		if caption.Valid {
			image.Caption = caption.String
		}
		images = append(images, image)
	}
	return images, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}

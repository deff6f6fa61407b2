package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/finledger/transactions-api/internal/models"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a user with its derived slug in a single statement. The id
// is reserved from the sequence first so the slug can be written atomically
// with the row — no blank-slug state ever exists.
func (r *UserRepository) Create(user *models.User) error {
	var id int64
	if err := r.db.QueryRow(`SELECT nextval(pg_get_serial_sequence('users', 'id'))`).Scan(&id); err != nil {
		return fmt.Errorf("failed to reserve user id: %w", err)
	}
	user.ID = id
	user.Slug = fmt.Sprintf("user_%d", id)

	query := `
		INSERT INTO users (id, username, email, password, admin, created, slug)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(query,
		user.ID, user.Username, user.Email, user.PasswordHash,
		user.Admin, user.Created, user.Slug,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("duplicate user")
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByUsername(username string) (*models.User, error) {
	return r.getOne(`SELECT id, username, email, password, admin, created, slug FROM users WHERE username = $1`, username)
}

func (r *UserRepository) GetByID(id int64) (*models.User, error) {
	return r.getOne(`SELECT id, username, email, password, admin, created, slug FROM users WHERE id = $1`, id)
}

func (r *UserRepository) GetBySlug(slug string) (*models.User, error) {
	return r.getOne(`SELECT id, username, email, password, admin, created, slug FROM users WHERE slug = $1`, slug)
}

func (r *UserRepository) getOne(query string, arg any) (*models.User, error) {
	var user models.User
	err := r.db.QueryRow(query, arg).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.Admin, &user.Created, &user.Slug,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) List() ([]models.User, error) {
	rows, err := r.db.Query(`SELECT id, username, email, password, admin, created, slug FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(
			&user.ID, &user.Username, &user.Email, &user.PasswordHash,
			&user.Admin, &user.Created, &user.Slug,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	return users, nil
}

// Exists reports whether a user row with the given id is present.
func (r *UserRepository) Exists(id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return exists, nil
}

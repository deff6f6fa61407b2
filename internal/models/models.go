package models

import "time"

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Admin        bool      `json:"admin"`
	Created      time.Time `json:"created"`
	Slug         string    `json:"slug"`
}

type Account struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	AccountName string    `json:"account_name"`
	Balance     float64   `json:"balance"`
	Created     time.Time `json:"created"`
	Slug        string    `json:"slug"`
}

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type PaymentMethod struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Budget struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	Category     string    `json:"category"`
	MonthlyLimit float64   `json:"monthly_limit"`
	Created      time.Time `json:"created"`
	Slug         string    `json:"slug"`
}

// Transaction is identified externally by its slug; the numeric id stays an
// internal sequence number.
type Transaction struct {
	ID              int64     `json:"id"`
	AccountID       int64     `json:"account_id"`
	UserID          int64     `json:"user_id"`
	PaymentMethodID int64     `json:"payment_method_id"`
	TransactionType string    `json:"transaction_type"`
	Category        string    `json:"category"`
	Amount          float64   `json:"amount"`
	Description     string    `json:"description"`
	Slug            string    `json:"slug"`
	Created         time.Time `json:"created"`
}

type Image struct {
	ID       int64     `json:"id"`
	UserID   int64     `json:"user_id"`
	ImageURL string    `json:"image_url"`
	Caption  string    `json:"caption,omitempty"`
	Created  time.Time `json:"created"`
}

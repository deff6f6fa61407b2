package cqrs

type RegisterUserCommand struct {
	Username string
	Email    string
	Password string
}

type CreateTransactionCommand struct {
	AccountID       int64
	UserID          int64
	PaymentMethodID int64
	TransactionType string
	Category        string
	Amount          float64
	Description     string
}

type UpdateTransactionCommand struct {
	Slug            string
	AccountID       int64
	UserID          int64
	PaymentMethodID int64
	TransactionType string
	Category        string
	Amount          float64
	Description     string
}

type DeleteTransactionCommand struct {
	Slug string
}

type UploadImageCommand struct {
	UserID  int64
	Data    []byte
	Caption string
}

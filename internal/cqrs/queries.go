package cqrs

// ---------- Auth queries ----------

// LoginQuery authenticates a username/password pair.
type LoginQuery struct {
	Username string
	Password string
}

// ---------- Transaction queries ----------

// GetTransactionQuery fetches a single transaction by slug.
type GetTransactionQuery struct {
	Slug string
}

// ListTransactionsQuery pages through the ledger, scoped to the requesting
// principal unless it is an admin.
type ListTransactionsQuery struct {
	UserID int64
	Admin  bool
	Limit  int
	Offset int
}

// LatestTransactionsQuery fetches the most recent transactions, role-scoped.
type LatestTransactionsQuery struct {
	UserID int64
	Admin  bool
}

// ---------- Account queries ----------

// ListAccountsQuery fetches accounts visible to the requesting principal.
type ListAccountsQuery struct {
	UserID int64
	Admin  bool
}

// ---------- Image queries ----------

// ListImagesQuery fetches the requesting principal's own images.
type ListImagesQuery struct {
	UserID int64
}

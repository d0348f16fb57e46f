package domain

// Todo is a user-scoped task item.
type Todo struct {
	Syncable
	UserID    string `json:"user_id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

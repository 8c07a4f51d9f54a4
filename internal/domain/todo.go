package domain

import "time"

// Todo is a task owned by exactly one user. Only the owner may update or
// delete it; reads are unrestricted.
type Todo struct {
	ID         int64
	Name       string
	Amount     int64
	CategoryID int64
	UserID     int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Category groups todos. Categories are shared and carry no owner.
type Category struct {
	ID        int64
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

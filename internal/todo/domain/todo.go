package domain

import (
	"time"

	userdomain "github.com/semenovda/todo-vault/internal/user/domain"
)

type ID string

// Todo ids are chosen by the client and unique across the whole store, not
// per owner. Only Completed is mutable, and only by the owner.
type Todo struct {
	ID        ID
	OwnerID   userdomain.ID
	Text      string
	Completed bool
	CreatedAt time.Time
}

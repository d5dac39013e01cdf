package models

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/myrtti/sightline/internal/errors"
)

type User struct {
	ID          []byte `db:"id"`
	DisplayName string `db:"display_name"`
}

func NewUser() (*User, error) {
	id := make([]byte, 64)
	if _, err := rand.Read(id); err != nil {
		return nil, errors.Wrap(err, "generate user id")
	}
	user := User{
		DisplayName: fmt.Sprintf("Anonymous user created at %s", time.Now().Format(time.RFC3339)),
		ID:          id,
	}

	return &user, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"notefold-server/internal/domain"

	"github.com/go-kivik/kivik/v4"
)

type UserRepository interface {
	Create(user *domain.User) error
	FindByEmail(email string) (*domain.User, error)
	EmailExists(email string) (bool, error)
}

type userRepository struct {
	client *kivik.Client
	dbName string
}

func NewUserRepository(client *kivik.Client, dbName string) UserRepository {
	return &userRepository{
		client: client,
		dbName: dbName,
	}
}

// userDocID keys user documents by email, so a concurrent duplicate signup
// loses the insert race with a conflict instead of silently creating a
// second account.
func userDocID(email string) string {
	return fmt.Sprintf("user:%s", email)
}

func (r *userRepository) Create(user *domain.User) error {
	db := r.client.DB(r.dbName)

	_, err := db.Put(context.Background(), userDocID(user.Email), user)
	if err != nil {
		if translated := translateKivikError(err); errors.Is(translated, ErrConflict) {
			return ErrConflict
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *userRepository) FindByEmail(email string) (*domain.User, error) {
	db := r.client.DB(r.dbName)

	row := db.Get(context.Background(), userDocID(email))

	var user domain.User
	if err := row.ScanDoc(&user); err != nil {
		if translated := translateKivikError(err); errors.Is(translated, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	return &user, nil
}

func (r *userRepository) EmailExists(email string) (bool, error) {
	_, err := r.FindByEmail(email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

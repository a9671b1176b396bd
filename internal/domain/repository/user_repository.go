package repository

import "github.com/thierrypro75/gosbi-backend/internal/domain/entity"

// UserRepository définit le port de persistance des utilisateurs.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
}

package repository

import "github.com/thierrypro75/gosbi-backend/internal/domain/entity"

// ProductRepository définit le port de persistance du catalogue produits (DIP).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	List(limit, offset int) ([]*entity.Product, error)
	Update(product *entity.Product) error
	Delete(id string) error
}

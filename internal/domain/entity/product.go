package entity

import "time"

// Product représente un produit du catalogue. Les quantités et les prix
// vivent au niveau des présentations, jamais ici.
type Product struct {
	ID          string
	Name        string
	Description string
	Category    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

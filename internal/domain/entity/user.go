package entity

import "time"

// Rôles valides pour User.
const (
	RoleAdmin   = "admin"
	RoleGerant  = "gerant"
	RoleVendeur = "vendeur"
)

// User représente un utilisateur du système.
type User struct {
	ID           string
	Email        string
	PasswordHash string // hash bcrypt, jamais en clair dans le domaine après persistance
	Name         string
	Role         string // admin, gerant, vendeur
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

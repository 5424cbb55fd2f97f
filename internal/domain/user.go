package domain

import "time"

// User es el registro persistido en el directorio de usuarios.
type User struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	EmailLower   string    `json:"emailLower"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NewUser contiene los campos que envía el cliente; el store asigna ID y CreatedAt.
type NewUser struct {
	FirstName    string
	LastName     string
	Email        string
	EmailLower   string
	PasswordHash string
}

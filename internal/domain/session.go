package domain

import "time"

// Session es la prueba local de un login previo. Solo controla qué vistas
// se renderizan; ningún servidor la acepta como credencial.
type Session struct {
	UserID     string    `json:"userId"`
	Email      string    `json:"email"`
	FirstName  string    `json:"firstName"`
	SignedInAt time.Time `json:"signedInAt"`
}

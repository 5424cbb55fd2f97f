package session

import "devauth/internal/domain"

// LoginPath es el destino de redirección cuando no hay sesión.
const LoginPath = "/login"

// Gate lee la sesión para una vista protegida. Con ok=false la vista debe
// redirigir a LoginPath y no renderizar nada más.
func Gate(store Store) (domain.Session, bool) {
	if store == nil {
		return domain.Session{}, false
	}
	return store.Read()
}

// DisplayName devuelve el nombre a mostrar: firstName o, si falta, el email.
func DisplayName(s domain.Session) string {
	if s.FirstName != "" {
		return s.FirstName
	}
	return s.Email
}

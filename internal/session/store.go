// Package session guarda la sesión del cliente en un único slot local
// (archivo, cookie o memoria) y decide el acceso a las vistas protegidas.
package session

import (
	"encoding/json"
	"strings"

	"devauth/internal/domain"
)

// DefaultSlot es el nombre del slot donde vive la sesión serializada.
const DefaultSlot = "user_data"

// Store persiste, lee y borra la sesión actual. Read nunca falla: datos
// ausentes o corruptos equivalen a "sin sesión". No hay locking entre
// escritores; gana el último.
type Store interface {
	Save(s domain.Session) error
	Read() (domain.Session, bool)
	Clear() error
}

func encode(s domain.Session) ([]byte, error) {
	return json.Marshal(s)
}

func decode(data []byte) (domain.Session, bool) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return domain.Session{}, false
	}
	var s domain.Session
	if err := json.Unmarshal([]byte(trimmed), &s); err != nil {
		return domain.Session{}, false
	}
	if s.UserID == "" {
		return domain.Session{}, false
	}
	return s, true
}

package session

import (
	"sync"

	"devauth/internal/domain"
)

// MemoryStore mantiene el slot en memoria; guarda la forma serializada
// para que Read se comporte igual que los stores persistentes.
type MemoryStore struct {
	mu   sync.Mutex
	data []byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Save(s domain.Session) error {
	data, err := encode(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = data
	return nil
}

func (m *MemoryStore) Read() (domain.Session, bool) {
	m.mu.Lock()
	data := m.data
	m.mu.Unlock()
	return decode(data)
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = nil
	return nil
}

// SetRaw reemplaza el contenido crudo del slot.
func (m *MemoryStore) SetRaw(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
}

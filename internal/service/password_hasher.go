package service

import "golang.org/x/crypto/bcrypt"

// DefaultHashCost es el work factor de bcrypt para contraseñas nuevas.
const DefaultHashCost = 10

// maxPasswordBytes es lo que bcrypt mira de la contraseña; el resto se ignora.
const maxPasswordBytes = 72

// PasswordHasher hashea y verifica contraseñas en texto plano.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// BcryptHasher produce tokens autodescriptivos ($2a$<cost>$<salt><digest>).
// Es seguro para uso concurrente.
type BcryptHasher struct {
	cost  int
	dummy []byte
}

// NewBcryptHasher genera ya el hash de VerifyDummy para que el primer login
// con email inexistente no pague un GenerateFromPassword extra.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultHashCost
	}
	dummy, _ := bcrypt.GenerateFromPassword([]byte("dummy-password-for-timing"), cost)
	return &BcryptHasher{cost: cost, dummy: dummy}
}

// Cost devuelve el work factor configurado.
func (h *BcryptHasher) Cost() int {
	return h.cost
}

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	hashBytes, err := bcrypt.GenerateFromPassword(truncatePassword(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashBytes), nil
}

// Verify compara en tiempo constante. Un hash malformado cuenta como no coincidente.
func (h *BcryptHasher) Verify(plaintext, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), truncatePassword(plaintext)) == nil
}

// VerifyDummy gasta lo mismo que una verificación real contra un hash fijo.
// Se usa cuando el email no existe para no distinguirlo por tiempo.
func (h *BcryptHasher) VerifyDummy(plaintext string) {
	_ = bcrypt.CompareHashAndPassword(h.dummy, truncatePassword(plaintext))
}

// truncatePassword corta a 72 bytes igual en Hash y Verify, así una
// contraseña larga se registra y luego valida en vez de fallar en bcrypt.
func truncatePassword(plaintext string) []byte {
	b := []byte(plaintext)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}

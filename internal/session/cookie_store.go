package session

import (
	"encoding/base64"
	"net/http"
	"time"

	"devauth/internal/domain"
)

// cookieMaxAge es el máximo que aceptan los navegadores; la sesión no expira
// por sí sola, solo con Clear.
const cookieMaxAge = 400 * 24 * time.Hour

// CookieOptions configura la cookie que hace de slot en el navegador.
type CookieOptions struct {
	Name   string
	Path   string
	Secure bool
}

// CookieStore usa una cookie del request como slot local del navegador.
// Se construye por request; Read refleja lo escrito en el mismo request.
type CookieStore struct {
	w    http.ResponseWriter
	r    *http.Request
	opts CookieOptions

	written bool
	current []byte
}

func NewCookieStore(w http.ResponseWriter, r *http.Request, opts CookieOptions) *CookieStore {
	if opts.Name == "" {
		opts.Name = DefaultSlot
	}
	if opts.Path == "" {
		opts.Path = "/"
	}
	return &CookieStore{w: w, r: r, opts: opts}
}

func (c *CookieStore) Save(s domain.Session) error {
	data, err := encode(s)
	if err != nil {
		return err
	}
	http.SetCookie(c.w, c.cookie(base64.RawURLEncoding.EncodeToString(data), int(cookieMaxAge.Seconds())))
	c.written = true
	c.current = data
	return nil
}

func (c *CookieStore) Read() (domain.Session, bool) {
	if c.written {
		return decode(c.current)
	}
	if c.r == nil {
		return domain.Session{}, false
	}
	ck, err := c.r.Cookie(c.opts.Name)
	if err != nil {
		return domain.Session{}, false
	}
	data, err := base64.RawURLEncoding.DecodeString(ck.Value)
	if err != nil {
		return domain.Session{}, false
	}
	return decode(data)
}

func (c *CookieStore) Clear() error {
	http.SetCookie(c.w, c.cookie("", -1))
	c.written = true
	c.current = nil
	return nil
}

func (c *CookieStore) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     c.opts.Name,
		Value:    value,
		Path:     c.opts.Path,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

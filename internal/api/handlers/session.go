package handlers

import (
	"strconv"
	"sync"

	"github.com/gofiber/fiber/v2"

	"github.com/amaumene/cinemahome/internal/session"
)

// SessionGuard serialises access to the single session served over HTTP
type SessionGuard struct {
	mu   sync.Mutex
	sess *session.Session
}

func NewSessionGuard(sess *session.Session) *SessionGuard {
	return &SessionGuard{sess: sess}
}

// Do runs fn while holding the session lock
func (g *SessionGuard) Do(fn func(sess *session.Session) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return fn(g.sess)
}

// Location returns the selected cinema
func (g *SessionGuard) Location() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sess.Location
}

func paramID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id < 1 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

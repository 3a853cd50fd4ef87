// Package backend stands in for the normal processing an admitted
// introduction request is forwarded to.
package backend

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	mrand "math/rand/v2"
	"sync"

	"github.com/dayanaadylkhanova/intro-pow/internal/entity"
)

// CookieLen is the size of the rendezvous cookie a client sends with its
// introduction request.
const CookieLen = 20

// Rendezvous answers an introduction by naming the rendezvous relay the
// service will meet the client at.
type Rendezvous struct {
	relays []string

	mu sync.Mutex
	r  *mrand.Rand
}

func NewRendezvous() *Rendezvous {
	return &Rendezvous{
		relays: []string{
			"relay-amsterdam",
			"relay-frankfurt",
			"relay-montreal",
			"relay-reykjavik",
			"relay-singapore",
		},
	}
}

// NewRendezvousWith доп. конструктор для тестов/DI
func NewRendezvousWith(relays []string, r *mrand.Rand) *Rendezvous {
	return &Rendezvous{relays: relays, r: r}
}

func (b *Rendezvous) pick() string {
	if len(b.relays) == 0 {
		return ""
	}
	if b.r != nil {
		b.mu.Lock()
		defer b.mu.Unlock()
		return b.relays[b.r.IntN(len(b.relays))]
	}
	return b.relays[mrand.IntN(len(b.relays))]
}

// Handle expects the payload to be exactly the rendezvous cookie.
func (b *Rendezvous) Handle(ctx context.Context, payload []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(payload) != CookieLen {
		return nil, fmt.Errorf("%w: rendezvous cookie is %d bytes, want %d", entity.ErrMalformed, len(payload), CookieLen)
	}
	relay := b.pick()
	if relay == "" {
		return nil, errors.New("no rendezvous relay available")
	}
	return fmt.Appendf(nil, "rendezvous %s %s", relay, hex.EncodeToString(payload)), nil
}

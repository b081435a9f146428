package round

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"

	"github.com/winpay/platform/internal/domain"
)

// Generator derives round outcomes from a server-held secret seed. The
// outcome for a (mode, period) pair is fixed the moment the seed is chosen,
// so no per-round state is stored and every node computes the same result.
type Generator struct {
	seed []byte
}

// NewGenerator creates an outcome generator from the server seed.
func NewGenerator(seed string) *Generator {
	return &Generator{seed: []byte(seed)}
}

// Outcome returns the winning number (0-9) and its colors for a round.
func (g *Generator) Outcome(mode domain.GameMode, periodID string) (int, []domain.Color) {
	mac := hmac.New(sha256.New, g.seed)
	mac.Write([]byte(string(mode) + ":" + periodID))
	sum := mac.Sum(nil)
	n := int(binary.BigEndian.Uint64(sum[:8]) % 10)
	return n, domain.ColorsFor(n)
}

// Digest returns the hex HMAC digest a round outcome was derived from,
// for audit trails.
func (g *Generator) Digest(mode domain.GameMode, periodID string) string {
	mac := hmac.New(sha256.New, g.seed)
	mac.Write([]byte(string(mode) + ":" + periodID))
	return hex.EncodeToString(mac.Sum(nil))
}

package checkout

import (
	"math/big"
	"strings"

	"github.com/google/uuid"
)

const orderIDLength = 9

// NewOrderID returns an opaque 9-character upper-case base-36 id.
// Uniqueness is for display only.
func NewOrderID() string {
	id := uuid.New()
	s := strings.ToUpper(new(big.Int).SetBytes(id[:]).Text(36))
	if len(s) < orderIDLength {
		s = strings.Repeat("0", orderIDLength-len(s)) + s
	}
	return s[len(s)-orderIDLength:]
}

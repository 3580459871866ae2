package id

import (
	"encoding/hex"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// NewID32 returns exactly 32 hex characters (no separators/prefixes).
func NewID32() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}

// WithPrefix returns "<prefix>-<32 hex>", e.g. "notif-3f9a…".
func WithPrefix(prefix string) string {
	return prefix + "-" + NewID32()
}

// NewLCID returns "LC-<unix millis>-<6 hex>". The millis part keeps ids
// roughly sortable by creation time; the suffix keeps same-millisecond ids apart.
func NewLCID(now time.Time) string {
	return "LC-" + strconv.FormatInt(now.UnixMilli(), 10) + "-" + NewID32()[:6]
}

// NewReference returns the human readable importer reference "IMP-<unix millis>".
func NewReference(now time.Time) string {
	return "IMP-" + strconv.FormatInt(now.UnixMilli(), 10)
}

package gtd

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// IDGenerator returns a new opaque task id. Ids only need to be unique
// within one collection.
type IDGenerator func(now time.Time) string

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewID is the default generator: the base-36 millisecond timestamp followed
// by four random base-36 characters.
func NewID(now time.Time) string {
	var b strings.Builder
	b.WriteString(strconv.FormatInt(now.UnixMilli(), 36))
	for range 4 {
		b.WriteByte(base36[rand.IntN(len(base36))])
	}
	return b.String()
}

// NewUUID ignores the clock and returns a random UUID.
func NewUUID(time.Time) string {
	return uuid.NewString()
}

// GeneratorFor maps the config id_scheme to a generator.
func GeneratorFor(scheme string) IDGenerator {
	switch strings.ToLower(scheme) {
	case "uuid":
		return NewUUID
	default:
		return NewID
	}
}

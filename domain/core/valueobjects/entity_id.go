package valueobjects

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// IDPrefix marks which collection an identifier belongs to
type IDPrefix string

const (
	CharacterPrefix    IDPrefix = "char_"
	RelationshipPrefix IDPrefix = "rel_"
	MemoryPrefix       IDPrefix = "mem_"
	MessagePrefix      IDPrefix = "msg_"
)

// IDGenerator produces fresh identifiers for a prefix
type IDGenerator func(prefix IDPrefix) string

// NewEntityID creates a new random identifier carrying the given prefix
func NewEntityID(prefix IDPrefix) string {
	return string(prefix) + uuid.New().String()
}

// ParseEntityID checks that id carries prefix and is non-empty after it.
// Seeded records use short suffixes (char_001), so the suffix is not required to be a UUID.
func ParseEntityID(prefix IDPrefix, id string) (string, error) {
	if id == "" {
		return "", errors.New("id cannot be empty")
	}
	if !strings.HasPrefix(id, string(prefix)) || len(id) == len(prefix) {
		return "", errors.New("id must start with " + string(prefix))
	}
	return id, nil
}

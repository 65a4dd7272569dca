// ABOUTME: Local-origin identifier scheme for offline-created records.
// ABOUTME: Prefixed IDs cannot collide with backend-issued UUIDs.
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LocalIDPrefix marks identifiers issued by the local store. Records
// created offline keep this prefix so they stay distinguishable from
// backend rows if the two stores are reconciled by hand later.
const LocalIDPrefix = "local_"

// NewLocalID returns a fresh locally-issued identifier.
func NewLocalID() string {
	return fmt.Sprintf("%s%d_%s", LocalIDPrefix, time.Now().UnixMilli(), uuid.NewString()[:8])
}

// IsLocalID reports whether id was issued by the local store.
func IsLocalID(id string) bool {
	return strings.HasPrefix(id, LocalIDPrefix)
}

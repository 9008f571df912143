// Package itemid derives deterministic item IDs for sources that do not carry one.
package itemid

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// namespace scopes derived IDs to this module.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("storefront:item"))

// Derive returns a stable UUIDv5 for the item at position in collection.
// The same (collection, title, position) always yields the same ID.
func Derive(collection, title string, position int) string {
	name := strings.Join([]string{collection, strings.TrimSpace(title), strconv.Itoa(position)}, "\x00")
	return uuid.NewSHA1(namespace, []byte(name)).String()
}

// Valid reports whether id looks like a derived ID.
func Valid(id string) bool {
	u, err := uuid.Parse(id)
	return err == nil && u.Version() == 5
}

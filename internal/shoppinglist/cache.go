package shoppinglist

import "fmt"

// ItemCacheKey is the redis key for a list's cached item collection.
// Shared with the session completion path, which deletes fulfilled items.
func ItemCacheKey(listID string) string {
	return fmt.Sprintf("shoppinglist:items:%s", listID)
}

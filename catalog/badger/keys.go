package badger

import "strconv"

// Key prefixes for different document types
const (
	collectionPrefix = "col"
	itemPrefix       = "itm"
)

// makeCollectionKey generates the key of a collection document.
func makeCollectionKey(collectionID string) []byte {
	return []byte(collectionPrefix + ":" + collectionID)
}

// makeItemKey generates the key of an item document.
// Format: prefix:len(collection):collection:item
func makeItemKey(collectionID, itemID string) []byte {
	return append(makeItemPrefix(collectionID), itemID...)
}

// makeItemPrefix generates the key prefix shared by every item of a collection.
// The collection is length-prefixed so ids containing ':' cannot make one
// collection's prefix match another's keys.
func makeItemPrefix(collectionID string) []byte {
	return []byte(itemPrefix + ":" + strconv.Itoa(len(collectionID)) + ":" + collectionID + ":")
}

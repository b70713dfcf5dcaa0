// Package badger implements catalog.Client on top of a local BadgerDB directory.
//
// It lets populators run without a STAC API: collections and items are stored as their JSON
// documents, wrapped in a small binary envelope carrying the document digest and the time
// of the last write.
//
// Key layout:
//
//	col:{collection}          collection document
//	itm:{collection}:{item}   item document
package badger

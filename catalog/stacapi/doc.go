// Package stacapi implements catalog.Client against a STAC API that exposes the
// Transactions extension.
//
// Endpoints used:
//
//	POST /collections                          create a collection
//	PUT  /collections/{collection}             update a collection
//	GET  /collections/{collection}/items/{id}  item existence
//	POST /collections/{collection}/items      create an item
//	PUT  /collections/{collection}/items/{id}  replace an item
//
// Network errors, 5xx and 429 responses are retried with exponential backoff.
package stacapi

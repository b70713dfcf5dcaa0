// Package httpsession builds the HTTP session shared by every component of a populator run.
//
// One Session is created per run from Options (usually parsed from the request flags returned
// by Flags). The data source, the catalog client and the Marble registry lookup all issue
// their requests through Session.Client, so TLS settings, client certificates,
// authentication and timeouts apply uniformly. Close releases idle connections.
package httpsession

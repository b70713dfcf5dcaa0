package stacpopulator

// Version is the release version, overridden at build time with
// -ldflags "-X github.com/poiesic/stacpopulator.Version=...".
var Version = "0.1.0"

// UserAgent is sent with every HTTP request.
func UserAgent() string {
	return "stac-populator/" + Version
}

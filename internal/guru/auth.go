package guru

import (
	"encoding/base64"
	"net/http"
)

// Auth modes.
const (
	AuthModeUser       = "user"
	AuthModeCollection = "collection"
)

// Credentials select how requests authenticate. User mode signs in with a
// username and API token; collection mode with a collection id and its
// token.
type Credentials struct {
	Mode            string
	Username        string
	Password        string
	CollectionID    string
	CollectionToken string
}

// AuthHeader returns the Basic authorization and JSON accept headers for c.
func AuthHeader(c Credentials) http.Header {
	user, pass := c.Username, c.Password
	if c.Mode == AuthModeCollection {
		user, pass = c.CollectionID, c.CollectionToken
	}
	h := http.Header{}
	h.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(user+":"+pass)))
	h.Set("Accept", "application/json")
	return h
}

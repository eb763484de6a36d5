package client

import (
	"time"

	"memopad/token"
)

// Guard gates authenticated views on the locally cached session.
type Guard struct {
	Storage Storage
}

// Allow reports whether the cached session may enter protected views. The
// token is decoded without a signature check; the server still verifies it
// on every request. Expired or undecodable tokens clear the cached
// credentials on the way out.
func (g *Guard) Allow() bool {
	if g.Storage.Get(keyIsLogged) != "true" {
		return false
	}
	tok := g.Storage.Get(keyToken)
	if tok == "" {
		return false
	}

	claims, err := token.DecodeUnverified(tok)
	if err != nil {
		g.clear()
		return false
	}
	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		g.clear()
		return false
	}
	if claims.Email == "" {
		return false
	}
	return true
}

func (g *Guard) clear() {
	g.Storage.Delete(keyToken)
	g.Storage.Delete(keyIsLogged)
}

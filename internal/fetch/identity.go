package fetch

import (
	"math/rand/v2"
	"net/http"
)

// defaultUserAgents is the identity pool rotated across attempts
var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36",
	"Mozilla/5.0 (X11; Ubuntu; Linux x86_64; rv:125.0) Gecko/20100101 Firefox/125.0",
}

// identityPool hands out a random client identity per attempt
type identityPool struct {
	userAgents []string
}

func newIdentityPool(userAgents []string) *identityPool {
	if len(userAgents) == 0 {
		userAgents = defaultUserAgents
	}
	return &identityPool{userAgents: userAgents}
}

func (p *identityPool) pick() string {
	return p.userAgents[rand.IntN(len(p.userAgents))]
}

// apply sets the identity and the usual browser headers on req
func (p *identityPool) apply(req *http.Request) {
	req.Header.Set("User-Agent", p.pick())
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("DNT", "1")
}

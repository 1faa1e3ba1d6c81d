package web

// ServerConfig contains settings for running the HTTP server.
//
// The intended defaults differ per binary:
// - real device: :80
// - simulator:   :8080
type ServerConfig struct {
	ListenAddr string
	DevMode    bool
}

func (c ServerConfig) withDefaults(defaultListenAddr string) ServerConfig {
	if c.ListenAddr == "" {
		c.ListenAddr = defaultListenAddr
	}
	return c
}

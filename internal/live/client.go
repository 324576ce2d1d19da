package live

import (
	_ "embed"
	"net/http"
)

// ClientPath is where ClientHandler is expected to be mounted.
const ClientPath = "/_live/client.js"

//go:embed client.js
var clientJS []byte

// ClientHandler serves the browser client script.
func ClientHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		_, _ = w.Write(clientJS)
	})
}

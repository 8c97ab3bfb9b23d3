package websocket

import (
	"log/slog"
	"net/http"
	"net/url"

	ws "github.com/coder/websocket"
)

// OriginHosts converts allowed origins such as "http://localhost:5173" into
// the host patterns the websocket library matches against.
func OriginHosts(origins []string) []string {
	var hosts []string
	for _, o := range origins {
		u, err := url.Parse(o)
		if err != nil || u.Host == "" {
			continue
		}
		hosts = append(hosts, u.Host)
	}
	return hosts
}

// Handler upgrades the request and subscribes it to hub. Same-host origins
// are always accepted; cross-origin browsers must match origins.
func Handler(hub *Hub, origins []string, logger *slog.Logger) http.HandlerFunc {
	patterns := OriginHosts(origins)
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := ws.Accept(w, r, &ws.AcceptOptions{
			OriginPatterns: patterns,
		})
		if err != nil {
			logger.Warn("websocket accept", "error", err)
			return
		}

		NewClient(hub, conn).Run(r.Context())
	}
}

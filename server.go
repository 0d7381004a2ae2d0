package main

import (
	"encoding/json"
	"net"
	"net/http"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/skip2/go-qrcode"
)

const pairQRSize = 256

var uuidPathRe = regexp.MustCompile(`^/[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true // Non-browser clients don't send Origin
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return u.Host == r.Host
	},
}

func extractIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// SetupRoutes configures HTTP routes
func SetupRoutes(hub *Hub, clientDir string) *http.ServeMux {
	mux := http.NewServeMux()

	fs := http.FileServer(http.Dir(clientDir))
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache")
		// SPA: serve index.html for root and room id paths
		if r.URL.Path == "/" || uuidPathRe.MatchString(r.URL.Path) {
			http.ServeFile(w, r, filepath.Join(clientDir, "index.html"))
			return
		}
		fs.ServeHTTP(w, r)
	}))

	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		ip := extractIP(r)
		if !hub.CanAccept(ip) {
			http.Error(w, "too many connections", http.StatusServiceUnavailable)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			hub.log.Warn().Err(err).Str("ip", ip).Msg("upgrade error")
			return
		}

		hub.TrackConnect(ip)

		client := NewClient(hub, conn, ip)
		hub.register <- client

		go client.WritePump()
		go client.ReadPump()
	})

	// QR code a phone scans to pair as the room's controller. The caller must
	// present the pair token its display received on join.
	mux.HandleFunc("GET /pair/{file}", func(w http.ResponseWriter, r *http.Request) {
		file := r.PathValue("file")
		if !strings.HasSuffix(file, ".png") {
			http.NotFound(w, r)
			return
		}
		room, err := hub.rooms.GetRoom(strings.TrimSuffix(file, ".png"))
		if err != nil {
			http.NotFound(w, r)
			return
		}
		token := r.URL.Query().Get("t")
		if err := hub.auth.ValidatePairToken(token, room.ID); err != nil {
			http.Error(w, "invalid pair token", http.StatusForbidden)
			return
		}
		png, err := qrcode.Encode(hub.ControllerURL(room.ID, token), qrcode.Medium, pairQRSize)
		if err != nil {
			hub.log.Error().Err(err).Msg("encoding pair QR")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-store")
		w.Write(png)
	})

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "ok",
			"rooms":  hub.rooms.Count(),
			"conns":  hub.TotalConns(),
		})
	})

	return mux
}

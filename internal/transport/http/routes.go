package http

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var staticFiles embed.FS

// NewMux wires the quiz page, its websocket and image endpoints, and a health check.
func NewMux(ws *WSHandler) *http.ServeMux {
	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", ws.ServeWS)
	mux.HandleFunc("/image", ws.ServeImage)
	mux.Handle("/", http.FileServer(http.FS(static)))
	return mux
}

// Package media discovers recorded sessions in the server's media directory
// and serves their video and subtitle files.
package media

import (
	"fmt"
	"net/http"
	"os"
	"strings"
)

// ListBasenames returns the extension-stripped names of every .mp4 file in
// dir, in directory enumeration order. Each basename identifies one session,
// whose video and subtitle track share that name. Non-mp4 entries are
// ignored; duplicates are not filtered.
func ListBasenames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list media dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(strings.ToLower(name), ".mp4") {
			continue
		}
		names = append(names, name[:len(name)-len(".mp4")])
	}
	return names, nil
}

// Handler serves files from the media directory. Browsers load video across
// origins, so every response carries a permissive resource policy; the CORS
// headers themselves come from the server's middleware.
func Handler(dir string) http.Handler {
	fs := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cross-Origin-Resource-Policy", "cross-origin")
		fs.ServeHTTP(w, r)
	})
}

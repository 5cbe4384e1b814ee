// Package applog carries the teacher's emoji-prefixed log.Println/
// log.Printf startup narration forward, and promotes the original
// Python's bare print("[WARN] ...") per-query diagnostics (see
// _get_intermediate_stations) into the structured, returnable
// roundengine.Diagnostic records spec §4.4/§7 ask for — logged here, not
// just silently collected.
package applog

import (
	"log"

	"github.com/antigravity/transit-mc-router/internal/roundengine"
)

// Connected mirrors the teacher's "✅ Connected to PostGIS database".
func Connected(dsn string) {
	log.Println("✅ Connected to PostGIS database")
}

// Starting mirrors the teacher's "🚀 Server starting on port %s".
func Starting(port string) {
	log.Printf("🚀 Server starting on port %s", port)
}

// LoadFailed mirrors the teacher's main.go load-failure path, which
// fmt.Fprintf's to stderr and os.Exit(1)s; here it's routed through log
// so callers can decide whether to exit.
func LoadFailed(err error) {
	log.Printf("❌ Failed to load network catalog: %v", err)
}

// Diagnostics writes one line per round-engine diagnostic, the Go-side
// equivalent of the original's print("[WARN] ...") but structured and
// attributable to a station/round rather than a free-text string.
func Diagnostics(diags []roundengine.Diagnostic) {
	for _, d := range diags {
		log.Printf("[WARN] line=%s station=%s %s", d.Line, d.Station, d.Detail)
	}
}

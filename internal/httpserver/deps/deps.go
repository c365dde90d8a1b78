package deps

import (
	"context"
	"time"

	"github.com/kdbplan/kdbplan/internal/catalog"
	"github.com/kdbplan/kdbplan/internal/classroom"
	"github.com/kdbplan/kdbplan/internal/logger"
	"github.com/kdbplan/kdbplan/internal/planner"
)

// Pinger reports whether a remote store answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Logger         logger.Logger
	StartTime      time.Time
	Version        string
	Commit         string
	BuildDate      string
	GoVersion      string
	Engine         *planner.Engine    // bookmark document and derived views
	Catalog        *catalog.Index     // current course catalog
	Classrooms     *classroom.Service // imported classroom lookup
	Storage        string             // storage backend name, reported by /readyz
	Redis          Pinger             // nil unless Storage is "redis"
	AllowedHosts   []string           // Host headers allowed to access the server
	AllowedCIDRS   []string           // client IPs allowed to access the server
	TrustProxy     bool               // true if running behind a trusted reverse proxy
	ExportBaseURL  string             // export target, bookmarked codes are appended
	ReloadTrigger  chan struct{}      // Channel to trigger manual catalog reload
	ImportBurst    int                // classroom import rate limit burst
	ImportPerMin   int                // classroom import refill per minute
	MaxUploadBytes int64              // multipart size cap for classroom import
}

package version

import (
	"runtime"
	"time"
)

// Set at build time through -ldflags "-X".
var (
	Version   = "dev"                           // ex: v0.3.0
	Commit    = "none"                          // ex: 4f1c2ab
	BuildDate = time.Now().Format(time.RFC3339) // ex: 2026-10-18T09:12:00Z
	GoVersion = runtime.Version()
)

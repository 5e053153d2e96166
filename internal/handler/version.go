package handler

import (
	"net/http"
	"os"
	"runtime"
	"runtime/debug"
	"sync"

	"github.com/osse101/Monsters_Go/internal/domain"
)

// Version can be pinned at link time with -ldflags "-X .../internal/handler.Version=v1.2.3".
var Version string

// BuildInfo describes the running binary.
type BuildInfo struct {
	Service   string `json:"service"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Revision  string `json:"revision,omitempty"`
	BuiltAt   string `json:"built_at,omitempty"`
	Dirty     bool   `json:"dirty,omitempty"`
}

var vcsInfo = sync.OnceValue(func() BuildInfo {
	info := BuildInfo{Service: domain.CollectionName, GoVersion: runtime.Version()}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	if v := bi.Main.Version; v != "" && v != "(devel)" {
		info.Version = v
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.Revision = s.Value
		case "vcs.time":
			info.BuiltAt = s.Value
		case "vcs.modified":
			info.Dirty = s.Value == "true"
		}
	}
	return info
})

// currentBuild resolves the version from the link-time pin, then VERSION, then
// the module version stamped by the toolchain.
func currentBuild() BuildInfo {
	info := vcsInfo()
	switch {
	case Version != "":
		info.Version = Version
	case os.Getenv("VERSION") != "":
		info.Version = os.Getenv("VERSION")
	case info.Version == "":
		info.Version = "dev"
	}
	return info
}

// HandleVersion reports which build is serving requests
// @Summary Build information
// @Tags health
// @Produce json
// @Success 200 {object} BuildInfo
// @Router /version [get]
func HandleVersion() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, currentBuild())
	}
}

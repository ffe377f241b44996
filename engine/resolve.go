package engine

import (
	"os"
	"path/filepath"
	"runtime"

	"go.uber.org/zap"

	"github.com/physicslab/phyengine-go/errors"
)

// EnvLibraryPath overrides library discovery when set. It takes
// precedence over the search directories but not over an explicit path.
const EnvLibraryPath = "PHYSICSLAB_PHYENGINE_LIB"

// libraryNames returns the candidate file names probed inside each
// search directory, platform shared library first, wasm build second.
func libraryNames() []string {
	var shared string
	switch runtime.GOOS {
	case "windows":
		shared = "phyengine.dll"
	case "darwin":
		shared = "libphyengine.dylib"
	default:
		shared = "libphyengine.so"
	}
	return []string{shared, "phyengine.wasm"}
}

// searchDirs returns the directories probed in order. Relative entries
// are resolved against the current working directory.
func searchDirs() []string {
	dirs := []string{"native"}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".physicslab", "native"))
	}
	dirs = append(dirs,
		filepath.Join("third-parties", "Phy-Engine", "build"),
		filepath.Join("third-parties", "Phy-Engine", "src", "build"),
		filepath.Join("third-parties", "Phy-Engine", "src", "cmake-build-release"),
		filepath.Join("third-parties", "Phy-Engine", "src", "cmake-build-debug"),
	)
	return dirs
}

// Resolve locates the solver library on disk and returns its path.
//
// An explicit non-empty path short-circuits discovery: it is the only
// candidate, and a miss fails immediately naming it. Otherwise the
// EnvLibraryPath override is probed first, then each search directory
// is probed for each library name. Discovery state is never cached, so
// a library installed after a failed call is found by the next call.
//
// On failure the returned error carries every path that was attempted.
func Resolve(explicit string) (string, error) {
	log := Logger()

	if explicit != "" {
		if fileExists(explicit) {
			log.Debug("resolved solver library", zap.String("path", explicit), zap.String("source", "explicit"))
			return explicit, nil
		}
		return "", errors.NotAvailable("library not found at configured path", []string{explicit})
	}

	var attempted []string

	if env := os.Getenv(EnvLibraryPath); env != "" {
		if fileExists(env) {
			log.Debug("resolved solver library", zap.String("path", env), zap.String("source", "env"))
			return env, nil
		}
		attempted = append(attempted, env)
	}

	names := libraryNames()
	for _, dir := range searchDirs() {
		for _, name := range names {
			candidate := filepath.Join(dir, name)
			if fileExists(candidate) {
				log.Debug("resolved solver library", zap.String("path", candidate), zap.String("source", "search"))
				return candidate, nil
			}
			attempted = append(attempted, candidate)
		}
	}

	log.Debug("solver library not found", zap.Strings("attempted", attempted))
	return "", errors.NotAvailable("no solver library found", attempted)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

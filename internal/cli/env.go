// Package cli holds flag helpers shared by the dynamictranslator commands.
package cli

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// EnvFileVar names a .env file that takes precedence over --env.
const EnvFileVar = "DYNAMICTRANSLATOR_ENV_FILE"

// EnvLoader loads a .env file chosen by --env. Values in the file override
// the process environment.
type EnvLoader struct {
	value       *string
	defaultPath string
}

// AddEnvFlag registers an --env flag and returns an EnvLoader.
func AddEnvFlag(fs *flag.FlagSet, defaultPath, description string) *EnvLoader {
	if fs == nil {
		fs = flag.CommandLine
	}
	if defaultPath == "" {
		defaultPath = ".env"
	}
	if description == "" {
		description = "Path to the .env file"
	}

	return &EnvLoader{
		value:       fs.String("env", defaultPath, description),
		defaultPath: defaultPath,
	}
}

type envCandidate struct {
	path   string
	origin string
}

// candidates lists paths in load order: $DYNAMICTRANSLATOR_ENV_FILE, the
// flag value, its basename in the working directory, then the default.
func (l *EnvLoader) candidates() []envCandidate {
	var out []envCandidate
	seen := map[string]bool{}
	add := func(path, origin string) {
		path = strings.TrimSpace(path)
		if path == "" || seen[path] {
			return
		}
		seen[path] = true
		out = append(out, envCandidate{path: path, origin: origin})
	}

	add(os.Getenv(EnvFileVar), EnvFileVar)
	requested := ""
	if l.value != nil {
		requested = strings.TrimSpace(*l.value)
	}
	if requested == "" {
		requested = l.defaultPath
	}
	add(requested, "--env")
	add(filepath.Base(requested), "basename fallback")
	add(l.defaultPath, "default")
	return out
}

// Load loads the first candidate that exists and returns its path.
func (l *EnvLoader) Load() (string, error) {
	if l == nil {
		return "", fmt.Errorf("env loader is nil")
	}

	logger := log.New(os.Stderr, "", log.LstdFlags)
	candidates := l.candidates()
	for _, candidate := range candidates {
		if err := godotenv.Overload(candidate.path); err != nil {
			if candidate.origin == EnvFileVar {
				logger.Printf("Warning: failed to load %s=%s", EnvFileVar, candidate.path)
			}
			continue
		}
		logger.Printf("Loaded environment from %s (%s)", candidate.path, candidate.origin)
		return candidate.path, nil
	}

	requested := l.defaultPath
	for _, candidate := range candidates {
		if candidate.origin == "--env" {
			requested = candidate.path
		}
	}
	return "", fmt.Errorf("failed to load env file from %s", requested)
}

package config

import (
	"fmt"
	"os"
	"strings"
)

// ResolveSecret reads a value using the *_FILE convention: when
// envName+"_FILE" is set the value is read from that file, otherwise the
// value of envName itself is returned. Cache URLs often embed credentials,
// so they are resolved this way.
func ResolveSecret(envName string) (string, error) {
	fileEnv := envName + "_FILE"
	if path := os.Getenv(fileEnv); path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read secret from %s=%s: %w", fileEnv, path, err)
		}
		return strings.TrimSpace(string(content)), nil
	}
	return os.Getenv(envName), nil
}

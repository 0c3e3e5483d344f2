package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// loadDotEnv applies KEY=VALUE pairs from a dotenv file to the process
// environment and reports how many keys it set. A missing file is not an
// error.
//
// Rules:
//   - Empty lines and lines starting with # are ignored.
//   - "export KEY=VALUE" is accepted.
//   - Quoted values keep everything between the quotes.
//   - Unquoted values end at " #".
//   - Variables already set in the environment win.
func loadDotEnv(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("open dotenv file: %w", err)
	}
	defer f.Close()

	applied := 0
	sc := bufio.NewScanner(f)
	for lineNo := 1; sc.Scan(); lineNo++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "export "))

		k, v, ok := strings.Cut(line, "=")
		if !ok {
			return applied, fmt.Errorf("dotenv line %d: missing '='", lineNo)
		}
		k = strings.TrimSpace(k)
		if k == "" {
			return applied, fmt.Errorf("dotenv line %d: empty key", lineNo)
		}

		if os.Getenv(k) != "" {
			continue
		}
		if err := os.Setenv(k, dotEnvValue(strings.TrimSpace(v))); err != nil {
			return applied, fmt.Errorf("set %s: %w", k, err)
		}
		applied++
	}
	if err := sc.Err(); err != nil {
		return applied, fmt.Errorf("read dotenv file: %w", err)
	}
	return applied, nil
}

func dotEnvValue(v string) string {
	if len(v) >= 2 && (v[0] == '"' || v[0] == '\'') {
		if end := strings.IndexByte(v[1:], v[0]); end >= 0 {
			return v[1 : end+1]
		}
	}
	if i := strings.Index(v, " #"); i >= 0 {
		v = v[:i]
	}
	return strings.TrimSpace(v)
}

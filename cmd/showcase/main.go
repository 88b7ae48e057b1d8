package main

import (
	"os"
	"strings"

	"showcase-cli/internal/cli"
)

func isDeepLink(s string) bool {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "?") {
		return len(s) > 1
	}
	for _, p := range []string{"http://", "https://", "file://"} {
		if strings.HasPrefix(strings.ToLower(s), p) {
			return true
		}
	}
	return false
}

func rewriteDeepLinkArgs(argv []string) []string {
	// Convenience: `showcase <url>` works like `showcase --link <url>`.
	//
	// The root command takes no positionals, so a pasted share link is rewritten before
	// parsing. Persistent flags may come first, so look for the first positional token.
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--data":     true,
		"--base-url": true,
		"--link":     true,
		"--format":   true,
		"--log-file": true,
		"--theme":    true,
		"--addr":     true,
	}
	boolFlags := map[string]bool{
		"--pretty":  true,
		"--verbose": true,
		"-v":        true,
		"--watch":   true,
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) && isDeepLink(argv[i+1]) {
				out := make([]string, 0, len(argv)+1)
				out = append(out, argv[:i]...)
				out = append(out, "--link", argv[i+1])
				out = append(out, argv[i+2:]...)
				return out
			}
			return argv
		}

		if strings.HasPrefix(a, "-") {
			if strings.Contains(a, "=") {
				continue
			}
			if boolFlags[a] {
				continue
			}
			if valueFlags[a] {
				i++
				continue
			}
			continue
		}

		if isDeepLink(a) {
			out := make([]string, 0, len(argv)+1)
			out = append(out, argv[:i]...)
			out = append(out, "--link")
			out = append(out, argv[i:]...)
			return out
		}
		return argv
	}

	return argv
}

func main() {
	os.Args = rewriteDeepLinkArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

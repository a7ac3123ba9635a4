// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-08-19
// Last Modified: 2026-08-23

package github

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/adrg/xdg"
)

// appDirName is the directory used under the XDG config and cache homes.
const appDirName = "testplan-bot"

var oauthTokenPattern = regexp.MustCompile(`oauth_token:\s*(\S+)`)

// DiscoverToken locates a GitHub API token. The search order is the
// GITHUB_TOKEN environment variable, the bot's own token file, a shared
// github-token file, and finally the gh CLI's stored credentials. An empty
// result means only unauthenticated reads are available.
func DiscoverToken() string {
	if token := strings.TrimSpace(os.Getenv("GITHUB_TOKEN")); token != "" {
		return token
	}

	candidates := []string{
		filepath.Join(xdg.ConfigHome, appDirName, "github-token"),
		filepath.Join(xdg.ConfigHome, "github-token"),
	}
	for _, path := range candidates {
		if data, err := os.ReadFile(path); err == nil {
			if token := strings.TrimSpace(string(data)); token != "" {
				return token
			}
		}
	}

	// Fall back to the gh CLI token. hosts.yml is current, config.yml is
	// where older releases kept it.
	for _, name := range []string{"hosts.yml", "config.yml"} {
		data, err := os.ReadFile(filepath.Join(xdg.ConfigHome, "gh", name))
		if err != nil {
			continue
		}
		if m := oauthTokenPattern.FindSubmatch(data); m != nil {
			return string(m[1])
		}
	}

	return ""
}

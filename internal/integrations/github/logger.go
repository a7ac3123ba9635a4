// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-08-19
// Last Modified: 2026-08-23

package github

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// AccessLog appends one line per API request to a monthly per-host log
// file, for auditing what the bot asked GitHub and when.
type AccessLog struct {
	path string
}

// NewAccessLog creates an access log in dir, named "<hostname>-<yyyymm>.log".
func NewAccessLog(dir string) (*AccessLog, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}
	hostname, _, _ = strings.Cut(hostname, ".")
	name := fmt.Sprintf("%s-%s.log", hostname, time.Now().Format("200601"))
	return &AccessLog{path: filepath.Join(dir, name)}, nil
}

// Path returns the log file path.
func (l *AccessLog) Path() string { return l.path }

// Write appends a line. The file is opened per call so external log
// rotation never holds a handle hostage.
func (l *AccessLog) Write(line string) {
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		log.Warn("cannot append to access log", "path", l.path, "err", err)
		return
	}
	defer f.Close()
	if _, err := f.WriteString(line); err != nil {
		log.Warn("cannot append to access log", "path", l.path, "err", err)
	}
}

// loggingTransport records a common-log-format line for every request that
// produced a response.
type loggingTransport struct {
	next http.RoundTripper
	log  *AccessLog
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	t.log.Write(fmt.Sprintf("%s - - [%s] \"%s %s HTTP/1.1\" %d -\n",
		req.URL.Host,
		time.Now().Format(time.ANSIC),
		req.Method,
		req.URL.RequestURI(),
		resp.StatusCode,
	))
	return resp, nil
}

package auth

import (
	"fmt"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// Config holds the process-wide token configuration. It is read once at
// construction time; business code never touches the environment directly.
type Config interface {
	GetAccessSecret() string
	GetRefreshSecret() string
	GetAccessTTL() string
	GetRefreshTTL() string
}

// TokenConfig is the default Config implementation.
type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     string
	RefreshTTL    string
}

func (c TokenConfig) GetAccessSecret() string  { return c.AccessSecret }
func (c TokenConfig) GetRefreshSecret() string { return c.RefreshSecret }

func (c TokenConfig) GetAccessTTL() string {
	if c.AccessTTL == "" {
		return DefaultAccessTTL
	}
	return c.AccessTTL
}

func (c TokenConfig) GetRefreshTTL() string {
	if c.RefreshTTL == "" {
		return DefaultRefreshTTL
	}
	return c.RefreshTTL
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}

package llm

import (
	"fmt"
	"sort"
	"sync"

	"github.com/kbukum/jumptube/httpclient"
)

// Dialect maps the universal types to one provider's HTTP format.
type Dialect interface {
	Name() string
	// DefaultBaseURL is used when the config leaves base_url empty.
	DefaultBaseURL() string
	// ChatPath is the completion endpoint for model.
	ChatPath(model string) string
	// HealthPath is probed by IsAvailable. Empty skips the probe.
	HealthPath() string
	// Auth builds the request credentials for apiKey.
	Auth(apiKey string) *httpclient.AuthConfig
	BuildRequest(req CompletionRequest) (any, error)
	ParseResponse(body []byte) (*CompletionResponse, error)
}

var (
	dialectsMu sync.RWMutex
	dialects   = map[string]Dialect{}
)

// RegisterDialect makes d available to New under d.Name().
func RegisterDialect(d Dialect) {
	dialectsMu.Lock()
	defer dialectsMu.Unlock()
	dialects[d.Name()] = d
}

// GetDialect looks up a registered dialect.
func GetDialect(name string) (Dialect, error) {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	d, ok := dialects[name]
	if !ok {
		return nil, fmt.Errorf("llm: unknown dialect %q (registered: %v)", name, dialectNames())
	}
	return d, nil
}

func dialectNames() []string {
	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

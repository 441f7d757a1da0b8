package transport

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/arcturial/clickatell/pkg/apierror"
	"github.com/arcturial/clickatell/pkg/semver"
)

const registryLogPrefix = "transport:registry"

// Factory builds a transport from options.
type Factory func(opts Options) Transport

// Entry is one registered transport version.
type Entry struct {
	Name        string
	Version     string
	Status      string
	Description string
	Factory     Factory
}

// Registry maps transport refs such as "rest@^1" or "http" to factories.
// It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string][]Entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string][]Entry)}
}

// DefaultRegistry returns a registry holding the built-in transports.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, e := range builtins() {
		if err := r.Register(e); err != nil {
			// Built-ins are static; a failure here is a programming error.
			panic(err)
		}
	}
	return r
}

func builtins() []Entry {
	return []Entry{
		{
			Name: "http", Version: "1.0.0", Status: semver.StatusDeprecated,
			Description: "legacy HTTP API, single message id per send",
			Factory:     func(o Options) Transport { return NewHTTPSingle(o) },
		},
		{
			Name: "http", Version: "2.1.0",
			Description: "legacy HTTP API with per-recipient results",
			Factory:     func(o Options) Transport { return NewHTTP(o) },
		},
		{
			Name: "https", Version: "2.1.0",
			Description: "legacy HTTP API over TLS",
			Factory: func(o Options) Transport {
				o.Secure = true
				return NewHTTP(o)
			},
		},
		{
			Name: "xml", Version: "2.1.0",
			Description: "XML API",
			Factory:     func(o Options) Transport { return NewXML(o) },
		},
		{
			Name: "soap", Version: "2.1.0",
			Description: "SOAP web service",
			Factory:     func(o Options) Transport { return NewSOAP(o) },
		},
		{
			Name: "smtp", Version: "2.1.0",
			Description: "mail to SMS, send only",
			Factory:     func(o Options) Transport { return NewSMTP(o) },
		},
		{
			Name: "rest", Version: "1.0.0",
			Description: "REST API with bearer token",
			Factory:     func(o Options) Transport { return NewREST(o) },
		},
		{
			Name: "connect", Version: "1.0.0",
			Description: "account management API",
			Factory:     func(o Options) Transport { return NewConnect(o) },
		},
	}
}

// Register adds e. The name must be a valid transport name and the version
// a strict semantic version.
func (r *Registry) Register(e Entry) error {
	if !semver.ValidateTransportName(e.Name) {
		return fmt.Errorf("%s - invalid transport name %q", registryLogPrefix, e.Name)
	}
	if _, err := semver.NewCandidate(e.Version, e.Status, 0); err != nil {
		return fmt.Errorf("%s - failed to register %s: %w", registryLogPrefix, e.Name, err)
	}
	if e.Factory == nil {
		return fmt.Errorf("%s - transport %s@%s has no factory", registryLogPrefix, e.Name, e.Version)
	}
	if e.Status == "" {
		e.Status = semver.StatusActive
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.entries[e.Name]
	for i, existing := range list {
		if existing.Version == e.Version {
			list[i] = e
			return nil
		}
	}
	r.entries[e.Name] = append(list, e)
	return nil
}

// Resolve returns the best entry for ref.
func (r *Registry) Resolve(ref string) (Entry, error) {
	parsed, err := semver.ParseTransportRef(ref)
	if err != nil {
		return Entry{}, apierror.TransportNotFound(ref)
	}

	r.mu.RLock()
	list := append([]Entry(nil), r.entries[parsed.Name]...)
	r.mu.RUnlock()

	candidates := make([]semver.Candidate, 0, len(list))
	for i, e := range list {
		c, err := semver.NewCandidate(e.Version, e.Status, i)
		if err != nil {
			continue
		}
		candidates = append(candidates, c)
	}

	best := semver.Resolve(semver.ResolveParams{
		Candidates:   candidates,
		Range:        parsed.Range,
		DefaultMajor: -1,
	})
	if best == nil {
		return Entry{}, apierror.TransportNotFound(ref)
	}
	entry := list[best.Index]
	if entry.Status == semver.StatusDeprecated {
		slog.Warn(fmt.Sprintf("%s - transport %s@%s is deprecated", registryLogPrefix, entry.Name, entry.Version))
	}
	return entry, nil
}

// New resolves ref and builds the transport.
func (r *Registry) New(ref string, opts Options) (Transport, error) {
	e, err := r.Resolve(ref)
	if err != nil {
		return nil, err
	}
	slog.Debug(fmt.Sprintf("%s - using %s@%s for %s", registryLogPrefix, e.Name, e.Version, ref))
	return e.Factory(opts), nil
}

// List returns every entry ordered by name, newest version first.
func (r *Registry) List() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Entry
	for _, list := range r.entries {
		out = append(out, list...)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return semver.SatisfiesRange(out[j].Version, "<"+out[i].Version)
	})
	return out
}

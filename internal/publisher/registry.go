package publisher

import (
	"fmt"
	"sort"
	"sync"

	"github.com/igodwin/campaign-mailer/internal/domain"
)

// Registry holds the publishers notified for every campaign report
type Registry struct {
	publishers map[string]domain.CampaignReportPublisher
	mu         sync.RWMutex
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		publishers: make(map[string]domain.CampaignReportPublisher),
	}
}

// Register adds a publisher under its name
func (r *Registry) Register(p domain.CampaignReportPublisher) error {
	if p == nil {
		return fmt.Errorf("publisher is nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	name := p.Name()
	if _, exists := r.publishers[name]; exists {
		return fmt.Errorf("publisher already registered: %s", name)
	}

	r.publishers[name] = p
	return nil
}

// Get returns the publisher registered under name
func (r *Registry) Get(name string) (domain.CampaignReportPublisher, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, exists := r.publishers[name]
	if !exists {
		return nil, fmt.Errorf("unknown publisher: %s", name)
	}
	return p, nil
}

// Names returns the sorted names of the registered publishers
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.publishers))
	for name := range r.publishers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns the registered publishers ordered by name
func (r *Registry) All() []domain.CampaignReportPublisher {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.publishers))
	for name := range r.publishers {
		names = append(names, name)
	}
	sort.Strings(names)

	all := make([]domain.CampaignReportPublisher, 0, len(names))
	for _, name := range names {
		all = append(all, r.publishers[name])
	}
	return all
}

// Len returns the number of registered publishers
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.publishers)
}

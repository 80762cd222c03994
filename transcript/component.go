package transcript

import (
	"context"
	"fmt"

	"github.com/kbukum/jumptube/component"
)

// StoreComponent exposes the store on /health.
type StoreComponent struct {
	store *Store
}

// NewStoreComponent wraps store for the component registry.
func NewStoreComponent(store *Store) *StoreComponent {
	return &StoreComponent{store: store}
}

func (c *StoreComponent) Name() string { return "transcript-store" }

func (c *StoreComponent) Start(context.Context) error { return nil }

func (c *StoreComponent) Stop(context.Context) error { return nil }

func (c *StoreComponent) Health(context.Context) component.Health {
	return component.Health{
		Name:    c.Name(),
		Status:  component.StatusHealthy,
		Message: fmt.Sprintf("%d cached", c.store.Len()),
	}
}

// Describe implements component.Describable.
func (c *StoreComponent) Describe() component.Description {
	limit := "unbounded"
	if c.store.cfg.MaxEntries > 0 {
		limit = fmt.Sprintf("max %d", c.store.cfg.MaxEntries)
	}
	return component.Description{Name: "Transcript store", Type: "memory", Details: limit}
}

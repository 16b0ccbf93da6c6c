// Package provider wires the OpenF1 client to the response cache for the
// commands.
package provider

import (
	"f1duel/pkg/cache"
	"f1duel/pkg/config"
	"f1duel/pkg/openf1"
)

// Open returns a client backed by the configured cache. The cache must be
// closed by the caller.
func Open() (*openf1.Client, *cache.Manager, error) {
	cm, err := cache.NewManager(config.DB, config.CacheExpiration)
	if err != nil {
		return nil, nil, err
	}
	return openf1.NewClient(config.OpenF1URL, config.HTTPTimeout, cm), cm, nil
}

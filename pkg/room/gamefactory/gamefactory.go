// Package gamefactory turns a game name plus client-supplied options into a
// running Playable. The set of offered games is an explicit registry built at
// process start and injected into the room layer; nothing registers itself as
// an import side effect.
package gamefactory

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"sidegame-server/pkg/playable"
	"sidegame-server/pkg/playable/poker/rules"
	"sidegame-server/pkg/round"
)

// GameFactory is a factory for creating games that implement the Playable interface
type GameFactory interface {
	// CreateGame builds a game for the given players. The seed must come
	// from rng.Seed; the scheduler dispatches into the table's run loop.
	CreateGame(logger logrus.FieldLogger, playerIDs []int64, additionalData playable.AdditionalData, seed int64, sched *round.Scheduler) (playable.Playable, error)

	// Details returns the display name and ante without building a game
	Details(additionalData playable.AdditionalData) (name string, ante int, err error)
}

// Registry holds the games a process offers
type Registry struct {
	factories map[string]GameFactory
}

// NewRegistry returns a registry holding the given factories
func NewRegistry(factories map[string]GameFactory) *Registry {
	r := &Registry{
		factories: make(map[string]GameFactory),
	}

	for name, factory := range factories {
		r.factories[name] = factory
	}

	return r
}

// DefaultRegistry returns a registry offering every built-in game. The rules
// registry is shared by every poker game the factory creates.
func DefaultRegistry(rulesRegistry *rules.Registry) *Registry {
	return NewRegistry(map[string]GameFactory{
		"flip":        flipFactory{},
		"coin-call":   coinCallFactory{},
		"plunder":     plunderFactory{},
		"last-breath": lastBreathFactory{},
		"poker":       pokerFactory{rules: rulesRegistry},
	})
}

// Get returns a factory by the given name
func (r *Registry) Get(name string) (GameFactory, error) {
	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("no factory with name: %s", name)
	}

	return factory, nil
}

// Names returns the registered game names
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}

	return names
}

package server

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"supportbot/internal/service"
)

// BotFactory creates a fresh conversation.
type BotFactory interface {
	NewBot() (*service.SupportBot, error)
}

// Registry keeps live sessions in memory and forgets them after ttl without use.
type Registry struct {
	factory BotFactory
	cache   *cache.Cache
}

func NewRegistry(factory BotFactory, ttl time.Duration) *Registry {
	return &Registry{factory: factory, cache: cache.New(ttl, ttl/6+time.Minute)}
}

// Create starts a new session and returns its id.
func (r *Registry) Create() (string, *service.SupportBot, error) {
	bot, err := r.factory.NewBot()
	if err != nil {
		return "", nil, err
	}
	id := uuid.NewString()
	r.cache.Set(id, bot, cache.DefaultExpiration)
	return id, bot, nil
}

// Get returns a session and refreshes its expiry.
func (r *Registry) Get(id string) (*service.SupportBot, bool) {
	x, found := r.cache.Get(id)
	if !found {
		return nil, false
	}
	bot := x.(*service.SupportBot)
	r.cache.Set(id, bot, cache.DefaultExpiration)
	return bot, true
}

func (r *Registry) Delete(id string) {
	r.cache.Delete(id)
}

func (r *Registry) Count() int {
	return r.cache.ItemCount()
}

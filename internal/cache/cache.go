package cache

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"
)

// Store es el contrato común de los cachés del catálogo
type Store interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	DeleteByPrefix(ctx context.Context, prefix string) error
}

// Fetch devuelve el valor cacheado o lo carga y lo guarda.
// Un fallo del caché degrada a una carga directa.
func Fetch[T any](ctx context.Context, s Store, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var out T
	if s != nil {
		if found, err := s.GetJSON(ctx, key, &out); err == nil && found {
			return out, nil
		}
	}
	out, err := load(ctx)
	if err != nil {
		return out, err
	}
	if s != nil {
		_ = s.SetJSON(ctx, key, out, ttl)
	}
	return out, nil
}

type cacheItem struct {
	Value      []byte
	Expiration int64
}

// Memory es el caché en proceso con expiración por item
type Memory struct {
	items map[string]cacheItem
	mu    sync.RWMutex
	ttl   time.Duration
	stop  chan struct{}
	once  sync.Once
}

// NewMemory crea el caché y arranca la limpieza periódica
func NewMemory(defaultTTL time.Duration) *Memory {
	c := &Memory{
		items: make(map[string]cacheItem),
		ttl:   defaultTTL,
		stop:  make(chan struct{}),
	}
	// Limpiar caché expirado cada 5 minutos
	go c.cleanupExpired(5 * time.Minute)
	return c
}

// set guarda un valor serializado en caché
func (c *Memory) set(key string, value []byte, ttl ...time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	duration := c.ttl
	if len(ttl) > 0 && ttl[0] > 0 {
		duration = ttl[0]
	}

	c.items[key] = cacheItem{
		Value:      value,
		Expiration: time.Now().Add(duration).UnixNano(),
	}
}

// get obtiene un valor del caché
func (c *Memory) get(key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, found := c.items[key]
	if !found {
		return nil, false
	}

	// Verificar si expiró
	if time.Now().UnixNano() > item.Expiration {
		return nil, false
	}

	return item.Value, true
}

// Close detiene la limpieza periódica
func (c *Memory) Close() {
	c.once.Do(func() { close(c.stop) })
}

func (c *Memory) GetJSON(_ context.Context, key string, dest any) (bool, error) {
	data, found := c.get(key)
	if !found {
		return false, nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Memory) SetJSON(_ context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.set(key, data, ttl)
	return nil
}

// DeleteByPrefix elimina todas las claves que empiecen con un prefijo
func (c *Memory) DeleteByPrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.items {
		if strings.HasPrefix(key, prefix) {
			delete(c.items, key)
		}
	}
	return nil
}

// cleanupExpired limpia items expirados periódicamente
func (c *Memory) cleanupExpired(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.purgeExpired()
		}
	}
}

func (c *Memory) purgeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now().UnixNano()
	for key, item := range c.items {
		if now > item.Expiration {
			delete(c.items, key)
		}
	}
}

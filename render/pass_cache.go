// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultRenderPassCacheSize is the number of render pass objects kept
// alive by an encoder.
const DefaultRenderPassCacheSize = 32

// renderPassCache shares backend render pass objects between encodes with
// compatible attachment descriptions.
//
// A pass evicted while recordings that use it are still in flight is
// destroyed when the last of them completes.
type renderPassCache struct {
	backend Backend
	cache   *lru.Cache[string, RenderPass]

	mu       sync.Mutex
	inFlight map[RenderPass]int
	retired  map[RenderPass]struct{}
}

func newRenderPassCache(backend Backend, size int) (*renderPassCache, error) {
	c := &renderPassCache{
		backend:  backend,
		inFlight: make(map[RenderPass]int),
		retired:  make(map[RenderPass]struct{}),
	}
	cache, err := lru.NewWithEvict[string, RenderPass](size, c.onEvict)
	if err != nil {
		return nil, fmt.Errorf("render pass cache: %w", err)
	}
	c.cache = cache
	return c, nil
}

func (c *renderPassCache) onEvict(key string, pass RenderPass) {
	c.mu.Lock()
	busy := c.inFlight[pass] > 0
	if busy {
		c.retired[pass] = struct{}{}
	}
	c.mu.Unlock()
	if busy {
		Logger().Debug("render: retiring in-flight render pass", "key", key)
		return
	}
	Logger().Debug("render: evicting render pass", "key", key)
	c.backend.DestroyRenderPass(pass)
}

// get returns a cached pass compatible with desc or creates one.
func (c *renderPassCache) get(desc *RenderPassDescriptor) (RenderPass, error) {
	key := desc.Key()
	if pass, ok := c.cache.Get(key); ok {
		return pass, nil
	}
	pass, err := c.backend.CreateRenderPass(desc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRenderPassCreation, err)
	}
	if pass == nil {
		return nil, ErrRenderPassCreation
	}
	Logger().Debug("render: created render pass", "label", desc.Label, "attachments", len(desc.Attachments))
	c.cache.Add(key, pass)
	return pass, nil
}

// hold marks pass as used by one more in-flight recording.
func (c *renderPassCache) hold(pass RenderPass) {
	c.mu.Lock()
	c.inFlight[pass]++
	c.mu.Unlock()
}

// release ends one hold on pass, destroying it if it was evicted and this
// was the last hold.
func (c *renderPassCache) release(pass RenderPass) {
	c.mu.Lock()
	n := c.inFlight[pass] - 1
	destroy := false
	if n > 0 {
		c.inFlight[pass] = n
	} else {
		delete(c.inFlight, pass)
		if _, ok := c.retired[pass]; ok {
			delete(c.retired, pass)
			destroy = true
		}
	}
	c.mu.Unlock()
	if destroy {
		c.backend.DestroyRenderPass(pass)
	}
}

// retiredLen returns the number of evicted passes awaiting destruction.
func (c *renderPassCache) retiredLen() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.retired)
}

func (c *renderPassCache) len() int {
	return c.cache.Len()
}

// purge evicts every cached pass.
func (c *renderPassCache) purge() {
	c.cache.Purge()
}

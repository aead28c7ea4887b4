package main

import "sync"

type Config struct {
	// Exhaustive search is only tractable while the number of empty
	// cells stays small; beyond this limit the engine switches to a
	// depth-limited search with a heuristic evaluation fallback.
	AiExhaustiveLimit int `json:"ai_exhaustive_limit"`
	AiMaxDepth        int `json:"ai_max_depth"`

	// Presentation pacing: a ready AI move is held back until this many
	// milliseconds have passed since the turn started.
	AiMoveDelayMs int `json:"ai_move_delay_ms"`

	AiTtSize         int  `json:"ai_tt_size"`
	AiTtBuckets      int  `json:"ai_tt_buckets"`
	AiLogSearchStats bool `json:"ai_log_search_stats"`

	// Idle viewers get a ping frame at this interval so proxies keep
	// the websocket open between moves.
	WsIdlePingMs int `json:"ws_idle_ping_ms"`
}

type ConfigStore struct {
	mu     sync.RWMutex
	config Config
}

func DefaultConfig() Config {
	return Config{
		AiExhaustiveLimit: 12,
		AiMaxDepth:        6,
		AiMoveDelayMs:     300,
		AiTtSize:          1 << 16,
		AiTtBuckets:       4,
		AiLogSearchStats:  false,
		WsIdlePingMs:      30000,
	}
}

var configStore = &ConfigStore{config: DefaultConfig()}

func GetConfig() Config {
	return configStore.Get()
}

func (c *ConfigStore) Get() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

func (c *ConfigStore) Update(newConfig Config) {
	c.mu.Lock()
	c.config = newConfig
	c.mu.Unlock()
}

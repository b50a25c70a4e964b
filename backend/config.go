package main

import "sync"

type Config struct {
	AiDepthMode           string          `json:"ai_depth_mode"`
	AiDepth               int             `json:"ai_depth"`
	AiManualDepth         int             `json:"ai_manual_depth"`
	AiTimeBudgetMs        int             `json:"ai_time_budget_ms"`
	AiGraceMs             int             `json:"ai_grace_ms"`
	AiDynamicEarlyMoves   int             `json:"ai_dynamic_early_moves"`
	AiDynamicLateMoves    int             `json:"ai_dynamic_late_moves"`
	AiDynamicShallowDepth int             `json:"ai_dynamic_shallow_depth"`
	AiDynamicDeepDepth    int             `json:"ai_dynamic_deep_depth"`
	AiWorkers             int             `json:"ai_workers"`
	AiTtSize              int             `json:"ai_tt_size"`
	AiTtBuckets           int             `json:"ai_tt_buckets"`
	AiLogSearchStats      bool            `json:"ai_log_search_stats"`
	Heuristics            HeuristicConfig `json:"heuristics"`
}

type HeuristicConfig struct {
	OpenEndScale  float64 `json:"open_end_scale"`
	ForkBonus     int     `json:"fork_bonus"`
	ForkPenalty   int     `json:"fork_penalty"`
	ForkThreshold int     `json:"fork_threshold"`
}

type ConfigStore struct {
	mu     sync.RWMutex
	config Config
}

func DefaultConfig() Config {
	return Config{
		AiDepthMode: "dynamic",
		AiDepth:     4,

		// Manual override, used only when ai_depth_mode is "manual".
		AiManualDepth: 4,

		// Anytime mode: iterative deepening under this budget, with a
		// short grace to let the running iteration wind down. Zero
		// budget means a single fixed-depth search.
		AiTimeBudgetMs: 5000,
		AiGraceMs:      1000,

		// Opening positions are cheap to read, endgames branch less.
		AiDynamicEarlyMoves:   4,
		AiDynamicLateMoves:    20,
		AiDynamicShallowDepth: 2,
		AiDynamicDeepDepth:    6,

		// Zero workers means NumCPU-1.
		AiWorkers: 0,

		AiTtSize:    1 << 18,
		AiTtBuckets: 4,

		AiLogSearchStats: false,

		Heuristics: HeuristicConfig{
			OpenEndScale:  0.5,
			ForkBonus:     500,
			ForkPenalty:   1500,
			ForkThreshold: 2,
		},
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

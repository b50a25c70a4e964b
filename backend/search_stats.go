package main

import (
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

// SearchStats accumulates counters across a whole best-move computation.
// The atomic fields are shared by the parallel root workers; the depth
// bookkeeping is touched only by the deepening loop.
type SearchStats struct {
	Nodes    atomic.Int64
	TTProbes atomic.Int64
	TTHits   atomic.Int64
	TTStores atomic.Int64
	Cutoffs  atomic.Int64

	Start           time.Time
	DepthDurations  []time.Duration
	CompletedDepths int
}

func logSearchStats(phase string, stats *SearchStats, settings SearchSettings) {
	if stats == nil {
		return
	}
	elapsed := time.Since(stats.Start)
	nodes := stats.Nodes.Load()
	nps := int64(0)
	if elapsed > 0 {
		nps = nodes * int64(time.Second) / int64(elapsed)
	}
	log.Debug().
		Str("phase", phase).
		Int("board_size", settings.BoardSize).
		Int("depth", stats.CompletedDepths).
		Int64("nodes", nodes).
		Int64("nps", nps).
		Int64("tt_probes", stats.TTProbes.Load()).
		Int64("tt_hits", stats.TTHits.Load()).
		Int64("tt_stores", stats.TTStores.Load()).
		Int64("cutoffs", stats.Cutoffs.Load()).
		Dur("elapsed", elapsed).
		Msg("search stats")
}

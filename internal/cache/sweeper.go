package cache

import "time"

// StartSweeper launches a background goroutine that periodically evicts
// expired snapshot cache entries in a simple sleep-then-sweep loop;
// intended for a single server process.
func StartSweeper(c *SnapshotCache, interval time.Duration) {
	go func() {
		for {
			time.Sleep(interval)
			c.Sweep()
		}
	}()
}

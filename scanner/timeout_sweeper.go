package scanner

import (
	"log"
	"time"

	"warden/utils/database/warndb"
)

const sweepInterval = 5 * time.Minute

// StartTimeoutSweeper starts a background goroutine that clears ledger
// timeouts whose expiry has passed, so status reads stay honest between
// reconciliation runs. Natural expiry does not touch the escalation ladder.
func StartTimeoutSweeper(store *warndb.Store, done <-chan struct{}) {
	ticker := time.NewTicker(sweepInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				sweepExpiredTimeouts(store)
			case <-done:
				return
			}
		}
	}()
}

func sweepExpiredTimeouts(store *warndb.Store) {
	expired, err := store.ExpiredTimeouts(time.Now())
	if err != nil {
		log.Printf("Error loading expired timeouts: %v", err)
		return
	}

	for _, record := range expired {
		err := store.WithMemberLock(record.GuildID, record.UserID, func() error {
			return store.ClearTimeout(record.GuildID, record.UserID)
		})
		if err != nil {
			log.Printf("Failed to clear expired timeout for user %s in guild %s: %v",
				record.UserID, record.GuildID, err)
			continue
		}
		log.Printf("Cleared expired timeout for user %s in guild %s", record.UserID, record.GuildID)
	}
}

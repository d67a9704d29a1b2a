package redisx

import "time"

const (
	// Session token -> {"user_id": "...", "role": "..."}: session:{token}
	KeySession = "session:%s"

	// Cache status order: order_status:{order_id} -> {"status": "...", "total_cents": ...}
	KeyOrderStatus = "order_status:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLSession     = 12 * time.Hour
	TTLStatusCache = 5 * time.Minute
	TTLDedup       = 48 * time.Hour
)

package redisx

import "time"

const (
	// Idempotency create order: idem:order:create:{external_id} -> order_id
	KeyIdemOrderCreate = "idem:order:create:%s"

	// Cache status order: order_status:{order_id} -> {"status": "..."}
	KeyOrderStatus = "order_status:%s"

	// Whole menu as served by GET /menu
	KeyMenu = "menu:all"

	// Table selected on a kiosk device: kiosk:{device_id}:table -> "4"
	KeyKioskTable = "kiosk:%s:table"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLIdempotency = 24 * time.Hour
	TTLStatusCache = 5 * time.Minute
	TTLMenuCache   = 2 * time.Minute
	TTLDedup       = 48 * time.Hour
)

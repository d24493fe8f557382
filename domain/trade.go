package domain

// Trade is an immutable record of one match between an aggressive (taking)
// order and a passive (resting) order. Price is always the passive order's
// price — the aggressor crosses the resting book at the book's price, never
// its own.
type Trade struct {
	Symbol            string
	Price             int64
	Volume            int64
	AggressiveOrderID int64
	PassiveOrderID    int64
}

package protocol

import (
	"strconv"
	"strings"

	"limitbook/matching"
)

// FormatTrade renders a trade as
// "<symbol>,<price>,<volume>,<aggressive_order_id>,<passive_order_id>".
func FormatTrade(t matching.Trade) string {
	var b strings.Builder
	b.WriteString(t.Symbol)
	b.WriteByte(',')
	b.WriteString(FormatPrice(t.Price))
	b.WriteByte(',')
	b.WriteString(strconv.FormatInt(t.Volume, 10))
	b.WriteByte(',')
	b.WriteString(strconv.FormatInt(t.AggressiveOrderID, 10))
	b.WriteByte(',')
	b.WriteString(strconv.FormatInt(t.PassiveOrderID, 10))
	return b.String()
}

// FormatSnapshot renders the per-symbol sections: a "===<symbol>==="
// separator followed by one row per price level, pairing the i-th best bid
// with the i-th best ask. Where one side runs out first its fields are
// empty strings, e.g. ",,12.1,3" or "12.2,5,,".
func FormatSnapshot(books []matching.OrderBook) []string {
	lines := make([]string, 0, len(books))
	for _, book := range books {
		lines = append(lines, "==="+book.Symbol+"===")

		rows := len(book.Bids)
		if len(book.Asks) > rows {
			rows = len(book.Asks)
		}
		for i := 0; i < rows; i++ {
			var bidPrice, bidVolume, askPrice, askVolume string
			if i < len(book.Bids) {
				bidPrice = FormatPrice(book.Bids[i].Price)
				bidVolume = strconv.FormatInt(book.Bids[i].Volume, 10)
			}
			if i < len(book.Asks) {
				askPrice = FormatPrice(book.Asks[i].Price)
				askVolume = strconv.FormatInt(book.Asks[i].Volume, 10)
			}
			lines = append(lines, bidPrice+","+bidVolume+","+askPrice+","+askVolume)
		}
	}
	return lines
}

// FormatPrice renders a shifted fixed-point price (x10000) back to a
// decimal string with trailing fractional zeros removed, e.g.
// 234500 -> "23.45", 4120000 -> "412", 3854 -> "0.3854".
//
// This is hand-rolled rather than decimal.Decimal.String(): the latter
// does not promise to trim trailing zeros, and the wire format here is
// pinned bit-for-bit by golden scenario output, so a few lines of integer
// arithmetic beat depending on undocumented behavior of a dependency
// that's a great fit for parsing but not for this exact rendering rule.
func FormatPrice(shifted int64) string {
	negative := shifted < 0
	if negative {
		shifted = -shifted
	}

	whole := shifted / 10000
	frac := shifted % 10000

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	b.WriteString(strconv.FormatInt(whole, 10))

	if frac != 0 {
		fracDigits := strings.TrimRight(fmt4(frac), "0")
		b.WriteByte('.')
		b.WriteString(fracDigits)
	}
	return b.String()
}

// fmt4 zero-pads n (0 <= n < 10000) to exactly four digits.
func fmt4(n int64) string {
	s := strconv.FormatInt(n, 10)
	for len(s) < 4 {
		s = "0" + s
	}
	return s
}

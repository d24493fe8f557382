// Package matching implements the central limit order book: a
// single-threaded, synchronous matching engine over one or more symbols.
// There is no concurrency inside the engine — no goroutines, channels, or
// locks — callers drive it one Command at a time and every Command
// completes, trades and all, before the next begins.
package matching

import (
	"strings"

	rbt "github.com/emirpasic/gods/v2/trees/redblacktree"

	"limitbook/domain"
	"limitbook/orderbook"
)

// OrderBook is a per-symbol snapshot of resting liquidity, best price first
// on each side.
type OrderBook struct {
	Symbol string
	Bids   []orderbook.Level
	Asks   []orderbook.Level
}

// Trade is re-exported from domain so callers only need to import matching.
type Trade = domain.Trade

type location struct {
	symbol string
	side   domain.Side
}

// Engine holds all per-symbol books for one stream of commands, plus the
// order directory and trade log spec.md §4.3 describes. The zero value is
// not usable; construct with NewEngine.
type Engine struct {
	buys      *rbt.Tree[string, *orderbook.SideBook]
	sells     *rbt.Tree[string, *orderbook.SideBook]
	directory map[int64]location
	seq       uint64
	trades    []domain.Trade
}

// NewEngine creates an engine with no resting orders and no trade history.
func NewEngine() *Engine {
	return &Engine{
		buys:      rbt.NewWith[string, *orderbook.SideBook](strings.Compare),
		sells:     rbt.NewWith[string, *orderbook.SideBook](strings.Compare),
		directory: make(map[int64]location),
	}
}

// Trades returns every trade generated so far, in the order they were
// produced.
func (e *Engine) Trades() []domain.Trade {
	return e.trades
}

func (e *Engine) treeFor(side domain.Side) *rbt.Tree[string, *orderbook.SideBook] {
	if side == domain.Buy {
		return e.buys
	}
	return e.sells
}

func (e *Engine) oppositeTreeFor(side domain.Side) *rbt.Tree[string, *orderbook.SideBook] {
	if side == domain.Buy {
		return e.sells
	}
	return e.buys
}

// Insert adds a new order, duplicate OrderIds are a client-misuse no-op
// (spec.md §7): the engine treats OrderIds as globally unique. volume must
// be > 0 and price >= 0; the engine trusts its caller on that, per spec.md
// §7 — malformed input is the parser's problem, not the engine's.
func (e *Engine) Insert(orderID int64, symbol string, side domain.Side, price, volume int64) {
	if _, exists := e.directory[orderID]; exists {
		return
	}
	e.directory[orderID] = location{symbol: symbol, side: side}
	e.seq++
	order := &domain.Order{OrderID: orderID, Price: price, Volume: volume, Seq: e.seq}
	e.matchAndRest(symbol, side, order)
}

// Amend changes the price and/or volume of a resting order. An unknown
// OrderId, or one already fully matched or pulled, is silently ignored.
//
// Decreasing volume while leaving price untouched mutates the order in
// place and keeps its queue position. Any other change — a new price, an
// increased volume, or no change at all — forfeits time priority: the
// order is pulled and re-inserted with a fresh sequence number, which may
// immediately generate trades.
func (e *Engine) Amend(orderID, newPrice, newVolume int64) {
	loc, exists := e.directory[orderID]
	if !exists {
		return
	}
	tree := e.treeFor(loc.side)
	book, ok := tree.Get(loc.symbol)
	if !ok {
		return
	}
	current, found := book.Find(orderID)
	if !found {
		return
	}

	if newPrice == current.Price && newVolume < current.Volume {
		current.Volume = newVolume
		return
	}

	book.Remove(orderID)
	if book.IsEmpty() {
		tree.Remove(loc.symbol)
	}

	e.seq++
	reissued := &domain.Order{OrderID: orderID, Price: newPrice, Volume: newVolume, Seq: e.seq}
	e.matchAndRest(loc.symbol, loc.side, reissued)
}

// Pull removes a resting order. An unknown OrderId is silently ignored. The
// directory entry is left in place — spec.md §9's retire-and-remember rule
// — so a later Pull or Amend of the same id is also a no-op, even if the
// order was already fully matched rather than pulled.
func (e *Engine) Pull(orderID int64) {
	loc, exists := e.directory[orderID]
	if !exists {
		return
	}
	tree := e.treeFor(loc.side)
	book, ok := tree.Get(loc.symbol)
	if !ok {
		return
	}
	book.Remove(orderID)
	if book.IsEmpty() {
		tree.Remove(loc.symbol)
	}
}

// matchAndRest runs aggressive against the opposite side's book for symbol,
// logging a trade per cross, then rests whatever volume remains.
func (e *Engine) matchAndRest(symbol string, side domain.Side, aggressive *domain.Order) {
	opposite := e.oppositeTreeFor(side)

	for aggressive.Volume > 0 {
		passiveBook, ok := opposite.Get(symbol)
		if !ok || passiveBook.IsEmpty() {
			break
		}

		passive := passiveBook.Top()
		if !crosses(side, aggressive.Price, passive.Price) {
			break
		}

		volume := min(aggressive.Volume, passive.Volume)
		e.trades = append(e.trades, domain.Trade{
			Symbol:            symbol,
			Price:             passive.Price,
			Volume:            volume,
			AggressiveOrderID: aggressive.OrderID,
			PassiveOrderID:    passive.OrderID,
		})

		aggressive.Volume -= volume
		passive.Volume -= volume

		if passive.Volume == 0 {
			passiveBook.PopTop()
			if passiveBook.IsEmpty() {
				opposite.Remove(symbol)
			}
		}
	}

	if aggressive.Volume > 0 {
		e.rest(symbol, side, aggressive)
	}
}

// crosses reports whether an aggressive order on side, priced at
// aggressivePrice, crosses a resting order priced at passivePrice.
func crosses(side domain.Side, aggressivePrice, passivePrice int64) bool {
	if side == domain.Buy {
		return passivePrice <= aggressivePrice
	}
	return passivePrice >= aggressivePrice
}

func (e *Engine) rest(symbol string, side domain.Side, order *domain.Order) {
	tree := e.treeFor(side)
	book, ok := tree.Get(symbol)
	if !ok {
		book = orderbook.NewSideBook(side)
		tree.Put(symbol, book)
	}
	book.Push(order)
}

// SnapshotBooks returns one OrderBook per symbol with resting liquidity on
// either side, symbols sorted ascending by byte-wise comparison. It is
// read-only: it does not mutate any resting order or book.
func (e *Engine) SnapshotBooks() []OrderBook {
	return e.snapshot(-1)
}

// SnapshotBooksDepth is SnapshotBooks truncated to at most depth price
// levels per side.
func (e *Engine) SnapshotBooksDepth(depth int) []OrderBook {
	return e.snapshot(depth)
}

func (e *Engine) snapshot(depth int) []OrderBook {
	symbols := e.activeSymbols()
	books := make([]OrderBook, 0, len(symbols))
	for _, symbol := range symbols {
		var bids, asks []orderbook.Level
		if book, ok := e.buys.Get(symbol); ok {
			bids = levelsFor(book, depth)
		}
		if book, ok := e.sells.Get(symbol); ok {
			asks = levelsFor(book, depth)
		}
		books = append(books, OrderBook{Symbol: symbol, Bids: bids, Asks: asks})
	}
	return books
}

func levelsFor(book *orderbook.SideBook, depth int) []orderbook.Level {
	if depth < 0 {
		return book.Levels()
	}
	return book.LevelsDepth(depth)
}

// activeSymbols returns the union of keys across buys and sells, sorted. Both
// trees are already ordered by strings.Compare, so the union is a standard
// merge of two sorted sequences rather than a collect-into-a-map-then-sort.
func (e *Engine) activeSymbols() []string {
	buysIt, sellsIt := e.buys.Iterator(), e.sells.Iterator()
	haveBuy, haveSell := buysIt.Next(), sellsIt.Next()

	symbols := make([]string, 0, e.buys.Size()+e.sells.Size())
	for haveBuy || haveSell {
		switch {
		case !haveSell || (haveBuy && buysIt.Key() < sellsIt.Key()):
			symbols = append(symbols, buysIt.Key())
			haveBuy = buysIt.Next()
		case !haveBuy || (haveSell && sellsIt.Key() < buysIt.Key()):
			symbols = append(symbols, sellsIt.Key())
			haveSell = sellsIt.Next()
		default: // equal keys: emit once, advance both
			symbols = append(symbols, buysIt.Key())
			haveBuy, haveSell = buysIt.Next(), sellsIt.Next()
		}
	}
	return symbols
}

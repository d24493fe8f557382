// Package protocol speaks the CSV-like line protocol spec.md §6 defines:
// parsing command lines into matching.Command values, and rendering trades
// and snapshots back out. Nothing here is part of the matching engine's
// hard engineering — it is the boundary contract around it.
package protocol

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"limitbook/domain"
	"limitbook/matching"
)

// ParseError reports a protocol violation: an unrecognized verb, the wrong
// number of fields, an unparseable number, or a side token outside
// {BUY, SELL}. Per spec.md §7 these are fatal at the parser boundary —
// ParseCommand never silently drops a malformed line the way the engine
// silently drops a client-misuse command.
type ParseError struct {
	Line string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed command %q: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseCommand parses one line of the wire grammar:
//
//	INSERT,<order_id>,<symbol>,<side>,<price>,<volume>
//	AMEND,<order_id>,<price>,<volume>
//	PULL,<order_id>
func ParseCommand(line string) (matching.Command, error) {
	fields := strings.Split(line, ",")
	switch fields[0] {
	case "INSERT":
		return parseInsert(line, fields)
	case "AMEND":
		return parseAmend(line, fields)
	case "PULL":
		return parsePull(line, fields)
	default:
		return nil, &ParseError{Line: line, Err: fmt.Errorf("unknown command %q", fields[0])}
	}
}

func parseInsert(line string, fields []string) (matching.Command, error) {
	if len(fields) != 6 {
		return nil, &ParseError{Line: line, Err: fmt.Errorf("want 6 fields, got %d", len(fields))}
	}
	orderID, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return nil, &ParseError{Line: line, Err: fmt.Errorf("order_id: %w", err)}
	}
	side, err := parseSide(fields[3])
	if err != nil {
		return nil, &ParseError{Line: line, Err: err}
	}
	price, err := ParsePrice(fields[4])
	if err != nil {
		return nil, &ParseError{Line: line, Err: fmt.Errorf("price: %w", err)}
	}
	volume, err := strconv.ParseInt(fields[5], 10, 64)
	if err != nil {
		return nil, &ParseError{Line: line, Err: fmt.Errorf("volume: %w", err)}
	}
	return matching.InsertCommand{
		OrderID: orderID,
		Symbol:  fields[2],
		Side:    side,
		Price:   price,
		Volume:  volume,
	}, nil
}

func parseAmend(line string, fields []string) (matching.Command, error) {
	if len(fields) != 4 {
		return nil, &ParseError{Line: line, Err: fmt.Errorf("want 4 fields, got %d", len(fields))}
	}
	orderID, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return nil, &ParseError{Line: line, Err: fmt.Errorf("order_id: %w", err)}
	}
	price, err := ParsePrice(fields[2])
	if err != nil {
		return nil, &ParseError{Line: line, Err: fmt.Errorf("price: %w", err)}
	}
	volume, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil {
		return nil, &ParseError{Line: line, Err: fmt.Errorf("volume: %w", err)}
	}
	return matching.AmendCommand{OrderID: orderID, Price: price, Volume: volume}, nil
}

func parsePull(line string, fields []string) (matching.Command, error) {
	if len(fields) != 2 {
		return nil, &ParseError{Line: line, Err: fmt.Errorf("want 2 fields, got %d", len(fields))}
	}
	orderID, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return nil, &ParseError{Line: line, Err: fmt.Errorf("order_id: %w", err)}
	}
	return matching.PullCommand{OrderID: orderID}, nil
}

func parseSide(token string) (domain.Side, error) {
	switch token {
	case "BUY":
		return domain.Buy, nil
	case "SELL":
		return domain.Sell, nil
	default:
		return 0, fmt.Errorf("invalid side %q", token)
	}
}

// ParsePrice shifts a decimal string with up to four fractional digits into
// a signed fixed-point integer, e.g. "23.45" -> 234500. It uses
// shopspring/decimal so the shift is exact arbitrary-precision arithmetic
// (Decimal.Shift just moves the exponent) rather than a float64
// multiplication, which would round at the edges for values like
// "0.1" * 10000.
func ParsePrice(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	return d.Shift(4).IntPart(), nil
}

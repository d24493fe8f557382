package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"

	"limitbook/matching"
)

// replay feeds every line through ParseCommand and the engine, then returns
// the rendered output lines (trades, then snapshot sections) exactly as
// cmd/clobctl would print them.
func replay(t *testing.T, lines []string) []string {
	t.Helper()
	engine := matching.NewEngine()
	for _, line := range lines {
		cmd, err := ParseCommand(line)
		require.NoError(t, err, "line %q", line)
		engine.Apply(cmd)
	}
	out := make([]string, 0)
	for _, trade := range engine.Trades() {
		out = append(out, FormatTrade(trade))
	}
	out = append(out, FormatSnapshot(engine.SnapshotBooks())...)
	return out
}

func TestScenarioS1SingleInsert(t *testing.T) {
	got := replay(t, []string{"INSERT,1,AAPL,BUY,12.2,5"})
	require.Equal(t, []string{"===AAPL===", "12.2,5,,"}, got)
}

func TestScenarioS2SimpleMatch(t *testing.T) {
	got := replay(t, []string{
		"INSERT,1,AAPL,BUY,12.2,5",
		"INSERT,2,AAPL,SELL,12.1,8",
	})
	require.Equal(t, []string{
		"AAPL,12.2,5,2,1",
		"===AAPL===",
		",,12.1,3",
	}, got)
}

func TestScenarioS3MultiLevelMatchWithPull(t *testing.T) {
	// A sell aggressor (order 8) walks the buy side best-to-worst after
	// order 1 is pulled while still resting: it clears the two remaining
	// orders at 14.235 in arrival order, then the order at 14.234, then
	// stops short of 14.23, resting its leftover volume on the sell side.
	got := replay(t, []string{
		"INSERT,1,AAPL,BUY,14.235,5",
		"INSERT,2,AAPL,BUY,14.235,6",
		"INSERT,3,AAPL,BUY,14.235,12",
		"INSERT,4,AAPL,BUY,14.234,5",
		"INSERT,5,AAPL,BUY,14.23,3",
		"INSERT,6,AAPL,SELL,14.237,8",
		"INSERT,7,AAPL,SELL,14.24,9",
		"PULL,1",
		"INSERT,8,AAPL,SELL,14.234,25",
	})
	require.Equal(t, []string{
		"AAPL,14.235,6,8,2",
		"AAPL,14.235,12,8,3",
		"AAPL,14.234,5,8,4",
		"===AAPL===",
		"14.23,3,14.234,2",
		",,14.237,8",
		",,14.24,9",
	}, got)
}

func TestScenarioS4AlphabeticalSymbolOrdering(t *testing.T) {
	got := replay(t, []string{
		"INSERT,1,C,BUY,1,1",
		"INSERT,2,A,BUY,1,1",
		"INSERT,3,B,BUY,1,1",
		"INSERT,4,E,BUY,1,1",
		"INSERT,5,D,BUY,1,1",
	})
	require.Equal(t, []string{
		"===A===", "1,1,,",
		"===B===", "1,1,,",
		"===C===", "1,1,,",
		"===D===", "1,1,,",
		"===E===", "1,1,,",
	}, got)
}

func TestScenarioS5AmendPreservesPriorityOnlyOnVolumeDecrease(t *testing.T) {
	got := replay(t, []string{
		"INSERT,1,A,SELL,3,1",
		"INSERT,2,A,SELL,3,1",
		"INSERT,3,A,SELL,3,1",
		"INSERT,4,A,BUY,1,4",
		"AMEND,4,3,4",
	})
	require.Equal(t, []string{
		"A,3,1,4,1",
		"A,3,1,4,2",
		"A,3,1,4,3",
		"===A===",
		"3,1,,",
	}, got)
}

func TestScenarioS6AmendToUnchangedParametersForfeitsPriority(t *testing.T) {
	engine := matching.NewEngine()
	apply := func(line string) {
		cmd, err := ParseCommand(line)
		require.NoError(t, err)
		engine.Apply(cmd)
	}

	apply("INSERT,1,WEBB,BUY,45.95,5")
	apply("INSERT,2,WEBB,BUY,45.95,1")
	apply("AMEND,1,45.95,3") // pure volume decrease, keeps priority
	apply("AMEND,1,45.95,5") // raises volume back up: forfeits priority
	apply("INSERT,3,WEBB,SELL,45.95,1")

	trades := engine.Trades()
	require.Len(t, trades, 1)
	require.Equal(t, int64(2), trades[0].PassiveOrderID, "order 2 now sits ahead of the re-issued order 1")
}

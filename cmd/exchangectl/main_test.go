package main

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/adamjr36/OrderBook/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTempCSV writes content to a temp file and returns an *os.File open
// for reading, matching what main() hands to run.
func writeTempCSV(t *testing.T, content string) *os.File {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "exchangectl-*.csv")
	require.NoError(t, err)
	_, err = f.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	f, err = os.Open(f.Name())
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestRunAddAndShowBest(t *testing.T) {
	in := writeTempCSV(t, "ADD,a1,alice,sell,101,100\nADD,b1,bob,buy,99,50\nSHOW_BEST\n")
	var out bytes.Buffer

	book := engine.NewBook()
	err := run(book, in, &out)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "ADDED,a1,0_trades", lines[0])
	assert.Equal(t, "ADDED,b1,0_trades", lines[1])
	assert.Equal(t, "BEST,99.00,101.00", lines[2])
}

func TestRunCrossEmitsTrade(t *testing.T) {
	in := writeTempCSV(t, "ADD,a1,alice,sell,100,50\nADD,b1,bob,buy,101,50\n")
	var out bytes.Buffer

	book := engine.NewBook()
	err := run(book, in, &out)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "ADDED,a1,0_trades")
	assert.Contains(t, text, "ADDED,b1,1_trades")
	assert.Contains(t, text, "TRADE,TRADE-00000001")
}

func TestRunRemove(t *testing.T) {
	in := writeTempCSV(t, "ADD,a1,alice,buy,99,10\nREMOVE,a1\nREMOVE,a1\n")
	var out bytes.Buffer

	book := engine.NewBook()
	err := run(book, in, &out)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "REMOVED,a1", lines[1])
	assert.Equal(t, "NOT_FOUND,a1", lines[2])
}

func TestRunShowTopAndGetTrade(t *testing.T) {
	in := writeTempCSV(t, "ADD,a1,alice,sell,100,50\nADD,b1,bob,buy,101,50\nSHOW_TOP,1\nGET_TRADE,TRADE-00000001\nGET_TRADE,TRADE-00000099\n")
	var out bytes.Buffer

	book := engine.NewBook()
	err := run(book, in, &out)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "TRADE,TRADE-00000001,b1,a1,100.00,50")
	assert.Contains(t, text, "NOT_FOUND,TRADE-00000099")
}

func TestRunIgnoresBlankLinesAndUnknownCommands(t *testing.T) {
	in := writeTempCSV(t, "\n\nBOGUS_COMMAND,x\n\nSHOW_BEST\n")
	var out bytes.Buffer

	book := engine.NewBook()
	err := run(book, in, &out)
	require.NoError(t, err)
	assert.Equal(t, "BEST,0.00,0.00", strings.TrimSpace(out.String()))
}

func TestRunAddWithoutOrderIDMintsOne(t *testing.T) {
	in := writeTempCSV(t, "ADD,,alice,buy,99,10\n")
	var out bytes.Buffer

	book := engine.NewBook()
	err := run(book, in, &out)
	require.NoError(t, err)

	bids, _ := book.Depth(0)
	require.Len(t, bids, 1)
	assert.Equal(t, 99.0, bids[0].Price)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(out.String()), "ADDED,"))
}

// Command exchangectl is an external CSV driver layered on top of the
// internal/engine API. It is a replay/testing harness, not part of the
// order book core: it owns its own process, its own logging, and its own
// id minting for rows that omit an order_id.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/adamjr36/OrderBook/internal/common"
	"github.com/adamjr36/OrderBook/internal/engine"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	inPath := flag.String("in", "", "path to a CSV command file (defaults to stdin)")
	logLevel := flag.String("log-level", "info", "zerolog level: debug, info, warn, error")
	flag.Parse()

	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "exchangectl: invalid -log-level %q: %v\n", *logLevel, err)
		os.Exit(1)
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	in := os.Stdin
	if *inPath != "" {
		f, err := os.Open(*inPath)
		if err != nil {
			log.Error().Err(err).Str("path", *inPath).Msg("unable to open input file")
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}

	book := engine.NewBook()
	if err := run(book, in, os.Stdout); err != nil {
		log.Error().Err(err).Msg("fatal error processing input")
		os.Exit(1)
	}
}

// run drains commands from in and writes command output to out. It only
// returns an error for conditions that should abort the whole process;
// a single malformed row is logged and skipped.
func run(book *engine.Book, in *os.File, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		dispatch(book, line, out)
	}
	return scanner.Err()
}

func dispatch(book *engine.Book, line string, out io.Writer) {
	fields := strings.Split(line, ",")
	cmd := strings.ToUpper(strings.TrimSpace(fields[0]))

	switch cmd {
	case "ADD":
		handleAdd(book, fields, out)
	case "REMOVE":
		handleRemove(book, fields, out)
	case "SHOW_BEST", "BEST_BID", "BEST_ASK":
		handleBest(book, cmd, out)
	case "SHOW_TOP":
		handleShowTop(book, fields, out)
	case "SHOW_ALL_TRADES":
		handleShowAllTrades(book, out)
	case "GET_TRADE":
		handleGetTrade(book, fields, out)
	default:
		log.Warn().Str("command", fields[0]).Msg("unknown command, ignoring")
	}
}

// handleAdd parses `ADD,order_id,user_id,side,price,quantity`. A blank
// order_id mints a fresh one via uuid.NewString so a CSV fixture can drive
// the book without pre-assigning ids.
func handleAdd(book *engine.Book, fields []string, out io.Writer) {
	if len(fields) != 6 {
		log.Warn().Str("line", strings.Join(fields, ",")).Msg("malformed ADD row, expected 6 fields")
		return
	}

	orderID := strings.TrimSpace(fields[1])
	if orderID == "" {
		orderID = uuid.NewString()
	}
	userID := strings.TrimSpace(fields[2])
	side := parseSide(fields[3])

	price, err := strconv.ParseFloat(strings.TrimSpace(fields[4]), 64)
	if err != nil {
		log.Warn().Err(err).Str("price", fields[4]).Msg("malformed ADD price, skipping row")
		return
	}
	qty, err := strconv.ParseUint(strings.TrimSpace(fields[5]), 10, 64)
	if err != nil {
		log.Warn().Err(err).Str("quantity", fields[5]).Msg("malformed ADD quantity, skipping row")
		return
	}

	tradeIDs, err := book.Submit(common.Order{
		OrderID:  orderID,
		UserID:   userID,
		Side:     side,
		Price:    price,
		Quantity: qty,
	})
	if err != nil {
		log.Warn().Err(err).Str("order_id", orderID).Msg("order rejected")
		return
	}

	fmt.Fprintf(out, "ADDED,%s,%d_trades\n", orderID, len(tradeIDs))
	for _, id := range tradeIDs {
		fmt.Fprintf(out, "TRADE,%s\n", id)
	}
}

// parseSide follows the command surface's rule: case-insensitive "buy",
// anything else treated as sell.
func parseSide(s string) common.Side {
	if strings.EqualFold(strings.TrimSpace(s), "buy") {
		return common.Buy
	}
	return common.Sell
}

func handleRemove(book *engine.Book, fields []string, out io.Writer) {
	if len(fields) != 2 {
		log.Warn().Str("line", strings.Join(fields, ",")).Msg("malformed REMOVE row, expected 2 fields")
		return
	}
	orderID := strings.TrimSpace(fields[1])
	if book.Cancel(orderID) {
		fmt.Fprintf(out, "REMOVED,%s\n", orderID)
	} else {
		log.Warn().Str("order_id", orderID).Msg("cancel target not found")
		fmt.Fprintf(out, "NOT_FOUND,%s\n", orderID)
	}
}

func handleBest(book *engine.Book, cmd string, out io.Writer) {
	switch cmd {
	case "BEST_BID":
		fmt.Fprintf(out, "BEST_BID,%.2f\n", book.BestBid())
	case "BEST_ASK":
		fmt.Fprintf(out, "BEST_ASK,%.2f\n", book.BestAsk())
	default: // SHOW_BEST
		fmt.Fprintf(out, "BEST,%.2f,%.2f\n", book.BestBid(), book.BestAsk())
	}
}

func handleShowTop(book *engine.Book, fields []string, out io.Writer) {
	k := 0
	if len(fields) == 2 {
		parsed, err := strconv.Atoi(strings.TrimSpace(fields[1]))
		if err != nil {
			log.Warn().Err(err).Str("k", fields[1]).Msg("malformed SHOW_TOP depth, defaulting to all levels")
		} else {
			k = parsed
		}
	}

	bids, asks := book.Depth(k)
	for _, lvl := range bids {
		fmt.Fprintf(out, "BID,%.2f,%d\n", lvl.Price, lvl.Quantity)
	}
	for _, lvl := range asks {
		fmt.Fprintf(out, "ASK,%.2f,%d\n", lvl.Price, lvl.Quantity)
	}
}

func handleShowAllTrades(book *engine.Book, out io.Writer) {
	for _, t := range book.Trades() {
		fmt.Fprintf(out, "TRADE,%s,%s,%s,%.2f,%d\n", t.TradeID, t.BuyOrderID, t.SellOrderID, t.Price, t.Size)
	}
}

func handleGetTrade(book *engine.Book, fields []string, out io.Writer) {
	if len(fields) != 2 {
		log.Warn().Str("line", strings.Join(fields, ",")).Msg("malformed GET_TRADE row, expected 2 fields")
		return
	}
	tradeID := strings.TrimSpace(fields[1])
	t, ok := book.TradeByID(tradeID)
	if !ok {
		log.Warn().Str("trade_id", tradeID).Msg("trade not found")
		fmt.Fprintf(out, "NOT_FOUND,%s\n", tradeID)
		return
	}
	fmt.Fprintf(out, "TRADE,%s,%s,%s,%.2f,%d\n", t.TradeID, t.BuyOrderID, t.SellOrderID, t.Price, t.Size)
}

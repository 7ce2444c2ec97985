// Package console drives the interactive terminal session: it collects
// participants and transactions line by line, rejects malformed input with a
// message, and prints the minimised settlement plan.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vishakhaja/Transaction-Minimiser-proj/internal/ledger"
	"github.com/vishakhaja/Transaction-Minimiser-proj/internal/render"
	"github.com/vishakhaja/Transaction-Minimiser-proj/internal/settle"
)

const stopWord = "STOP"

var (
	ErrInvalidCount  = errors.New("number of people must be a positive integer")
	ErrCountMismatch = errors.New("number of names does not match the number of people")
	ErrFieldCount    = errors.New("invalid transaction format, use {giver taker amount}")
	ErrAmount        = errors.New("amount must be an integer")
)

type Options struct {
	// Quiet suppresses prompts, for piped input.
	Quiet bool
	Order settle.Order
}

// Session is everything collected from one run plus the computed plan.
type Session struct {
	Participants []ledger.Participant
	Transactions []ledger.Transaction
	Balances     *ledger.Balances
	Settlements  []settle.Settlement
}

// ParseTransaction reads "giver taker amount".
func ParseTransaction(line string) (ledger.Transaction, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return ledger.Transaction{}, ErrFieldCount
	}
	amount, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		return ledger.Transaction{}, ErrAmount
	}
	return ledger.Transaction{
		Giver:  ledger.Participant(fields[0]),
		Taker:  ledger.Participant(fields[1]),
		Amount: amount,
	}, nil
}

// Run reads the whole session from in and writes prompts and per-line errors to out.
// It fails only when the participant list itself is unusable or reading fails.
func Run(in io.Reader, out io.Writer, opts Options) (*Session, error) {
	sc := bufio.NewScanner(in)
	prompt := func(s string) {
		if !opts.Quiet {
			fmt.Fprint(out, s)
		}
	}

	prompt("Enter the number of people: ")
	line, err := nextLine(sc)
	if err != nil {
		return nil, err
	}
	count, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || count <= 0 {
		return nil, ErrInvalidCount
	}

	prompt("Enter the names of the people (separated by spaces): ")
	line, err = nextLine(sc)
	if err != nil {
		return nil, err
	}
	fields := strings.Fields(line)
	if len(fields) != count {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrCountMismatch, count, len(fields))
	}
	participants := make([]ledger.Participant, 0, len(fields))
	for _, f := range fields {
		participants = append(participants, ledger.Participant(f))
	}

	balances := ledger.Initialize(participants)
	var txs []ledger.Transaction

	prompt("Enter transactions in the form {giver taker amount} (type STOP to finish):\n")
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.EqualFold(line, stopWord) {
			break
		}
		tx, err := ParseTransaction(line)
		if err != nil {
			fmt.Fprintf(out, "Error: %v.\n", err)
			continue
		}
		if err := balances.Apply(tx); err != nil {
			var upe *ledger.UnknownParticipantError
			if errors.As(err, &upe) {
				fmt.Fprintf(out, "Error: %s is not part of the initial list of people.\n", upe.Participant)
				continue
			}
			if errors.Is(err, ledger.ErrAmountOverflow) {
				fmt.Fprintf(out, "Error: %v.\n", err)
				continue
			}
			return nil, err
		}
		txs = append(txs, tx)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading transactions: %w", err)
	}

	settlements, err := settle.Minimize(balances, settle.WithOrder(opts.Order))
	if err != nil {
		return nil, err
	}

	return &Session{
		Participants: balances.Participants(),
		Transactions: txs,
		Balances:     balances,
		Settlements:  settlements,
	}, nil
}

func nextLine(sc *bufio.Scanner) (string, error) {
	if sc.Scan() {
		return sc.Text(), nil
	}
	if err := sc.Err(); err != nil {
		return "", err
	}
	return "", io.ErrUnexpectedEOF
}

// IsInputError reports whether err comes from the participant prompts rather
// than from an internal failure.
func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidCount) ||
		errors.Is(err, ErrCountMismatch) ||
		errors.Is(err, io.ErrUnexpectedEOF)
}

// Message renders err in the same "Error: ..." form used for rejected lines.
func Message(err error) string {
	text := err.Error()
	if errors.Is(err, io.ErrUnexpectedEOF) {
		text = "input ended before the participant list was complete"
	}
	if text != "" {
		text = strings.ToUpper(text[:1]) + text[1:]
	}
	return "Error: " + text + ".\n"
}

// Report prints balances, the original transfers and the settlement plan.
func Report(out io.Writer, s *Session) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Balances")
	fmt.Fprint(out, render.Table(s.Balances))

	fmt.Fprintf(out, "\nOriginal transactions (%d)\n", len(s.Transactions))
	fmt.Fprint(out, render.EdgeList(render.EdgesFromTransactions(s.Transactions)))

	fmt.Fprintf(out, "\nMinimised transactions (%d)\n", len(s.Settlements))
	if len(s.Settlements) == 0 {
		fmt.Fprintln(out, "No settlement needed")
		return
	}
	fmt.Fprint(out, render.EdgeList(render.EdgesFromSettlements(s.Settlements)))
}

// Graphs returns the before and after diagrams for the session.
func (s *Session) Graphs() (before, after render.Graph) {
	before = render.Graph{
		Title:        "Original transactions",
		Participants: s.Participants,
		Edges:        render.EdgesFromTransactions(s.Transactions),
	}
	after = render.Graph{
		Title:        "Minimised transactions",
		Participants: s.Participants,
		Edges:        render.EdgesFromSettlements(s.Settlements),
	}
	return before, after
}

package console

import (
	"bytes"
	"errors"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishakhaja/Transaction-Minimiser-proj/internal/ledger"
	"github.com/vishakhaja/Transaction-Minimiser-proj/internal/settle"
)

func TestParseTransaction(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    ledger.Transaction
		wantErr error
	}{
		{name: "ok", line: "A B 50", want: ledger.Transaction{Giver: "A", Taker: "B", Amount: 50}},
		{name: "extra spaces", line: "  A   B  -5 ", want: ledger.Transaction{Giver: "A", Taker: "B", Amount: -5}},
		{name: "too few fields", line: "A B", wantErr: ErrFieldCount},
		{name: "too many fields", line: "A B 1 2", wantErr: ErrFieldCount},
		{name: "not an integer", line: "A B 1.5", wantErr: ErrAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTransaction(tt.line)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRun(t *testing.T) {
	input := strings.Join([]string{
		"3",
		"A B C",
		"A B 50",
		"A B",
		"A B ten",
		"A Z 5",
		"",
		"B C 30",
		"stop",
		"C A 999",
	}, "\n")

	var out bytes.Buffer
	s, err := Run(strings.NewReader(input), &out, Options{})
	require.NoError(t, err)

	assert.Equal(t, []ledger.Participant{"A", "B", "C"}, s.Participants)
	assert.Equal(t, []ledger.Transaction{
		{Giver: "A", Taker: "B", Amount: 50},
		{Giver: "B", Taker: "C", Amount: 30},
	}, s.Transactions)
	assert.Equal(t, []settle.Settlement{
		{Payer: "A", Payee: "B", Amount: 20},
		{Payer: "A", Payee: "C", Amount: 30},
	}, s.Settlements)

	printed := out.String()
	assert.Contains(t, printed, "Enter the number of people: ")
	assert.Contains(t, printed, "Error: invalid transaction format, use {giver taker amount}.")
	assert.Contains(t, printed, "Error: amount must be an integer.")
	assert.Contains(t, printed, "Error: Z is not part of the initial list of people.")
}

func TestRunQuietStopsAtEOF(t *testing.T) {
	var out bytes.Buffer
	s, err := Run(strings.NewReader("2\nA B\nA B 5\n"), &out, Options{Quiet: true})
	require.NoError(t, err)
	assert.Empty(t, out.String())
	assert.Len(t, s.Transactions, 1)
	assert.Equal(t, []settle.Settlement{{Payer: "A", Payee: "B", Amount: 5}}, s.Settlements)
}

func TestRunRejectsParticipantList(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "bad count", input: "x\n", wantErr: ErrInvalidCount},
		{name: "zero count", input: "0\n", wantErr: ErrInvalidCount},
		{name: "mismatch", input: "3\nA B\n", wantErr: ErrCountMismatch},
		{name: "eof before names", input: "2\n", wantErr: io.ErrUnexpectedEOF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Run(strings.NewReader(tt.input), io.Discard, Options{Quiet: true})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRunSkipsOverflowingTransaction(t *testing.T) {
	input := "3\nA B C\nA B 9223372036854775807\nA C 1\nB C 5\nSTOP\n"

	var out bytes.Buffer
	s, err := Run(strings.NewReader(input), &out, Options{Quiet: true})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Error: amount 1 overflows the balance of giver \"A\"")
	assert.Equal(t, []ledger.Transaction{
		{Giver: "A", Taker: "B", Amount: math.MaxInt64},
		{Giver: "B", Taker: "C", Amount: 5},
	}, s.Transactions)
	assert.Equal(t, []settle.Settlement{
		{Payer: "A", Payee: "B", Amount: math.MaxInt64 - 5},
		{Payer: "A", Payee: "C", Amount: 5},
	}, s.Settlements)
}

func TestInputErrorMessage(t *testing.T) {
	_, err := Run(strings.NewReader("3\nA B\n"), io.Discard, Options{Quiet: true})
	require.Error(t, err)
	assert.True(t, IsInputError(err))
	assert.Equal(t, "Error: Number of names does not match the number of people: expected 3, got 2.\n", Message(err))

	_, err = Run(strings.NewReader("2\n"), io.Discard, Options{Quiet: true})
	assert.True(t, IsInputError(err))
	assert.Equal(t, "Error: Input ended before the participant list was complete.\n", Message(err))

	assert.False(t, IsInputError(errors.New("disk on fire")))
}

func TestReport(t *testing.T) {
	s, err := Run(strings.NewReader("3\nA B C\nA B 10\nB C 10\nC A 10\nSTOP\n"), io.Discard, Options{Quiet: true})
	require.NoError(t, err)

	var out bytes.Buffer
	Report(&out, s)
	assert.Contains(t, out.String(), "Original transactions (3)")
	assert.Contains(t, out.String(), "B pays 10 to C")
	assert.Contains(t, out.String(), "Minimised transactions (0)")
	assert.Contains(t, out.String(), "No settlement needed")

	before, after := s.Graphs()
	assert.Len(t, before.Edges, 3)
	assert.Empty(t, after.Edges)
}

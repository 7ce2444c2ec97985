// Package render formats ledgers and transfer graphs as text: Graphviz DOT for
// diagrams, aligned tables and edge lists for terminals and chat.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vishakhaja/Transaction-Minimiser-proj/internal/ledger"
	"github.com/vishakhaja/Transaction-Minimiser-proj/internal/settle"
)

// Edge is a labelled payment arrow between two participants.
type Edge struct {
	From   ledger.Participant
	To     ledger.Participant
	Amount int64
}

func (e Edge) Label() string {
	return fmt.Sprintf("%s pays %d to %s", e.From, e.Amount, e.To)
}

func EdgesFromTransactions(txs []ledger.Transaction) []Edge {
	out := make([]Edge, 0, len(txs))
	for _, tx := range txs {
		out = append(out, Edge{From: tx.Giver, To: tx.Taker, Amount: tx.Amount})
	}
	return out
}

func EdgesFromSettlements(ss []settle.Settlement) []Edge {
	out := make([]Edge, 0, len(ss))
	for _, s := range ss {
		out = append(out, Edge{From: s.Payer, To: s.Payee, Amount: s.Amount})
	}
	return out
}

// Graph is one titled diagram.
type Graph struct {
	Title        string
	Participants []ledger.Participant
	Edges        []Edge
}

// DOT renders a single digraph.
func DOT(g Graph) string {
	var b strings.Builder
	fmt.Fprintf(&b, "digraph %s {\n", strconv.Quote(g.Title))
	b.WriteString("  layout=circo;\n")
	b.WriteString("  node [shape=box];\n")
	writeBody(&b, "  ", "", g)
	b.WriteString("}\n")
	return b.String()
}

// DOTPair renders the before and after graphs side by side as two clusters of
// one digraph. Node IDs are prefixed per cluster so both can show every participant.
func DOTPair(before, after Graph) string {
	var b strings.Builder
	b.WriteString("digraph \"transactions\" {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=box];\n")
	for idx, g := range []Graph{before, after} {
		prefix := fmt.Sprintf("g%d_", idx)
		fmt.Fprintf(&b, "  subgraph \"cluster_%d\" {\n", idx)
		fmt.Fprintf(&b, "    label=%s;\n", strconv.Quote(g.Title))
		writeBody(&b, "    ", prefix, g)
		b.WriteString("  }\n")
	}
	b.WriteString("}\n")
	return b.String()
}

func writeBody(b *strings.Builder, indent, prefix string, g Graph) {
	for _, p := range g.Participants {
		fmt.Fprintf(b, "%s%s [label=%s];\n", indent, strconv.Quote(prefix+string(p)), strconv.Quote(string(p)))
	}
	for _, e := range g.Edges {
		fmt.Fprintf(b, "%s%s -> %s [label=%s];\n", indent,
			strconv.Quote(prefix+string(e.From)),
			strconv.Quote(prefix+string(e.To)),
			strconv.Quote(e.Label()))
	}
}

// EdgeList writes one "X pays N to Y" line per edge.
func EdgeList(edges []Edge) string {
	var b strings.Builder
	for _, e := range edges {
		b.WriteString(e.Label())
		b.WriteByte('\n')
	}
	return b.String()
}

// Table lays out balances in registration order with aligned columns.
func Table(b *ledger.Balances) string {
	entries := b.Entries()
	width := len("participant")
	for _, e := range entries {
		if n := len(e.Participant); n > width {
			width = n
		}
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-*s  %s\n", width, "participant", "balance")
	for _, e := range entries {
		fmt.Fprintf(&sb, "%-*s  %+d\n", width, e.Participant, e.Balance)
	}
	return sb.String()
}

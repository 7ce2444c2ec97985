package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/vishakhaja/Transaction-Minimiser-proj/internal/console"
	"github.com/vishakhaja/Transaction-Minimiser-proj/internal/logging"
	"github.com/vishakhaja/Transaction-Minimiser-proj/internal/render"
	"github.com/vishakhaja/Transaction-Minimiser-proj/internal/settle"
)

func main() {
	order := flag.String("order", "registration", "settlement order: registration or largest")
	dotPath := flag.String("dot", "", "write a Graphviz file comparing original and minimised transactions")
	quiet := flag.Bool("quiet", false, "suppress prompts when reading from a file or pipe")
	level := flag.String("log-level", "warn", "log level")
	flag.Parse()

	logger, err := logging.New(*level)
	if err != nil {
		logger = logging.Nop()
	}
	defer logger.Sync()

	o, err := settle.ParseOrder(*order)
	if err != nil {
		logger.Fatal("invalid order", zap.Error(err))
	}

	s, err := console.Run(os.Stdin, os.Stdout, console.Options{Quiet: *quiet, Order: o})
	if err != nil {
		if console.IsInputError(err) {
			fmt.Fprint(os.Stderr, console.Message(err))
			os.Exit(1)
		}
		logger.Fatal("failed to read session", zap.Error(err))
	}
	console.Report(os.Stdout, s)

	if *dotPath != "" {
		before, after := s.Graphs()
		if err := os.WriteFile(*dotPath, []byte(render.DOTPair(before, after)), 0o644); err != nil {
			logger.Fatal("failed to write graph", zap.String("path", *dotPath), zap.Error(err))
		}
		logger.Info("graph written", zap.String("path", *dotPath))
	}
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/contviz-dev/contviz/runner"
	"github.com/gookit/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var lastFlag bool

var evalCmd = &cobra.Command{
	Use:   "eval [SOURCEFILE]",
	Short: "Run source through the configured evaluator and replay its trace",
	Args:  cobra.MaximumNArgs(1),
	Run:   evalCommand,
}

func init() {
	addReplayFlags(evalCmd)
	evalCmd.Flags().BoolVar(&lastFlag, "last", false, "Replay the trace left by the previous evaluation instead of running one")
}

func evalCommand(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	r := cfg.BuildRunner()

	if lastFlag {
		replay(cfg, r.LastTrace())
		return
	}
	if len(args) == 0 {
		log.Fatal().Msg("SOURCEFILE is required unless --last is given")
	}
	src, err := os.ReadFile(args[0])
	if err != nil {
		log.Fatal().Err(err).Msg("Couldn't read source file")
	}

	fmt.Fprintln(os.Stderr, color.Cyan.Sprint("Running evaluator..."))
	text, err := runner.Acquire(context.Background(), r, string(src))
	if err != nil {
		// The replay still runs, over an empty trace.
		fmt.Fprintln(os.Stderr, color.Red.Sprintf("Evaluator failed: %v", err))
	}
	replay(cfg, text)
}

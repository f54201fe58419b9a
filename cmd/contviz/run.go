package main

import (
	"fmt"
	"os"

	"github.com/contviz-dev/contviz/cas"
	"github.com/contviz-dev/contviz/model"
	"github.com/gookit/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	stepsFlag    int
	verboseFlag  bool
	timelineFlag bool
	formatFlag   string
)

var runCmd = &cobra.Command{
	Use:   "run TRACEFILE",
	Short: "Replay a trace file",
	Args:  cobra.ExactArgs(1),
	Run:   runCommand,
}

func addReplayFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&stepsFlag, "steps", -1, "Stop after this many lines (default: replay everything)")
	cmd.Flags().BoolVar(&verboseFlag, "verbose", false, "Print every step as it is applied")
	cmd.Flags().BoolVar(&timelineFlag, "timeline", false, "Print the recorded model after every step")
	cmd.Flags().StringVar(&formatFlag, "format", "text", "Output format for the final model (text, json, yaml)")
}

func init() {
	addReplayFlags(runCmd)
}

func loadConfig() *model.Config {
	cfg, err := model.LoadConfigFromFile(configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", configPath).Msg("Couldn't load config")
	}
	return cfg
}

func runCommand(cmd *cobra.Command, args []string) {
	b, err := os.ReadFile(args[0])
	if err != nil {
		log.Fatal().Err(err).Msg("Couldn't read trace file")
	}
	replay(loadConfig(), string(b))
}

func replay(cfg *model.Config, text string) {
	s := cfg.BuildSession()
	if verboseFlag {
		s.Reporter = &model.ColorReporter{Writer: os.Stderr}
	}
	s.LoadTrace(text)
	if formatFlag == "text" {
		fmt.Fprintln(os.Stderr, color.Cyan.Sprintf("Replaying %d lines...", len(s.Lines)))
	}

	if stepsFlag >= 0 {
		err := s.Seek(stepsFlag)
		if err != nil {
			log.Fatal().Err(err).Msg("Error during replay")
		}
	} else {
		err := s.RunToEnd()
		if err != nil {
			log.Fatal().Err(err).Msg("Error during replay")
		}
	}

	if timelineFlag {
		if s.Store == nil {
			log.Warn().Msg("Timeline requested but recording is disabled in the config")
		} else {
			model.WriteTimeline(os.Stderr, s)
			if lru, ok := s.Store.(*cas.LRUCache); ok {
				stats := lru.Stats()
				fmt.Fprintln(os.Stderr, color.Gray.Sprintf("\nSnapshot cache: %d/%d entries, %d stored", stats.Size, stats.MaxSize, lru.Len()))
			}
		}
	}

	err := s.Snapshot().Encode(os.Stdout, formatFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("Couldn't write model")
	}
}

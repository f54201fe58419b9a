package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/contviz-dev/contviz/model"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var dumpFormat string

var dumpCmd = &cobra.Command{
	Use:   "dump TRACEFILE",
	Short: "Write the model after every line of a trace",
	Args:  cobra.ExactArgs(1),
	Run:   dumpCommand,
}

func init() {
	dumpCmd.Flags().StringVar(&dumpFormat, "format", "yaml", "Output format (json, yaml)")
	rootCmd.AddCommand(dumpCmd)
}

func dumpCommand(cmd *cobra.Command, args []string) {
	b, err := os.ReadFile(args[0])
	if err != nil {
		log.Fatal().Err(err).Msg("Couldn't read trace file")
	}
	s := model.NewSession()
	s.LoadTrace(string(b))

	steps := []model.Projection{s.Snapshot()}
	for !s.Done() {
		_, err := s.Step()
		if err != nil {
			log.Fatal().Err(err).Msg("Error during replay")
		}
		steps = append(steps, s.Snapshot())
	}

	switch dumpFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		err = enc.Encode(steps)
	case "yaml":
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		err = enc.Encode(steps)
		if err == nil {
			err = enc.Close()
		}
	default:
		err = fmt.Errorf("unknown format %q", dumpFormat)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Couldn't write dump")
	}
}

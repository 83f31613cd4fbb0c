package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/careercrafted/careercrafted/internal/career"
	"github.com/careercrafted/careercrafted/internal/logger"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Match assessment answers to a career locally and print the result as JSON",
	Run: func(cmd *cobra.Command, _ []string) {
		zlog, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
		if err != nil {
			log.Fatalf("creating a logger: %s", err)
		}
		defer zlog.Sync()

		config, err := getConfig()
		if err != nil {
			zlog.Fatal("getting a config", zap.Error(err))
		}

		assessment := matchAssessment(cmd, config.Assessment)
		if err := assessment.Validate(); err != nil {
			zlog.Fatal("invalid assessment answers", zap.Error(err))
		}

		analysis := career.Analyze(assessment, time.Now())
		zlog.Debug("matched career locally",
			zap.String("career", analysis.Profile.PrimaryCareer),
			zap.Strings("matched_keywords", analysis.Profile.Matched),
		)

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(analysis); err != nil {
			zlog.Fatal("writing the result", zap.Error(err))
		}
	},
}

var matchFlags = []struct {
	name  string
	usage string
	field func(a *career.Assessment) *string
}{
	{"personality", "how you describe yourself", func(a *career.Assessment) *string { return &a.Personality }},
	{"work-style", "team, independent, mixed or leadership", func(a *career.Assessment) *string { return &a.WorkStyle }},
	{"superpowers", "what you are great at", func(a *career.Assessment) *string { return &a.Superpowers }},
	{"skills", "skills you have", func(a *career.Assessment) *string { return &a.Skills }},
	{"dream-career", "the career you want, e.g. " + strings.Join(career.Labels(), ", "), func(a *career.Assessment) *string { return &a.DreamCareer }},
	{"industry", "industry you are interested in", func(a *career.Assessment) *string { return &a.Industry }},
	{"location", "preferred location", func(a *career.Assessment) *string { return &a.Location }},
	{"relocate", "yes, no, maybe or remote", func(a *career.Assessment) *string { return &a.Relocate }},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	for _, f := range matchFlags {
		matchCmd.Flags().String(f.name, "", fmt.Sprintf("assessment answer: %s", f.usage))
	}
	matchCmd.Flags().StringSlice("job-type", nil, "preferred job types, may be repeated")
}

// matchAssessment starts from the configured answers and overrides the ones
// given as flags.
func matchAssessment(cmd *cobra.Command, base *career.Assessment) *career.Assessment {
	a := &career.Assessment{}
	if base != nil {
		*a = *base
	}

	for _, f := range matchFlags {
		if flag := cmd.Flags().Lookup(f.name); flag != nil && flag.Changed {
			*f.field(a) = flag.Value.String()
		}
	}

	if cmd.Flags().Changed("job-type") {
		a.JobTypes, _ = cmd.Flags().GetStringSlice("job-type")
	}

	return a
}

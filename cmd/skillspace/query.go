package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/skillspace-mcp/internal/config"
	"github.com/dshills/skillspace-mcp/internal/recommender"
	"github.com/dshills/skillspace-mcp/pkg/types"
)

// filterFlags are shared by the recommendation commands
type filterFlags struct {
	maxResults   int
	diversity    bool
	minFemalePct float64
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.maxResults, "num", "n", recommender.DefaultMaxResults, "number of projects (1-20)")
	cmd.Flags().BoolVar(&f.diversity, "diversity", false, "only projects with a minimum share of female developers")
	cmd.Flags().Float64Var(&f.minFemalePct, "min-female-pct", recommender.DefaultMinFemalePct, "threshold for --diversity (0-100)")
}

func newExpertiseCmd(cfg *config.Config) *cobra.Command {
	var (
		f       filterFlags
		apis    string
		mentors bool
	)
	cmd := &cobra.Command{
		Use:     "expertise LANGUAGE...",
		Short:   "Recommend projects matching languages and APIs",
		Example: `  skillspace expertise Python --apis "numpy;pandas" --mentors`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			resp, err := a.service.RecommendByExpertise(cmd.Context(), recommender.ExpertiseRequest{
				Languages:    splitLanguages(args),
				APIs:         apis,
				MaxResults:   f.maxResults,
				Diversity:    f.diversity,
				MinFemalePct: f.minFemalePct,
				Mentors:      mentors,
			})
			if err != nil {
				return err
			}
			return renderResponse(cmd.OutOrStdout(), resp, true)
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&apis, "apis", "", "semicolon-separated APIs")
	cmd.Flags().BoolVar(&mentors, "mentors", false, "also list potential mentors")
	return cmd
}

func newTransferCmd(cfg *config.Config) *cobra.Command {
	var (
		f           filterFlags
		apis        string
		similarAPIs int
		mentors     bool
	)
	cmd := &cobra.Command{
		Use:     "transfer SOURCE DESTINATION",
		Short:   "Recommend projects for moving from one language to another",
		Example: `  skillspace transfer Java Go --apis "junit" --similar-apis 5`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			resp, err := a.service.RecommendByTransfer(cmd.Context(), recommender.TransferRequest{
				Source:       args[0],
				Destination:  args[1],
				APIs:         apis,
				MaxResults:   f.maxResults,
				SimilarAPIs:  similarAPIs,
				Diversity:    f.diversity,
				MinFemalePct: f.minFemalePct,
				Mentors:      mentors,
			})
			if err != nil {
				return err
			}
			return renderResponse(cmd.OutOrStdout(), resp, true)
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&apis, "apis", "", "semicolon-separated APIs")
	cmd.Flags().IntVar(&similarAPIs, "similar-apis", 0, "number of related APIs to suggest (0-20)")
	cmd.Flags().BoolVar(&mentors, "mentors", false, "also list potential mentors")
	return cmd
}

func newPopularCmd(cfg *config.Config) *cobra.Command {
	var (
		f        filterFlags
		metric   string
		language string
	)
	cmd := &cobra.Command{
		Use:   "popular",
		Short: "List the most popular projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			resp, err := a.service.RecommendByPopularity(cmd.Context(), recommender.PopularityRequest{
				Metric:       metric,
				Language:     language,
				MaxResults:   f.maxResults,
				Diversity:    f.diversity,
				MinFemalePct: f.minFemalePct,
			})
			if err != nil {
				return err
			}
			return renderResponse(cmd.OutOrStdout(), resp, false)
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&metric, "by", string(types.MetricStars), "stars, forks or contributors")
	cmd.Flags().StringVar(&language, "language", types.AllLanguages, "language tag or ALL")
	return cmd
}

func newLocalCmd(cfg *config.Config) *cobra.Command {
	var (
		f         filterFlags
		language  string
		listZones bool
	)
	cmd := &cobra.Command{
		Use:     "local [TIMEZONE]",
		Short:   "List projects with the most developers active in a timezone",
		Example: "  skillspace local UTC+5:30 --language Go\n  skillspace local --list",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			if listZones || len(args) == 0 {
				zones, err := a.service.Timezones(cmd.Context())
				if err != nil {
					return err
				}
				return renderList(cmd.OutOrStdout(), "Timezone", zones)
			}

			resp, err := a.service.RecommendByLocality(cmd.Context(), recommender.LocalityRequest{
				Timezone:     args[0],
				Language:     language,
				MaxResults:   f.maxResults,
				Diversity:    f.diversity,
				MinFemalePct: f.minFemalePct,
			})
			if err != nil {
				return err
			}
			return renderResponse(cmd.OutOrStdout(), resp, false)
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&language, "language", types.AllLanguages, "language tag or ALL")
	cmd.Flags().BoolVar(&listZones, "list", false, "list the timezones with activity data")
	return cmd
}

// splitLanguages accepts "Go Python" as well as "Go,Python"
func splitLanguages(args []string) []string {
	var out []string
	for _, a := range args {
		for _, l := range strings.Split(a, ",") {
			if l = strings.TrimSpace(l); l != "" {
				out = append(out, l)
			}
		}
	}
	return out
}

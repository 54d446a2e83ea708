package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"urlintel/internal/config"
	"urlintel/internal/model"
	"urlintel/internal/service"
)

const (
	outputJSON = "json"
	outputText = "text"
)

func NewAnalyzeCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "analyze <url>",
		Short: "Analyze a single URL and print the report",
		Example: `  urlintel analyze https://example.com
  urlintel analyze https://example.org --output text`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			if output != outputJSON && output != outputText {
				return fmt.Errorf("unknown output format %q (want %s or %s)", output, outputJSON, outputText)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			analyzer := service.NewAnalyzerFromConfig(config.AppConfig)

			result, err := analyzer.Analyze(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if output == outputText {
				writeText(cmd.OutOrStdout(), result)
				return nil
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputJSON, "Output format: json or text")

	return cmd
}

func writeJSON(w io.Writer, result *model.AnalysisResponse) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func writeText(w io.Writer, r *model.AnalysisResponse) {
	fmt.Fprintf(w, "%s %s (%s)\n\n", colorHeading("URL:"), r.URL, r.AnalysisTime)

	fmt.Fprintln(w, colorHeading("Security"))
	fmt.Fprintf(w, "  Safety score:   %s/100\n", formatScore(r.Security.SafetyScore))
	fmt.Fprintf(w, "  SSL enabled:    %s\n", formatBool(r.Security.SSLEnabled))
	fmt.Fprintf(w, "  SSL valid:      %s\n", formatBool(r.Security.SSLValid))
	fmt.Fprintf(w, "  HTTPS redirect: %s\n", formatBool(r.Security.HTTPSRedirect))
	for _, p := range r.Security.SuspiciousPatterns {
		fmt.Fprintf(w, "  %s %s\n", colorWarn("!"), p)
	}

	fmt.Fprintln(w, colorHeading("\nPerformance"))
	fmt.Fprintf(w, "  Status:        %d\n", r.Performance.StatusCode)
	fmt.Fprintf(w, "  Response time: %.3fs\n", r.Performance.ResponseTime)
	fmt.Fprintf(w, "  Page size:     %d bytes\n", r.Performance.PageSize)
	fmt.Fprintf(w, "  Load speed:    %s\n", formatLoadSpeed(r.Performance.LoadSpeed))

	fmt.Fprintln(w, colorHeading("\nContent"))
	fmt.Fprintf(w, "  Title:          %s\n", orDash(r.Content.Title))
	fmt.Fprintf(w, "  Description:    %s\n", orDash(r.Content.Description))
	fmt.Fprintf(w, "  Keywords:       %s\n", orDash(r.Content.MetaKeywords))
	fmt.Fprintf(w, "  Words:          %d\n", r.Content.WordCount)
	fmt.Fprintf(w, "  Forms:          %s\n", formatBool(r.Content.HasForms))
	fmt.Fprintf(w, "  External links: %d\n", r.Content.ExternalLinks)

	fmt.Fprintln(w, colorHeading("\nTechnology"))
	fmt.Fprintf(w, "  Server:       %s\n", orDash(r.Technology.Server))
	fmt.Fprintf(w, "  CMS:          %s\n", orDash(r.Technology.CMSDetected))
	fmt.Fprintf(w, "  Technologies: %s\n", joinOrDash(r.Technology.Technologies))
	fmt.Fprintf(w, "  Frameworks:   %s\n", joinOrDash(r.Technology.Frameworks))

	fmt.Fprintln(w, colorHeading("\nDomain"))
	fmt.Fprintf(w, "  Domain:    %s\n", colorInfo(r.Domain.Domain))
	fmt.Fprintf(w, "  Registrar: %s\n", orDash(r.Domain.Registrar))
	fmt.Fprintf(w, "  Created:   %s\n", dateOrDash(r.Domain.CreationDate))
	fmt.Fprintf(w, "  Expires:   %s\n", dateOrDash(r.Domain.ExpirationDate))
	fmt.Fprintf(w, "  Country:   %s\n", orDash(r.Domain.Country))
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}

func dateOrDash(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02")
}

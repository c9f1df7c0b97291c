package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/skillsift/internal/model"
	"github.com/amishk599/skillsift/internal/report"
)

var (
	analyzeJSON bool
	analyzeHTML bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file|-]",
	Short: "Analyze one job posting",
	Long:  "Run the full analysis on a job posting read from a file or stdin and print seniority and skill levels.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the raw JSON result")
	analyzeCmd.Flags().BoolVar(&analyzeHTML, "html", false, "treat the input as HTML and convert it to text first")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	logger := setupCLILogger(debug)

	text, err := readInput(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}
	if analyzeHTML {
		text = report.PlainText(text)
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("job text is empty")
	}

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	analyze := func(ctx context.Context) (model.AnalysisResult, error) {
		return a.pipeline.Analyze(ctx, text), nil
	}

	if analyzeJSON {
		res, _ := analyze(ctx)
		return writeJSON(cmd.OutOrStdout(), res)
	}

	res, err := report.RunLoader(ctx, "Analyzing job posting", analyze)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), report.RenderAnalysis(res))
	return nil
}

// readInput reads the named file, or stdin when no file or "-" is given.
func readInput(stdin io.Reader, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read %s: %w", args[0], err)
	}
	return string(data), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/skillsift/internal/model"
	"github.com/amishk599/skillsift/internal/report"
)

var (
	groupFile   string
	groupJSON   bool
	groupLevels bool
)

var groupCmd = &cobra.Command{
	Use:   "group [skills...]",
	Short: "Categorize a list of skills",
	Long: `Assign each skill a category. Skills come from arguments or --file (one per line).
With --levels every skill is written as name=level and the result is grouped by category.`,
	RunE: runGroup,
}

func init() {
	groupCmd.Flags().StringVarP(&groupFile, "file", "f", "", "read skills from a file, one per line")
	groupCmd.Flags().BoolVar(&groupJSON, "json", false, "print the raw JSON result")
	groupCmd.Flags().BoolVar(&groupLevels, "levels", false, "skills carry levels (name=level); group them hierarchically")
	rootCmd.AddCommand(groupCmd)
}

func runGroup(cmd *cobra.Command, args []string) error {
	logger := setupCLILogger(debug)

	items := args
	if groupFile != "" {
		lines, err := readLines(groupFile)
		if err != nil {
			return err
		}
		items = append(items, lines...)
	}
	if len(items) == 0 {
		return fmt.Errorf("no skills given")
	}

	var levels *model.SkillLevels
	if groupLevels {
		var err error
		if levels, err = parseSkillLevels(items); err != nil {
			return err
		}
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

	out := cmd.OutOrStdout()
	if groupLevels {
		groups, err := report.RunLoader(ctx, "Grouping skills", func(ctx context.Context) (model.SkillGroups, error) {
			return a.pipeline.GroupSkillLevels(ctx, levels), nil
		})
		if err != nil {
			return err
		}
		if groupJSON {
			return writeJSON(out, groups)
		}
		fmt.Fprintln(out, report.RenderGroups(groups))
		return nil
	}

	cats, err := report.RunLoader(ctx, "Categorizing skills", func(ctx context.Context) (model.CategoryMap, error) {
		return a.pipeline.GroupSkills(ctx, items), nil
	})
	if err != nil {
		return err
	}
	if groupJSON {
		return writeJSON(out, cats)
	}
	fmt.Fprintln(out, report.RenderCategories(cats))
	return nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return lines, nil
}

// parseSkillLevels parses "name=level" items, keeping their order.
func parseSkillLevels(items []string) (*model.SkillLevels, error) {
	levels := model.NewSkillLevels()
	for _, item := range items {
		i := strings.LastIndex(item, "=")
		if i <= 0 {
			return nil, fmt.Errorf("skill %q: want name=level", item)
		}
		level, err := strconv.Atoi(strings.TrimSpace(item[i+1:]))
		if err != nil {
			return nil, fmt.Errorf("skill %q: level: %w", item, err)
		}
		levels.Set(strings.TrimSpace(item[:i]), level)
	}
	return levels, nil
}

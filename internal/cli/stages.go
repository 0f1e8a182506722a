package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kundanareddy2830/quantum-sight/internal/stages"
)

func init() {
	rootCmd.AddCommand(stagesCmd)
	stagesCmd.AddCommand(stagesListCmd)
	stagesCmd.AddCommand(stagesShowCmd)
}

var stagesCmd = &cobra.Command{
	Use:   "stages",
	Short: "Inspect stage catalogues",
	Long:  "List the built-in and user stage catalogues, or show the stages of one.",
}

var stagesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stage catalogues",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalogs, err := loadCatalogs()
		if err != nil {
			return err
		}
		return writeCatalogList(cmd.OutOrStdout(), catalogs)
	},
}

var stagesShowCmd = &cobra.Command{
	Use:   "show <catalog>",
	Short: "Show the stages of a catalogue",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalogs, err := loadCatalogs()
		if err != nil {
			return err
		}
		catalog, err := resolveCatalog(catalogs, args[0])
		if err != nil {
			return err
		}
		registry, err := catalog.Registry()
		if err != nil {
			return fmt.Errorf("catalogue %q: %w", catalog.Name, err)
		}
		return writeCatalogDetail(cmd.OutOrStdout(), catalog, registry)
	},
}

type catalogSummary struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Stages      int    `json:"stages"`
	AutoPlay    int    `json:"autoplay"`
	Source      string `json:"source"`
}

type stageSummary struct {
	Position    int    `json:"position"`
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	DwellMS     int64  `json:"dwell_ms"`
	AutoPlay    bool   `json:"autoplay"`
}

type catalogDetail struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Source      string         `json:"source"`
	Stages      []stageSummary `json:"stages"`
}

func writeCatalogList(out io.Writer, catalogs []*stages.Catalog) error {
	summaries := make([]catalogSummary, 0, len(catalogs))
	for _, c := range catalogs {
		summaries = append(summaries, catalogSummary{
			Name:        c.Name,
			Description: c.Description,
			Stages:      len(c.Stages),
			AutoPlay:    len(c.AutoPlay),
			Source:      c.Source,
		})
	}

	if IsJSONOutput() || IsJSONLOutput() {
		return WriteOutput(out, summaries)
	}
	if len(summaries) == 0 {
		_, err := fmt.Fprintln(out, "No catalogues found.")
		return err
	}

	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.Name,
			strconv.Itoa(s.Stages),
			strconv.Itoa(s.AutoPlay),
			s.Source,
		})
	}
	return writeTable(out, []string{"NAME", "STAGES", "AUTO-PLAY", "SOURCE"}, rows)
}

func writeCatalogDetail(out io.Writer, catalog *stages.Catalog, registry *stages.Registry) error {
	detail := catalogDetail{
		Name:        registry.Name(),
		Description: registry.Description(),
		Source:      catalog.Source,
		Stages:      make([]stageSummary, 0, registry.Len()),
	}
	for _, d := range registry.Stages() {
		detail.Stages = append(detail.Stages, stageSummary{
			Position:    d.Order + 1,
			ID:          d.ID,
			Title:       d.Title,
			Description: d.Description,
			DwellMS:     d.Dwell.Milliseconds(),
			AutoPlay:    registry.InAutoPlay(d.ID),
		})
	}

	if IsJSONOutput() || IsJSONLOutput() {
		if IsJSONLOutput() {
			return WriteOutput(out, detail.Stages)
		}
		return WriteOutput(out, detail)
	}

	if detail.Description != "" {
		fmt.Fprintf(out, "%s: %s\n\n", detail.Name, detail.Description)
	}
	rows := make([][]string, 0, len(detail.Stages))
	for _, d := range registry.Stages() {
		rows = append(rows, []string{
			strconv.Itoa(d.Order + 1),
			d.ID,
			truncateTitle(d.Title),
			formatDwell(d.Dwell),
			formatYesNo(registry.InAutoPlay(d.ID)),
		})
	}
	return writeTable(out, []string{"#", "ID", "TITLE", "DWELL", "AUTO-PLAY"}, rows)
}

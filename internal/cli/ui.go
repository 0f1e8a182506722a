package cli

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/kundanareddy2830/quantum-sight/internal/stages"
	"github.com/kundanareddy2830/quantum-sight/internal/tui"
	"github.com/kundanareddy2830/quantum-sight/internal/tui/styles"
)

var (
	uiCatalog string
	uiPick    bool
)

func init() {
	rootCmd.AddCommand(uiCmd)
	uiCmd.Flags().StringVar(&uiCatalog, "catalog", "", "stage catalogue to open (default from config)")
	uiCmd.Flags().BoolVar(&uiPick, "pick", false, "choose the catalogue from a list")
}

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Launch the walkthrough TUI",
	Long:  "Launch the interactive walkthrough terminal user interface.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd)
	},
}

func runTUI(cmd *cobra.Command) error {
	if IsNonInteractive() {
		return &PreflightError{
			Message:  "TUI requires an interactive terminal",
			Hint:     "Run without --non-interactive and with a TTY, or play the tour headless",
			NextStep: "foresight play",
		}
	}

	catalogs, err := loadCatalogs()
	if err != nil {
		return err
	}

	cfg := currentConfig()
	name := cfg.Catalog
	if name == "" || (uiPick && !cmd.Flags().Changed("catalog")) {
		name, err = pickCatalog(catalogs, cfg.TUI.Theme)
		if err != nil {
			return err
		}
	}
	catalog, err := resolveCatalog(catalogs, name)
	if err != nil {
		return err
	}

	s, err := openSession(commandContext(cmd), catalog)
	if err != nil {
		return err
	}
	defer s.Close()

	return tui.Run(tui.Config{
		Controller: s.ctrl,
		Theme:      cfg.TUI.Theme,
	})
}

func pickCatalog(catalogs []*stages.Catalog, theme string) (string, error) {
	if len(catalogs) == 0 {
		return "", &PreflightError{
			Message:  "no catalogues available",
			NextStep: "foresight stages list",
		}
	}

	options := make([]huh.Option[string], 0, len(catalogs))
	for _, c := range catalogs {
		options = append(options, huh.NewOption(catalogLabel(c), c.Name))
	}

	choice := catalogs[0].Name
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which walkthrough?").
				Options(options...).
				Value(&choice),
		),
	).WithTheme(pickerTheme(styles.ThemeByName(theme))).WithShowHelp(false)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", &PreflightError{Message: "no catalogue selected"}
		}
		return "", err
	}
	return choice, nil
}

func catalogLabel(c *stages.Catalog) string {
	label := fmt.Sprintf("%s (%d stages)", c.Name, len(c.Stages))
	if c.Description != "" {
		label += ": " + c.Description
	}
	return truncateTitle(label)
}

func pickerTheme(theme styles.Theme) *huh.Theme {
	tokens := theme.Tokens
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Accent)).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Focus))
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Success))
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Text))
	t.Focused.Description = lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.TextMuted))

	t.Blurred.Title = lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.TextMuted))
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.TextMuted))
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.TextMuted))

	return t
}

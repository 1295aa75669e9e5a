package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"stellaris-techtree/internal/colortext"
	"stellaris-techtree/internal/config"
	"stellaris-techtree/internal/export"
	"stellaris-techtree/internal/graph"
	"stellaris-techtree/internal/localisation"
	"stellaris-techtree/internal/manifest"
	"stellaris-techtree/internal/technology"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	labelStyle = lipgloss.NewStyle().Faint(true).Width(14)
	ghostStyle = lipgloss.NewStyle().Faint(true).Italic(true)
	areaStyles = map[technology.ResearchArea]lipgloss.Style{
		technology.Physics:     lipgloss.NewStyle().Foreground(lipgloss.Color("#51A6FF")),
		technology.Society:     lipgloss.NewStyle().Foreground(lipgloss.Color("#4CD964")),
		technology.Engineering: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF9F1A")),
		technology.Anomaly:     lipgloss.NewStyle().Foreground(lipgloss.Color("#B267E6")),
	}
)

func showCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <tech-id>",
		Short: "Show one technology from a previous build",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			output, _ := cmd.Flags().GetString("output")
			lang, _ := cmd.Flags().GetString("lang")
			useGraph, _ := cmd.Flags().GetBool("neo4j")
			return runShow(cmd.OutOrStdout(), cfg, args[0], output, lang, useGraph)
		},
	}

	cmd.Flags().String("output", "", "Directory of a previous build (default $OUTPUT_DIR)")
	cmd.Flags().String("lang", "english", "Localisation language")
	cmd.Flags().Bool("neo4j", false, "Also list transitive prerequisites stored in Neo4j")

	return cmd
}

// runShow handles the `show` command.
func runShow(w io.Writer, cfg *config.Config, id, output, lang string, useGraph bool) error {
	dir := firstNonEmpty(output, cfg.OutputDir)
	techs, err := export.ReadTechnologies(filepath.Join(dir, export.TechnologiesFile))
	if err != nil {
		return err
	}

	byID := make(map[string]*technology.Technology, len(techs))
	for _, t := range techs {
		byID[t.ID] = t
	}
	tree := graph.Build(byID)

	node, err := tree.MustLookup(id)
	if err != nil {
		return fmt.Errorf("show %s: %w", id, err)
	}
	ancestors, err := tree.Ancestors(id)
	if err != nil {
		return err
	}

	printNode(w, tree, node, localisation.ParseLanguage(lang))
	printList(w, "Requires", tree.Names(node.Predecessors))
	printList(w, "All required", tree.Names(ancestors))
	printList(w, "Unlocks", tree.Names(node.Successors))

	if !useGraph {
		return nil
	}
	if !cfg.Neo4jEnabled() {
		return fmt.Errorf("--neo4j needs NEO4J_URI")
	}

	ctx, cancel := setupContext()
	defer cancel()

	driver, err := connectNeo4j(ctx, cfg)
	if err != nil {
		return err
	}
	defer driver.Close(ctx)

	stored, err := graph.NewQuerier(driver).Prerequisites(ctx, id)
	if err != nil {
		return err
	}
	printList(w, "Stored", stored)
	return nil
}

func printNode(w io.Writer, tree *graph.Tree, node *graph.Node, lang localisation.Language) {
	if node.Dangling() {
		fmt.Fprintln(w, titleStyle.Render(node.Name), ghostStyle.Render("(referenced but never defined)"))
		return
	}
	t := node.Data

	title := t.ID
	var desc string
	if text, ok := t.Localisation[lang]; ok {
		title = text.Value
		if text.Name != nil {
			title = *text.Name
		}
		if text.Description != nil {
			desc = *text.Description
		}
	} else {
		log.Debug().Str("id", t.ID).Stringer("lang", lang).Msg("No localisation for language")
	}

	fmt.Fprintln(w, titleStyle.Render(colortext.Render(title)), ghostStyle.Render("("+t.ID+")"))
	if desc != "" {
		fmt.Fprintln(w, colortext.Render(desc))
	}
	fmt.Fprintln(w)

	area := t.Area.String()
	if style, ok := areaStyles[t.Area]; ok {
		area = style.Render(area)
	}
	printField(w, "Area", area)
	printField(w, "Cost", fmt.Sprintf("%d", t.Cost))
	if t.Tier != nil {
		printField(w, "Tier", *t.Tier)
	}
	if t.Category != nil {
		printField(w, "Category", *t.Category)
	}
	printField(w, "Package", t.PackageID)
	if t.StartTech {
		printField(w, "Start tech", "yes")
	}
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintln(w, labelStyle.Render(label)+value)
}

func printList(w io.Writer, label string, names []string) {
	if len(names) == 0 {
		printField(w, label, ghostStyle.Render("none"))
		return
	}
	printField(w, label, strings.Join(names, ", "))
}

// runLoadOrder handles the `load-order` command.
func runLoadOrder(cmd *cobra.Command, registry, gameData string) error {
	dirs, err := manifest.LoadOrder(registry, gameData)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	for _, d := range dirs {
		fmt.Fprintln(w, d)
	}
	return nil
}

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/guidedops/playbook/pkg/engine"
	"github.com/guidedops/playbook/pkg/library"
	"github.com/guidedops/playbook/pkg/lineedit"
	"github.com/guidedops/playbook/pkg/render"
	"github.com/guidedops/playbook/pkg/schema"
)

// Version is set at build time via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var libraryDirs []string

var rootCmd = &cobra.Command{
	Use:   "playbook",
	Short: "Interactive playbooks for human-in-the-loop procedures",
	Long:  "playbook — run step-by-step operator procedures with confirmations, prompts, and path completion.",
}

// --- run ---

var (
	runVars       []string
	runTranscript string
	runPlain      bool
	runNoHistory  bool
)

var runCmd = &cobra.Command{
	Use:   "run [playbook]",
	Short: "Run a playbook by name or YAML file path",
	Args:  cobra.ExactArgs(1),
	RunE:  runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	step, _, err := library.Open(args[0], library.SearchDirs(libraryDirs))
	if err != nil {
		return err
	}

	history := lineedit.DefaultHistoryPath()
	if runNoHistory {
		history = ""
	}
	ed, err := lineedit.NewEditor(history)
	if err != nil {
		return fmt.Errorf("open line editor: %w", err)
	}
	defer ed.Close()

	r := engine.NewRunner()
	r.Editor = ed
	if !runPlain {
		r.Render = render.Markdown
	}

	for _, kv := range runVars {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 || parts[0] == "" {
			return fmt.Errorf("invalid --var %q, expected key=value", kv)
		}
		r.SetVar(parts[0], parts[1])
	}

	if runTranscript != "" {
		tw, err := engine.NewTranscriptWriter(runTranscript)
		if err != nil {
			return err
		}
		defer tw.Close()
		r.Transcript = tw
	}

	if err := r.Run(step); err != nil {
		return err
	}
	fmt.Println(render.OK("playbook complete"))
	return nil
}

// --- list ---

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List playbooks available in the library",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	entries := library.List(library.SearchDirs(libraryDirs))
	if len(entries) == 0 {
		fmt.Println(render.Dim("no playbooks found"))
		return nil
	}
	for _, e := range entries {
		line := e.Name
		if e.Description != "" {
			line += "  " + render.Dim(render.Truncate(e.Description, 60))
		}
		fmt.Println(line)
	}
	return nil
}

// --- describe ---

var describeCmd = &cobra.Command{
	Use:   "describe [playbook]",
	Short: "Show a playbook's metadata and step outline",
	Args:  cobra.ExactArgs(1),
	RunE:  runDescribe,
}

func runDescribe(cmd *cobra.Command, args []string) error {
	name := args[0]
	if _, ok := library.Builtin(name); ok {
		fmt.Printf("%s (builtin)\n", name)
		return nil
	}

	path, err := library.ResolveFile(name, library.SearchDirs(libraryDirs))
	if err != nil {
		return err
	}
	pb, errs := schema.ValidateFile(path)
	for _, e := range errs {
		if e.Severity == "error" {
			return fmt.Errorf("invalid playbook %s: %s", path, e)
		}
	}

	fmt.Printf("%s — %s\n", pb.Meta.Name, pb.Meta.Description)
	fmt.Println(render.Dim("  " + path))
	for i, st := range pb.Steps {
		label := st.Title
		if label == "" {
			label = render.Truncate(strings.SplitN(st.Description, "\n", 2)[0], 60)
		}
		fmt.Printf("  %2d. [%s] %s %s\n", i+1, st.Type, st.ID, render.Dim(label))
		if st.When != "" {
			fmt.Printf("      when: %s\n", st.When)
		}
	}
	return nil
}

// --- validate ---

var validateCmd = &cobra.Command{
	Use:   "validate [playbook.yaml]",
	Short: "Validate a playbook YAML file against the schema",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	pb, errs := schema.ValidateFile(args[0])
	if len(errs) > 0 {
		var errors []*schema.ValidationError
		var warnings []*schema.ValidationError
		for _, e := range errs {
			if e.Severity == "warning" {
				warnings = append(warnings, e)
			} else {
				errors = append(errors, e)
			}
		}
		for _, w := range warnings {
			fmt.Fprintf(os.Stderr, "  ⚠ [%s] %s\n", w.Phase, w.Message)
			if w.Path != "" {
				fmt.Fprintf(os.Stderr, "    at: %s\n", w.Path)
			}
		}
		if len(errors) > 0 {
			fmt.Fprintf(os.Stderr, "Validation failed: %d error(s)\n\n", len(errors))
			for i, e := range errors {
				fmt.Fprintf(os.Stderr, "  %d. [%s] %s\n", i+1, e.Phase, e.Message)
				if e.Path != "" {
					fmt.Fprintf(os.Stderr, "     at: %s\n", e.Path)
				}
			}
			return fmt.Errorf("validation failed with %d error(s)", len(errors))
		}
	}
	fmt.Printf("%s %s is valid (%d steps)\n", render.GlyphOK, pb.Meta.Name, len(pb.Steps))
	return nil
}

// --- schema ---

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Schema operations",
}

var schemaExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export JSON Schema to stdout",
	RunE:  runSchemaExport,
}

func runSchemaExport(cmd *cobra.Command, args []string) error {
	data, err := schema.GenerateJSONSchema()
	if err != nil {
		return fmt.Errorf("generate schema: %w", err)
	}
	var out json.RawMessage = data
	formatted, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		fmt.Println(string(data))
		return nil
	}
	fmt.Println(string(formatted))
	return nil
}

// --- version ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("playbook %s (build: %s)\n", version, commit)
	},
}

func init() {
	rootCmd.PersistentFlags().StringArrayVarP(&libraryDirs, "library", "L", nil, "Extra library directory, repeatable; searched before PLAYBOOK_PATH")

	runCmd.Flags().StringArrayVar(&runVars, "var", nil, "Set a variable (key=value), repeatable")
	runCmd.Flags().StringVar(&runTranscript, "transcript", "", "Append a JSONL transition transcript to this file")
	runCmd.Flags().BoolVar(&runPlain, "plain", false, "Print descriptions without markdown styling")
	runCmd.Flags().BoolVar(&runNoHistory, "no-history", false, "Do not load or persist input history")

	schemaCmd.AddCommand(schemaExportCmd)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(describeCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(versionCmd)
}

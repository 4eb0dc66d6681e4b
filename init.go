package main

import (
	"fmt"
	"path/filepath"

	"github.com/minios-linux/transl/config"
	"github.com/spf13/cobra"
)

// ---------------------------------------------------------------------------
// init (write .transl.yaml)
// ---------------------------------------------------------------------------

func newInitCmd() *cobra.Command {
	var (
		langDir string
		force   bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a .transl.yaml configuration file",
		Long: `Write .transl.yaml in the project root with the current settings.

Languages are detected from the language directories that contain
language files. Edit the file afterwards to pin the list.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, langDir, force)
		},
	}

	cmd.Flags().StringVar(&langDir, "lang-dir", "", "Directory holding one subdirectory per language (relative to --root)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing configuration file")

	return cmd
}

func runInit(cmd *cobra.Command, langDir string, force bool) error {
	path := filepath.Join(rootDir, config.FileName)
	if fileExists(path) && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	p, err := loadProject(cmd)
	if err != nil {
		return err
	}

	f := buildConfigFile(p, langDir)
	if err := f.Save(path); err != nil {
		return err
	}
	logSuccess("Wrote %s", path)
	if len(f.Languages) == 0 {
		logWarning("No target languages detected, add them to %s", path)
	}
	return nil
}

// buildConfigFile turns resolved settings into a configuration file. When
// langDir is given, languages are detected there instead.
func buildConfigFile(p *config.Project, langDir string) *config.File {
	ns := p.Namespace
	f := &config.File{
		LangDir:   langDir,
		Reference: p.Reference,
		Languages: p.Languages,
		Namespace: &ns,
		Extension: p.Extension,
		Report:    config.DefaultReport,
	}
	if rel, err := filepath.Rel(p.LangDir, p.ReportPath); err == nil {
		f.Report = rel
	}
	if langDir != "" {
		abs := filepath.Join(p.Root, langDir)
		if filepath.IsAbs(langDir) {
			abs = langDir
		}
		f.Languages = config.DetectLanguages(abs, p.Reference, p.Extension)
	}
	return f
}

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/minios-linux/transl/config"
	"github.com/minios-linux/transl/langmeta"
	"github.com/minios-linux/transl/lockfile"
	"github.com/minios-linux/transl/merge"
	"github.com/minios-linux/transl/phpfile"
	"github.com/spf13/cobra"
)

// ---------------------------------------------------------------------------
// status (read-only: project info + translation stats)
// ---------------------------------------------------------------------------

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show project info and translation statistics",
		Long: `Show the resolved configuration and per-language translation progress
against the reference language. Does not modify any files.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(cmd)
			if err != nil {
				return err
			}
			return runStatus(p)
		},
	}
}

// langStats aggregates one language over all reference files.
type langStats struct {
	total      int
	translated int
	empty      int
	missing    int
	outdated   int
	missingDir bool
}

func (s langStats) percent() int {
	if s.total == 0 {
		return 0
	}
	return s.translated * 100 / s.total
}

func runStatus(p *config.Project) error {
	fmt.Fprintf(os.Stderr, "\n%sProject%s\n", colorBlue, colorReset)
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))

	refMeta := langmeta.Resolve(p.Reference)
	fmt.Fprintf(os.Stderr, "  Root:       %s\n", p.Root)
	fmt.Fprintf(os.Stderr, "  Lang dir:   %s\n", p.LangDir)
	fmt.Fprintf(os.Stderr, "  Reference:  %s %s (%s)\n", langFlag(p.Reference), p.Reference, refMeta.Name)
	fmt.Fprintf(os.Stderr, "  Namespace:  %s\n", p.Namespace)
	fmt.Fprintf(os.Stderr, "  Report:     %s\n", p.ReportPath)
	if p.ConfigPath != "" {
		fmt.Fprintf(os.Stderr, "  Config:     %s\n", p.ConfigPath)
	}

	lock, err := lockfile.Load(p.LangDir)
	if err != nil {
		logWarning("Ignoring lock file: %v", err)
		lock = nil
	} else {
		fmt.Fprintf(os.Stderr, "  Lock:       %s\n", lock.Summary())
	}
	fmt.Fprintln(os.Stderr)

	refFiles, err := p.ListFiles(p.Reference)
	if err != nil {
		return fmt.Errorf("reference language %s: %w", p.Reference, err)
	}
	if len(refFiles) == 0 || len(p.Languages) == 0 {
		logInfo("Nothing to compare: %d reference files, %d languages", len(refFiles), len(p.Languages))
		return nil
	}

	refs := make(map[string]*phpfile.File, len(refFiles))
	for _, name := range refFiles {
		ref, err := phpfile.ParseFile(p.FilePath(p.Reference, name), p.Namespace)
		if err != nil {
			return err
		}
		refs[name] = ref
	}

	fmt.Fprintf(os.Stderr, "%sTranslation Statistics%s\n", colorBlue, colorReset)
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))

	width := langColumnWidth(p.Languages)
	fmt.Fprintf(os.Stderr, "\n   %-*s %-8s %-8s %-8s %-8s %s\n", width, "Lang", "Done", "Empty", "Missing", "Outdated", "Progress")

	for _, lang := range p.Languages {
		s := collectStats(p, refFiles, refs, lang, lock)
		if s.missingDir {
			fmt.Fprintf(os.Stderr, "%s %s\n", langCell(lang, width), "missing directory")
			continue
		}
		fmt.Fprintf(os.Stderr, "%s %-8d %-8d %-8d %-8d %s\n",
			langCell(lang, width), s.translated, s.empty, s.missing, s.outdated, progressBar(s.percent(), 20))
	}
	fmt.Fprintln(os.Stderr)

	return nil
}

func collectStats(p *config.Project, refFiles []string, refs map[string]*phpfile.File, lang string, lock *lockfile.LockFile) langStats {
	var s langStats
	if !dirExists(p.LangPath(lang)) {
		s.missingDir = true
		return s
	}

	for _, name := range refFiles {
		ref := refs[name]
		target, err := phpfile.ParseFile(p.FilePath(lang, name), p.Namespace)
		if err != nil {
			logWarning("%v", err)
			target = phpfile.New(p.Namespace)
		}

		d := merge.Compare(ref, target)
		s.total += ref.Len()
		s.missing += len(d.Missing)
		s.empty += len(d.Untranslated) - len(d.Missing)
		s.translated += ref.Len() - len(d.Untranslated)
		s.outdated += len(merge.Outdated(ref, target, lock, lockfile.TargetKey(lang, name)))
	}
	return s
}

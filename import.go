package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/minios-linux/transl/config"
	"github.com/minios-linux/transl/importer"
	"github.com/minios-linux/transl/lockfile"
	"github.com/minios-linux/transl/report"
	"github.com/spf13/cobra"
)

// ---------------------------------------------------------------------------
// import (fill empty entries from the translated report)
// ---------------------------------------------------------------------------

func newImportCmd() *cobra.Command {
	var (
		langs      string
		reportPath string
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Fill empty entries from a translated untranslated.json",
		Long: `Read the translated report and write every translation into the
language files of its language.

Only entries whose value is still empty are changed:

    Transl::GREETING => ''   becomes   Transl::GREETING => 'Hello'

Single quotes in the translation are escaped. Entries that are already
translated, or written with double quotes, are left alone.

Examples:
  transl import
  transl import --report translated.json --lang ja`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(cmd)
			if err != nil {
				return err
			}
			if reportPath != "" {
				p.ReportPath = reportPath
			}

			st, err := runImport(p, importOptions{langs: langs, dryRun: dryRun})
			if err != nil {
				return err
			}

			fmt.Fprintln(os.Stderr)
			logInfo("Files updated: %d, entries updated: %d", st.files, st.updated)
			logSuccess("Import complete!")
			return nil
		},
	}

	cmd.Flags().StringVar(&langs, "lang", "", "Languages to import (comma-separated, default: all in the report)")
	cmd.Flags().StringVar(&reportPath, "report", "", "Translated report to read (default: <lang_dir>/untranslated.json)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would change without writing files")

	return cmd
}

type importOptions struct {
	langs  string
	dryRun bool
}

type importStats struct {
	files   int
	updated int
}

// runImport applies the translations of the report at p.ReportPath. Only a
// missing or malformed report is an error.
func runImport(p *config.Project, opts importOptions) (importStats, error) {
	var st importStats

	rep, err := report.ParseFile(p.ReportPath)
	if err != nil {
		return st, err
	}

	langs := selectLanguages(rep.Languages(), opts.langs)
	logInfo("Found %d languages: %s", len(langs), joinKeys(langs))

	lock, err := lockfile.Load(p.LangDir)
	if err != nil {
		logWarning("Ignoring lock file: %v", err)
		lock = nil
	}
	lockChanged := false

	for _, lang := range langs {
		if !dirExists(p.LangPath(lang)) {
			logInfo("Skipping %s: language directory does not exist", lang)
			continue
		}
		files, err := p.ListFiles(lang)
		if err != nil {
			logError("%v", err)
			continue
		}
		if len(files) == 0 {
			logInfo("Skipping %s: no %s files found", lang, p.Extension)
			continue
		}
		logInfo("Processing %s: found %d files: %s", lang, len(files), joinKeys(files))

		var translations []importer.Translation
		for _, key := range rep.Keys(lang) {
			e, _ := rep.Get(lang, key)
			translations = append(translations, importer.Translation{Key: key, Text: e.Translation})
		}

		langTotal := 0
		for _, name := range files {
			path := p.FilePath(lang, name)
			data, err := os.ReadFile(path)
			if err != nil {
				logError("%v", err)
				continue
			}

			out, res := importer.Substitute(data, translations)
			for _, key := range res.Updated {
				logInfo("%s/%s: updated %s", lang, name, key)
			}
			for _, key := range res.Blank {
				logWarning("%s/%s: %s has an empty translation, left blank", lang, name, key)
			}
			if res.Count() == 0 {
				logInfo("%s/%s: no empty entries to update", lang, name)
				continue
			}

			if !opts.dryRun && res.Changed() {
				if err := os.WriteFile(path, out, 0644); err != nil {
					logError("writing %s: %v", path, err)
					continue
				}
				if lock != nil {
					recordImported(lock, p.Namespace, rep, lang, name, res.Updated)
					lockChanged = true
				}
			}
			logSuccess("%s/%s: done, %d entries updated", lang, name, res.Count())
			langTotal += res.Count()
			st.files++
		}
		st.updated += langTotal
		logInfo("%s: %d entries updated in total", lang, langTotal)
	}

	if lockChanged {
		if err := lock.Save(); err != nil {
			logWarning("%v", err)
		}
	}

	return st, nil
}

// recordImported stores the reference text each imported translation was made from.
func recordImported(lock *lockfile.LockFile, ns string, rep *report.Report, lang, name string, keys []string) {
	target := lockfile.TargetKey(lang, name)
	for _, key := range keys {
		e, _ := rep.Get(lang, key)
		if e.Source == "" {
			continue
		}
		bare := key
		if ns != "" {
			bare = strings.TrimPrefix(key, ns+"::")
		}
		lock.Update(target, bare, e.Source)
	}
}

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/minios-linux/transl/config"
	"github.com/minios-linux/transl/lockfile"
	"github.com/minios-linux/transl/merge"
	"github.com/minios-linux/transl/phpfile"
	"github.com/minios-linux/transl/report"
	"github.com/spf13/cobra"
)

// ---------------------------------------------------------------------------
// sync (add missing keys + untranslated report)
// ---------------------------------------------------------------------------

func newSyncCmd() *cobra.Command {
	var (
		langs         string
		reportPath    string
		dryRun        bool
		createMissing bool
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Add missing keys to every language and write the untranslated report",
		Long: `Compare every language with the reference language.

Keys that exist in the reference but not in a language file are appended
before the closing "];" as empty entries, with the reference text as a
comment:

    Transl::GREETING => '', // 你好

Missing and empty keys of every language are written to untranslated.json
for translation. Existing text in the language files is never changed.

Examples:
  transl sync
  transl sync --lang en,ja
  transl sync --create-missing
  transl sync --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(cmd)
			if err != nil {
				return err
			}
			if reportPath != "" {
				p.ReportPath = reportPath
			}

			opts := syncOptions{
				langs:         selectLanguages(p.Languages, langs),
				dryRun:        dryRun,
				createMissing: createMissing,
			}

			logInfo("Syncing translation files...")
			logInfo("Language directory: %s", p.LangDir)
			logInfo("Reference language: %s", p.Reference)
			logInfo("Languages: %s", joinKeys(opts.langs))
			if len(opts.langs) == 0 {
				logWarning("No target languages found")
			}

			rep, st, err := runSync(p, opts)
			if err != nil {
				return err
			}

			fmt.Fprintln(os.Stderr)
			if opts.dryRun {
				logInfo("Dry run: %d untranslated entries, report not written", rep.Total())
			} else {
				if err := rep.WriteFile(p.ReportPath); err != nil {
					return err
				}
				logSuccess("Untranslated entries saved to: %s", p.ReportPath)
			}
			logInfo("Files updated: %d, keys added: %d, untranslated: %d, skipped: %d",
				st.files, st.added, st.untranslated, st.skipped)
			if st.outdated > 0 {
				logWarning("%d translations are outdated (reference text changed since import)", st.outdated)
			}
			logSuccess("Sync complete!")
			return nil
		},
	}

	cmd.Flags().StringVar(&langs, "lang", "", "Languages to sync (comma-separated, default: all)")
	cmd.Flags().StringVar(&reportPath, "report", "", "Report file to write (default: <lang_dir>/untranslated.json)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would change without writing files")
	cmd.Flags().BoolVar(&createMissing, "create-missing", false, "Create missing language files from the reference with empty values")

	return cmd
}

type syncOptions struct {
	langs         []string
	dryRun        bool
	createMissing bool
}

type syncStats struct {
	files        int // language files written
	added        int // keys appended
	untranslated int // entries in the report
	outdated     int // translations made from an older reference text
	skipped      int // language files that could not be processed
}

// runSync compares every reference file with each language and returns the
// untranslated report. A missing reference directory is the only error;
// everything else is logged and skipped.
func runSync(p *config.Project, opts syncOptions) (*report.Report, syncStats, error) {
	var st syncStats
	rep := report.New(opts.langs...)

	refFiles, err := p.ListFiles(p.Reference)
	if err != nil {
		return nil, st, fmt.Errorf("reference language %s: %w", p.Reference, err)
	}
	if len(refFiles) == 0 {
		logWarning("No reference files found in %s", p.ReferenceDir())
		return rep, st, nil
	}
	logInfo("Found %d reference files: %s", len(refFiles), joinKeys(refFiles))

	lock, err := lockfile.Load(p.LangDir)
	if err != nil {
		logWarning("Ignoring lock file: %v", err)
		lock = nil
	}

	for _, name := range refFiles {
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, strings.Repeat("=", 50))
		logInfo("Processing file: %s", name)

		ref, err := phpfile.ParseFile(p.FilePath(p.Reference, name), p.Namespace)
		if err != nil {
			logError("%v", err)
			st.skipped++
			continue
		}
		warnDuplicates(ref, p.Reference, name)
		logInfo("%s file contains %d entries", p.Reference, ref.Len())

		for _, lang := range opts.langs {
			syncFile(p, ref, lang, name, rep, lock, opts, &st)
			if lock != nil {
				lock.Clean(lockfile.TargetKey(lang, name), ref.Keys())
			}
		}
	}

	// Drop checksums of keys that left the reference.
	if lock != nil && !opts.dryRun && fileExists(lock.Path()) {
		if err := lock.Save(); err != nil {
			logWarning("%v", err)
		}
	}

	return rep, st, nil
}

// syncFile brings one language file up to date with ref.
func syncFile(p *config.Project, ref *phpfile.File, lang, name string, rep *report.Report, lock *lockfile.LockFile, opts syncOptions, st *syncStats) {
	if langDir := p.LangPath(lang); !dirExists(langDir) {
		logWarning("Language directory does not exist: %s", langDir)
		st.skipped++
		return
	}

	path := p.FilePath(lang, name)
	created := false
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if !opts.createMissing {
			logWarning("%s/%s does not exist (use --create-missing to create it)", lang, name)
			addUntranslated(rep, p.Namespace, lang, merge.Compare(ref, phpfile.New(p.Namespace)), st)
			st.skipped++
			return
		}
		data = ref.Blank()
		created = true
	case err != nil:
		logError("%v", err)
		st.skipped++
		return
	}

	target := phpfile.Parse(data, p.Namespace)
	warnDuplicates(target, lang, name)
	total, translated := target.Stats()
	logInfo("%s file contains %d entries, %d translated", lang, total, translated)

	d := merge.Compare(ref, target)
	addUntranslated(rep, p.Namespace, lang, d, st)

	if len(d.Obsolete) > 0 {
		logWarning("%s/%s has %d keys that are not in the reference: %s", lang, name, len(d.Obsolete), joinKeys(d.Obsolete))
	}
	if outdated := merge.Outdated(ref, target, lock, lockfile.TargetKey(lang, name)); len(outdated) > 0 {
		logWarning("%s/%s has %d outdated translations: %s", lang, name, len(outdated), joinKeys(outdated))
		st.outdated += len(outdated)
	}

	missing := d.MissingItems()
	if len(missing) == 0 && !created {
		logSuccess("%s file is complete, nothing to update", lang)
		return
	}
	if len(missing) > 0 {
		logInfo("%s is missing %d entries: %s", lang, len(missing), joinKeys(d.Missing))
	}

	if len(missing) > 0 && merge.MissingComma(data, p.Namespace) {
		logWarning("%s: the last entry before %s has no trailing comma, add one or the file will not parse", path, merge.ClosingMarker)
	}

	patched, err := merge.Patch(data, p.Namespace, missing)
	if err != nil {
		logWarning("%s: %v, file left untouched", path, err)
		st.skipped++
		return
	}

	if opts.dryRun {
		logInfo("Dry run: would update %s", path)
		return
	}
	if err := os.WriteFile(path, patched, 0644); err != nil {
		logError("writing %s: %v", path, err)
		st.skipped++
		return
	}
	st.files++
	st.added += len(missing)
	if created {
		logSuccess("Created %s", path)
	} else {
		logSuccess("Updated %s", path)
	}
}

func addUntranslated(rep *report.Report, ns, lang string, d *merge.Diff, st *syncStats) {
	for _, it := range d.Untranslated {
		rep.Add(lang, phpfile.QualifiedKey(ns, it.Key), report.Entry{
			Source:      it.Source,
			Translation: it.Translation,
		})
	}
	st.untranslated += len(d.Untranslated)
}

func warnDuplicates(f *phpfile.File, lang, name string) {
	for _, dup := range f.Duplicates() {
		logWarning("Duplicate key %s in %s/%s line %d, the later value wins", dup.Key, lang, name, dup.Line)
	}
}

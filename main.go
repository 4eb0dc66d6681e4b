// transl — keeps PHP language-array files in sync with a reference language
// and imports finished translations back into them.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/minios-linux/transl/config"
	"github.com/minios-linux/transl/i18n"
	"github.com/minios-linux/transl/langmeta"
	"github.com/spf13/cobra"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ANSI colors
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
	colorBlue   = "\033[0;34m"
)

func logInfo(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorBlue+"[INFO]"+colorReset+" "+i18n.T(format)+"\n", args...)
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorGreen+"[OK]"+colorReset+" "+i18n.T(format)+"\n", args...)
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorYellow+"[WARN]"+colorReset+" "+i18n.T(format)+"\n", args...)
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorRed+"[ERROR]"+colorReset+" "+i18n.T(format)+"\n", args...)
}

// ---------------------------------------------------------------------------
// Global flags
// ---------------------------------------------------------------------------

var (
	rootDir   string
	reference string
	namespace string
)

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "transl",
		Short: "Keep PHP language files in sync with a reference language",
		Long: `transl — keeps PHP language-array files in sync with a reference language.

Every language lives in its own directory (zh/app.php, en/app.php, ...).
Entries look like Transl::KEY => 'text'.

Commands:
  sync        Add missing keys to every language and write untranslated.json
  import      Fill empty entries from a translated untranslated.json
  status      Show translation statistics
  init        Write a .transl.yaml configuration file`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global persistent flags — inherited by all subcommands
	root.PersistentFlags().StringVar(&rootDir, "root", ".", "Project root directory")
	root.PersistentFlags().StringVar(&reference, "reference", "", "Reference language (default from config, zh)")
	root.PersistentFlags().StringVar(&namespace, "namespace", "", "Key namespace, e.g. Transl in Transl::KEY (default from config)")

	root.AddCommand(
		newSyncCmd(),
		newImportCmd(),
		newStatusCmd(),
		newInitCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	i18n.Init("")
	if err := newRootCmd().Execute(); err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}

// loadProject resolves the project and applies the global flag overrides.
func loadProject(cmd *cobra.Command) (*config.Project, error) {
	p, err := config.Load(rootDir)
	if err != nil {
		return nil, err
	}
	if reference != "" && reference != p.Reference {
		p.Reference = reference
		if p.Detected {
			p.Languages = config.DetectLanguages(p.LangDir, p.Reference, p.Extension)
		} else {
			p.Languages = config.FilterOut(p.Languages, p.Reference)
		}
	}
	if cmd.Flags().Changed("namespace") {
		p.Namespace = namespace
	}
	return p, nil
}

// ---------------------------------------------------------------------------
// version (display version information)
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version, commit hash, and build date.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("transl version %s\n", version)
			fmt.Printf("  commit:    %s\n", commit)
			fmt.Printf("  built:     %s\n", date)
		},
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// intersectLanguages keeps the languages of filter that are available, in
// filter order. Unknown languages are reported and dropped.
func intersectLanguages(available, filter []string) []string {
	known := make(map[string]bool, len(available))
	for _, l := range available {
		known[l] = true
	}

	var out []string
	for _, l := range filter {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		if !known[l] {
			logWarning("Language %s is not configured, skipping", l)
			continue
		}
		out = append(out, l)
	}
	return out
}

// selectLanguages applies the --lang filter to the project languages.
func selectLanguages(available []string, filter string) []string {
	if strings.TrimSpace(filter) == "" {
		return available
	}
	return intersectLanguages(available, config.SplitList(filter))
}

// progressBar renders a colored bar of width cells followed by the percentage.
func progressBar(percent, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	color := colorGreen
	switch {
	case percent < 50:
		color = colorRed
	case percent < 100:
		color = colorYellow
	}

	filled := percent * width / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return color + bar + colorReset + fmt.Sprintf(" %3d%%", percent)
}

// langFlag returns the emoji flag of a language code. An explicit region
// wins over the language's likely region.
func langFlag(lang string) string {
	if _, region, ok := strings.Cut(strings.ReplaceAll(lang, "_", "-"), "-"); ok {
		return langmeta.FlagFromRegion(region)
	}
	return langmeta.Resolve(lang).Flag
}

func langColumnWidth(langs []string) int {
	width := 0
	for _, l := range langs {
		if len(l) > width {
			width = len(l)
		}
	}
	return width
}

// langCell renders a flag and the language code padded to width.
func langCell(lang string, width int) string {
	flag := langFlag(lang)
	if flag == "" {
		flag = "  "
	}
	return fmt.Sprintf("%s %-*s", flag, width, lang)
}

func joinKeys(keys []string) string {
	return strings.Join(keys, ", ")
}

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	gitignore "github.com/monochromegane/go-gitignore"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/snapgen/snapgen/internal/config"
	"github.com/snapgen/snapgen/internal/gitmeta"
	"github.com/snapgen/snapgen/internal/logutil"
	"github.com/snapgen/snapgen/internal/pdfout"
	"github.com/snapgen/snapgen/internal/picker"
	"github.com/snapgen/snapgen/internal/redact"
	"github.com/snapgen/snapgen/internal/snapshot"
	"github.com/snapgen/snapgen/internal/tokencount"
)

var (
	// Output
	outputFile      string
	printToStdout   bool
	copyToClipboard bool
	pdfOutputFile   string

	// Filtering
	useGitignore bool

	// Redaction
	redactRulesFile string

	// Token Counting
	tokenizerType  string
	tokenizerModel string
	tokenizerFile  string

	// Interactive Mode
	interactiveMode bool
)

// version is the application version, set via ldflags.
var version string = "dev"

var rootCmd = &cobra.Command{
	Use:   "snapgen [ROOT]",
	Short: "snapgen generates a single LLM-optimized text snapshot of a directory tree.",
	Long: `snapgen walks a directory tree, filters files by extension and exclusion
rules, redacts secret-like values, and concatenates everything into one
annotated text file with an estimated token count.`,
	Version: version,
	Args:    cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		log, err := logutil.NewConsole()
		cobra.CheckErr(err)
		defer log.Sync()

		root := "."
		if len(args) == 1 {
			root = args[0]
		}
		if interactiveMode {
			picked, err := picker.PickRoot(newClassifier(root, ""))
			if err != nil {
				log.Fatal("interactive selection failed", zap.Error(err))
			}
			if picked == "" {
				return // user aborted
			}
			root = picked
		}

		destination := outputFile
		if destination == "" {
			destination = filepath.Join(root, config.DefaultOutputFile)
		}

		redactor, err := newRedactor()
		if err != nil {
			log.Fatal("invalid redaction configuration", zap.Error(err))
		}

		classifier := newClassifier(root, filepath.Base(destination))
		walker := snapshot.NewWalker(classifier, redactor, log)

		log.Info("starting snapshot generation", zap.String("root", root))
		result, err := walker.Walk(root)
		if err != nil {
			log.Fatal("traversal failed", zap.Error(err))
		}

		counter := tokencount.Select(tokencount.Options{
			Strategy: tokenizerType,
			Model:    tokenizerModel,
			File:     tokenizerFile,
		}, log)
		defer counter.Close()

		meta := gitmeta.Describe(root)
		formatter := &snapshot.Formatter{
			Now:     time.Now,
			Counter: counter,
			Branch:  meta.Branch,
			Commit:  meta.Commit,
		}
		document := formatter.Render(result)

		switch {
		case printToStdout:
			fmt.Println(document.Text)
		case copyToClipboard:
			if err := clipboard.WriteAll(document.Text); err != nil {
				log.Fatal("writing snapshot to clipboard failed", zap.Error(err))
			}
			destination = "clipboard"
		default:
			if err := os.WriteFile(destination, []byte(document.Text), 0644); err != nil {
				log.Fatal("writing snapshot file failed", zap.String("path", destination), zap.Error(err))
			}
		}

		if pdfOutputFile != "" {
			if err := pdfout.Write(pdfOutputFile, document.Preamble, result.Sections); err != nil {
				log.Fatal("writing PDF export failed", zap.Error(err))
			}
		}

		log.Info("snapshot generated",
			zap.String("destination", destination),
			zap.Int("files_captured", result.Stats.FilesCaptured),
			zap.Int("items_skipped", result.Stats.ItemsSkipped),
			zap.Int("token_estimate", document.TokenCount),
			zap.String("tokenizer", counter.Name()),
		)
	},
}

// newClassifier builds the classifier from the resolved configuration.
// outputName, when non-empty, is additionally excluded so the snapshot never
// captures a previous run's artifact.
func newClassifier(root, outputName string) *snapshot.Classifier {
	exclusion := config.NewExclusionPolicy(
		viper.GetStringSlice("exclude_dirs"),
		viper.GetStringSlice("exclude_paths"),
		viper.GetStringSlice("exclude_files"),
	).WithFileName(outputName)

	inclusion := config.NewInclusionPolicy(
		viper.GetStringSlice("allowed_extensions"),
		viper.GetStringSlice("include_files"),
	)

	var ignoreMatcher gitignore.IgnoreMatcher
	if useGitignore {
		gitIgnorePath := filepath.Join(root, ".gitignore")
		if _, err := os.Stat(gitIgnorePath); err == nil {
			if matcher, err := gitignore.NewGitIgnore(gitIgnorePath); err == nil {
				ignoreMatcher = matcher
			} else {
				fmt.Fprintf(os.Stderr, "Warning: could not parse %s: %v\n", gitIgnorePath, err)
			}
		}
	}

	return snapshot.NewClassifier(exclusion, inclusion, ignoreMatcher)
}

// newRedactor combines the configured sensitive keys with any rules file.
func newRedactor() (*redact.Redactor, error) {
	keys := viper.GetStringSlice("sensitive_keys")
	if redactRulesFile != "" {
		extra, err := redact.LoadKeysFile(redactRulesFile)
		if err != nil {
			return nil, err
		}
		keys = append(keys, extra...)
	}
	return redact.New(keys)
}

func init() {
	cobra.OnInitialize(initConfig)

	// Output
	rootCmd.Flags().StringVarP(&outputFile, "file", "f", "", "Save snapshot to specified file (default: repo_snapshot.txt in ROOT)")
	viper.BindPFlag("file", rootCmd.Flags().Lookup("file"))
	rootCmd.Flags().BoolVarP(&printToStdout, "stdout", "p", false, "Print snapshot to stdout instead of writing a file")
	viper.BindPFlag("stdout", rootCmd.Flags().Lookup("stdout"))
	rootCmd.Flags().BoolVarP(&copyToClipboard, "clipboard", "c", false, "Copy snapshot to clipboard instead of writing a file")
	viper.BindPFlag("clipboard", rootCmd.Flags().Lookup("clipboard"))
	rootCmd.Flags().StringVar(&pdfOutputFile, "pdf", "", "Additionally save the snapshot as PDF")
	viper.BindPFlag("pdf", rootCmd.Flags().Lookup("pdf"))

	// Filtering
	rootCmd.Flags().BoolVar(&useGitignore, "use-gitignore", false, "Also respect the root .gitignore as an exclusion source")
	viper.BindPFlag("use_gitignore", rootCmd.Flags().Lookup("use-gitignore"))

	// Redaction
	rootCmd.Flags().StringVar(&redactRulesFile, "redact-rules", "", "YAML file with additional sensitive key names")
	viper.BindPFlag("redact_rules", rootCmd.Flags().Lookup("redact-rules"))

	// Token Counting
	rootCmd.Flags().StringVar(&tokenizerType, "tokenizer", "tiktoken", "Tokenizer strategy: tiktoken, huggingface or approx")
	viper.BindPFlag("tokenizer", rootCmd.Flags().Lookup("tokenizer"))
	rootCmd.Flags().StringVar(&tokenizerModel, "model", "", "Model name for the tokenizer (e.g. gpt-4o, gpt2)")
	viper.BindPFlag("model", rootCmd.Flags().Lookup("model"))
	rootCmd.Flags().StringVar(&tokenizerFile, "tokenizer-file", "", "Path to a local tokenizer.json (huggingface strategy)")
	viper.BindPFlag("tokenizer_file", rootCmd.Flags().Lookup("tokenizer-file"))

	// Interactive Mode
	rootCmd.Flags().BoolVar(&interactiveMode, "interactive", false, "Pick the traversal root with a fuzzy finder")
	viper.BindPFlag("interactive", rootCmd.Flags().Lookup("interactive"))

	// Policy defaults; a config file can override each list wholesale.
	viper.SetDefault("allowed_extensions", config.DefaultAllowedExtensions())
	viper.SetDefault("include_files", config.DefaultIncludedFileNames())
	viper.SetDefault("exclude_dirs", config.DefaultExcludedDirNames())
	viper.SetDefault("exclude_paths", config.DefaultExcludedPathPrefixes())
	viper.SetDefault("exclude_files", config.DefaultExcludedFileNames())
	viper.SetDefault("sensitive_keys", redact.DefaultSensitiveKeys())
	viper.SetDefault("tokenizer", "tiktoken")
	viper.SetDefault("use_gitignore", false)
}

// initConfig reads in the config file and SNAPGEN_* environment variables.
func initConfig() {
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "snapgen"))
	}
	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	viper.SetConfigType("toml")

	viper.SetEnvPrefix("SNAPGEN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Error reading config file: %s\n", err)
		}
	}
}

func main() {
	rootCmd.Execute()
}

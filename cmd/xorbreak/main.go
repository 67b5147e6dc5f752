// Package main provides the CLI entrypoint for xorbreak.
package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/xorbreak/internal/bitwise"
	"github.com/verte-zerg/xorbreak/internal/config"
	"github.com/verte-zerg/xorbreak/internal/cryptanalysis"
	"github.com/verte-zerg/xorbreak/internal/freq"
	"github.com/verte-zerg/xorbreak/internal/generator"
	"github.com/verte-zerg/xorbreak/internal/input"
	"github.com/verte-zerg/xorbreak/internal/model"
	"github.com/verte-zerg/xorbreak/internal/report"
	"github.com/verte-zerg/xorbreak/internal/store"
	"github.com/verte-zerg/xorbreak/internal/tui"
)

const (
	defaultEncoding     = input.EncodingBase64
	defaultMinKeySize   = 2
	defaultMaxKeySize   = 40
	defaultSampleChunks = 10
	defaultCharset      = cryptanalysis.CharsetFull
	defaultKeyCharset   = cryptanalysis.CharsetPrintable
)

var (
	analysisEncoding string
	analysisMinKey   int
	analysisMaxKey   int
	analysisChunks   int
	analysisCharset  string
	analysisModel    string
	analysisNoStore  bool
	analysisColor    bool

	breakKeySize int
	breakInspect bool
	breakVerbose bool

	encryptKey        string
	encryptRandomKey  int
	encryptKeyCharset string
	encryptOutput     string

	historySource string
	historySince  string
	historyLast   int
	historyColor  bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "xorbreak [file]",
		Short:         "Break repeating-key XOR ciphertext",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.MaximumNArgs(1),
		RunE:          runBreakCmd,
	}
	addAnalysisFlags(rootCmd)
	rootCmd.Flags().IntVar(&breakKeySize, "keysize", 0, "use this key size instead of estimating it")
	rootCmd.Flags().BoolVar(&breakInspect, "inspect", false, "open the interactive inspector")
	rootCmd.Flags().BoolVarP(&breakVerbose, "verbose", "v", false, "also print key size candidates and per-column keys")

	rootCmd.AddCommand(newKeySizeCmd())
	rootCmd.AddCommand(newSingleCmd())
	rootCmd.AddCommand(newDetectCmd())
	rootCmd.AddCommand(newEncryptCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func addAnalysisFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&analysisEncoding, "encoding", defaultEncoding, "input encoding: hex, base64 or raw")
	cmd.Flags().IntVar(&analysisMinKey, "min-keysize", defaultMinKeySize, "smallest key size to try")
	cmd.Flags().IntVar(&analysisMaxKey, "max-keysize", defaultMaxKeySize, "largest key size to try")
	cmd.Flags().IntVar(&analysisChunks, "chunks", defaultSampleChunks, "sample chunks per key size")
	cmd.Flags().StringVar(&analysisCharset, "charset", defaultCharset, "key byte candidates: full, ascii or printable")
	cmd.Flags().StringVar(&analysisModel, "model", "", "frequency model TOML file (default: built-in English)")
	cmd.Flags().BoolVar(&analysisNoStore, "no-store", false, "do not record the run in history")
	cmd.Flags().BoolVar(&analysisColor, "color", false, "force colored charts")
}

func runBreakCmd(cmd *cobra.Command, args []string) error {
	cfg, err := resolveAnalysisConfig(cmd)
	if err != nil {
		return err
	}
	if breakKeySize < 0 {
		return fmt.Errorf("--keysize must be >= 0")
	}
	path := argPath(args)
	ciphertext, err := readCiphertext(path, cfg.Encoding)
	if err != nil {
		return err
	}
	fm, err := loadModel(cfg.ModelPath)
	if err != nil {
		return err
	}
	opts, err := buildOptions(cfg)
	if err != nil {
		return err
	}

	var analysis model.Analysis
	if breakKeySize > 0 {
		analysis, err = cryptanalysis.BreakWithKeySize(fm, opts, breakKeySize, ciphertext)
		if err == nil {
			analysis.Candidates = cryptanalysis.KeySizeScores(opts.KeySizes, opts.SampleChunks, ciphertext)
		}
	} else {
		analysis, err = cryptanalysis.Break(fm, opts, ciphertext)
	}
	if err != nil {
		if isNoKeySize(err) {
			logErrln("hint: lower --chunks or --max-keysize for short ciphertexts")
		}
		return fmt.Errorf("failed to break ciphertext: %w", err)
	}

	if breakInspect {
		inspector := tui.NewModel(fm, opts, ciphertext, analysis)
		program := tea.NewProgram(inspector, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run inspector: %w", err)
		}
		analysis = inspector.Analysis()
	}

	if breakVerbose {
		if err := renderDetails(cmd.OutOrStdout(), analysis); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	if err := report.RenderAnalysis(cmd.OutOrStdout(), analysis); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if cfg.Store {
		recordRun(path, ciphertext, cfg, analysis)
	}
	return nil
}

func renderDetails(w io.Writer, analysis model.Analysis) error {
	if len(analysis.Candidates) > 0 {
		if err := report.RenderKeySizes(w, analysis.Candidates, analysis.KeySize, analysisColor); err != nil {
			return err
		}
	}
	return report.RenderColumns(w, analysis.Columns)
}

func newKeySizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keysize [file]",
		Short: "Rank candidate key sizes",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runKeySizeCmd,
	}
	addAnalysisFlags(cmd)
	return cmd
}

func runKeySizeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := resolveAnalysisConfig(cmd)
	if err != nil {
		return err
	}
	ciphertext, err := readCiphertext(argPath(args), cfg.Encoding)
	if err != nil {
		return err
	}
	keySizes := cryptanalysis.KeySizeRange(cfg.MinKeySize, cfg.MaxKeySize)
	scores := cryptanalysis.KeySizeScores(keySizes, cfg.SampleChunks, ciphertext)
	best := 0
	if ranked := cryptanalysis.RankKeySizes(scores); len(ranked) > 0 {
		best = ranked[0].KeySize
	}
	if err := report.RenderKeySizes(cmd.OutOrStdout(), scores, best, analysisColor); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if len(scores) == 0 {
		return fmt.Errorf("failed to estimate key size: %w", cryptanalysis.ErrNoKeySize)
	}
	return nil
}

func newSingleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "single [file]",
		Short: "Break single-byte XOR ciphertext",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSingleCmd,
	}
	addAnalysisFlags(cmd)
	return cmd
}

func runSingleCmd(cmd *cobra.Command, args []string) error {
	cfg, err := resolveAnalysisConfig(cmd)
	if err != nil {
		return err
	}
	ciphertext, err := readCiphertext(argPath(args), cfg.Encoding)
	if err != nil {
		return err
	}
	fm, err := loadModel(cfg.ModelPath)
	if err != nil {
		return err
	}
	charset, err := cryptanalysis.ParseCharset(cfg.Charset)
	if err != nil {
		return err
	}
	key, score := cryptanalysis.BreakSingleByte(fm, charset, ciphertext)
	analysis := model.Analysis{
		KeySize:   1,
		Key:       []byte{key},
		Plaintext: bitwise.XorByte(key, ciphertext),
		Score:     score,
	}
	if err := report.RenderAnalysis(cmd.OutOrStdout(), analysis); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newDetectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect [file]",
		Short: "Find the line encrypted with single-byte XOR",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runDetectCmd,
	}
	addAnalysisFlags(cmd)
	return cmd
}

func runDetectCmd(cmd *cobra.Command, args []string) error {
	cfg, err := resolveAnalysisConfig(cmd)
	if err != nil {
		return err
	}
	lines, err := input.LoadLines(argPath(args), cfg.Encoding)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	fm, err := loadModel(cfg.ModelPath)
	if err != nil {
		return err
	}
	charset, err := cryptanalysis.ParseCharset(cfg.Charset)
	if err != nil {
		return err
	}
	det, ok := cryptanalysis.DetectSingleByte(fm, charset, lines)
	if !ok {
		return fmt.Errorf("no line could be scored")
	}
	if err := report.RenderDetection(cmd.OutOrStdout(), det); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newEncryptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encrypt [file]",
		Short: "Encrypt raw input with repeating-key XOR",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runEncryptCmd,
	}
	cmd.Flags().StringVar(&encryptKey, "key", "", "key text")
	cmd.Flags().IntVar(&encryptRandomKey, "random-key", 0, "generate a random key of N bytes")
	cmd.Flags().StringVar(&encryptKeyCharset, "key-charset", defaultKeyCharset, "random key bytes: full, ascii or printable")
	cmd.Flags().StringVar(&encryptOutput, "output-encoding", defaultEncoding, "output encoding: hex, base64 or raw")
	return cmd
}

func runEncryptCmd(cmd *cobra.Command, args []string) error {
	if err := input.ValidateEncoding(encryptOutput); err != nil {
		return err
	}
	key, err := resolveEncryptKey()
	if err != nil {
		return err
	}
	plaintext, err := input.ReadSource(argPath(args))
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	out, err := input.Encode(bitwise.XorWithKey(key, plaintext), encryptOutput)
	if err != nil {
		return err
	}
	if encryptRandomKey > 0 {
		logErrf("key: %s (%s)\n", report.QuoteKey(key), hex.EncodeToString(key))
	}
	if _, err := cmd.OutOrStdout().Write(out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func resolveEncryptKey() ([]byte, error) {
	switch {
	case encryptKey != "" && encryptRandomKey != 0:
		return nil, fmt.Errorf("--key and --random-key are mutually exclusive")
	case encryptKey != "":
		return []byte(encryptKey), nil
	case encryptRandomKey < 0:
		return nil, fmt.Errorf("--random-key must be > 0")
	case encryptRandomKey > 0:
		charset, err := cryptanalysis.ParseCharset(encryptKeyCharset)
		if err != nil {
			return nil, err
		}
		return generator.New().RandomKey(encryptRandomKey, charset)
	default:
		return nil, fmt.Errorf("one of --key or --random-key is required")
	}
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show stored runs",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historySource, "source", "", "source filter")
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N runs")
	cmd.Flags().BoolVar(&historyColor, "color", false, "force colored charts")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	if historyLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	var sinceTime *time.Time
	if historySince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", historySince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	cfg := model.HistoryConfig{
		Source: historySource,
		Since:  sinceTime,
		Last:   historyLast,
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	h, err := report.BuildHistory(context.Background(), st, cfg)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	if err := report.RenderHistoryReport(cmd.OutOrStdout(), h, historyColor); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// resolveAnalysisConfig merges the config file under the analysis flags of cmd.
func resolveAnalysisConfig(cmd *cobra.Command) (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	return applyAnalysisConfig(cmd, fileCfg.Analysis)
}

func applyAnalysisConfig(cmd *cobra.Command, fileCfg config.AnalysisConfig) (model.Config, error) {
	applyStringConfig(cmd, "encoding", &analysisEncoding, fileCfg.Encoding)
	applyIntConfig(cmd, "min-keysize", &analysisMinKey, fileCfg.MinKeySize)
	applyIntConfig(cmd, "max-keysize", &analysisMaxKey, fileCfg.MaxKeySize)
	applyIntConfig(cmd, "chunks", &analysisChunks, fileCfg.SampleChunks)
	applyStringConfig(cmd, "charset", &analysisCharset, fileCfg.Charset)
	applyStringConfig(cmd, "model", &analysisModel, fileCfg.Model)
	if fileCfg.Store != nil && !cmd.Flags().Changed("no-store") {
		analysisNoStore = !*fileCfg.Store
	}

	cfg := model.Config{
		Encoding:     analysisEncoding,
		MinKeySize:   analysisMinKey,
		MaxKeySize:   analysisMaxKey,
		SampleChunks: analysisChunks,
		Charset:      analysisCharset,
		ModelPath:    analysisModel,
		Store:        !analysisNoStore,
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# xorbreak configuration
# Uncomment a value to enable it. CLI flags override config values.

[analysis]
# encoding = %q       # Input encoding: hex, base64 or raw
# min-keysize = %d         # Smallest key size to try
# max-keysize = %d        # Largest key size to try
# chunks = %d             # Sample chunks per key size
# charset = %q          # Key byte candidates: full, ascii or printable
# model = ""              # Frequency model TOML file (default: built-in English)
# store = true            # Record runs in history
`,
		defaultEncoding,
		defaultMinKeySize,
		defaultMaxKeySize,
		defaultSampleChunks,
		defaultCharset,
	)
}

func validateConfig(cfg model.Config) error {
	if err := input.ValidateEncoding(cfg.Encoding); err != nil {
		return err
	}
	if cfg.MinKeySize <= 0 {
		return fmt.Errorf("--min-keysize must be > 0")
	}
	if cfg.MaxKeySize < cfg.MinKeySize {
		return fmt.Errorf("--max-keysize must be >= --min-keysize")
	}
	if cfg.SampleChunks < 2 {
		return fmt.Errorf("--chunks must be >= 2")
	}
	if _, err := cryptanalysis.ParseCharset(cfg.Charset); err != nil {
		return err
	}
	return nil
}

func buildOptions(cfg model.Config) (cryptanalysis.Options, error) {
	charset, err := cryptanalysis.ParseCharset(cfg.Charset)
	if err != nil {
		return cryptanalysis.Options{}, err
	}
	return cryptanalysis.Options{
		KeySizes:     cryptanalysis.KeySizeRange(cfg.MinKeySize, cfg.MaxKeySize),
		SampleChunks: cfg.SampleChunks,
		Charset:      charset,
	}, nil
}

func loadModel(path string) (*freq.Model[byte], error) {
	if path == "" {
		return freq.English(), nil
	}
	m, err := freq.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load model: %w", err)
	}
	return m, nil
}

func readCiphertext(path, encoding string) ([]byte, error) {
	data, err := input.ReadSource(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	ciphertext, err := input.Decode(data, encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to decode input: %w", err)
	}
	if len(ciphertext) == 0 {
		return nil, cryptanalysis.ErrEmptyCiphertext
	}
	return ciphertext, nil
}

func argPath(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func sourceName(path string) string {
	if path == "" || path == "-" {
		return "stdin"
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

func newRun(path string, ciphertext []byte, cfg model.Config, analysis model.Analysis) model.Run {
	digest := sha256.Sum256(ciphertext)
	return model.Run{
		CreatedAt:        time.Now(),
		Source:           sourceName(path),
		CiphertextSHA256: hex.EncodeToString(digest[:]),
		CiphertextLen:    len(ciphertext),
		KeySize:          analysis.KeySize,
		Key:              analysis.Key,
		Score:            analysis.Score,
		SampleChunks:     cfg.SampleChunks,
		Charset:          cfg.Charset,
	}
}

// recordRun stores a finished analysis. Failures are reported but do not fail the command.
func recordRun(path string, ciphertext []byte, cfg model.Config, analysis model.Analysis) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		logErrf("failed to open db: %v\n", err)
		return
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	run := newRun(path, ciphertext, cfg, analysis)
	if _, err := st.InsertRun(context.Background(), run, analysis.Candidates); err != nil {
		logErrf("failed to record run: %v\n", err)
	}
}

func isNoKeySize(err error) bool {
	return errors.Is(err, cryptanalysis.ErrNoKeySize)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

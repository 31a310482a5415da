package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/chriserin/gherkin/keywords"
)

// Env carries what every command needs.
type Env struct {
	Table    *keywords.Dictionary
	Log      logr.Logger
	Language string // default language for files without a directive
	DBPath   string
}

var (
	langFlag     string
	dbFlag       string
	debugFlag    bool
	keywordsFlag string
)

var rootCmd = &cobra.Command{
	Use:          "gherkin",
	Short:        "gherkin — parse, format and index Gherkin feature files",
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&langFlag, "lang", keywords.DefaultLanguage, "Language of files without a '# language:' line")
	pf.StringVar(&dbFlag, "db", "gherkin.db", "Path of the scenario index database")
	pf.BoolVar(&debugFlag, "debug", false, "Enable debug logging")
	pf.StringVar(&keywordsFlag, "keywords", "", "YAML file replacing the built-in keyword table")
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// loadEnv builds the Env from the persistent flags.
func loadEnv() (Env, error) {
	log, err := newLogger(debugFlag)
	if err != nil {
		return Env{}, fmt.Errorf("creating logger: %w", err)
	}

	table := keywords.Default()
	if keywordsFlag != "" {
		f, err := os.Open(keywordsFlag)
		if err != nil {
			return Env{}, fmt.Errorf("opening keywords: %w", err)
		}
		defer f.Close()
		if table, err = keywords.Load(f); err != nil {
			return Env{}, fmt.Errorf("loading keywords from %s: %w", keywordsFlag, err)
		}
	}
	if !table.HasLanguage(langFlag) {
		return Env{}, fmt.Errorf("unknown language %q", langFlag)
	}

	return Env{Table: table, Log: log, Language: langFlag, DBPath: dbFlag}, nil
}

func newLogger(debug bool) (logr.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	zapCfg.Encoding = "console"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapCfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if debug {
		zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	zl, err := zapCfg.Build()
	if err != nil {
		return logr.Discard(), err
	}
	return zapr.NewLogger(zl), nil
}

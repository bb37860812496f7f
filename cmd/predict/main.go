package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"stock-predictor/internal/logger"
	"stock-predictor/internal/predictor"
	"stock-predictor/internal/report"
	"stock-predictor/internal/scoring"
	"stock-predictor/internal/trace"
)

const rule = "=================================================="

type rootFlags struct {
	configPath  string
	outputDir   string
	noSentiment bool
}

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := initializeSystem(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		return 1
	}
	defer logger.Shutdown(context.Background())

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		printError(os.Stdout, err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var flags rootFlags

	root := &cobra.Command{
		Use:   "predict TICKER",
		Short: "Analyze a stock using financial metrics and news sentiment",
		Long: `Stock Predictor scores a ticker on moving averages, volume, momentum,
P/E, profit margin and return on equity, blends that with an LLM reading of
recent FinViz and Yahoo Finance headlines, and prints a recommendation.

The detailed analysis is saved to <TICKER>_analysis.txt.`,
		Example: `  predict AAPL
  predict TSLA --no-sentiment
  predict MSFT --output-dir reports`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalysis(cmd.Context(), cmd.OutOrStdout(), args[0], flags, cmd.Flags().Changed("output-dir"))
		},
	}

	root.PersistentFlags().StringVar(&flags.configPath, "config", "config.yaml", "config file (missing file means defaults)")
	root.Flags().BoolVar(&flags.noSentiment, "no-sentiment", false, "skip sentiment analysis (financial metrics only)")
	root.Flags().StringVar(&flags.outputDir, "output-dir", ".", "output directory for the analysis file")

	root.AddCommand(newCacheCmd(&flags), newVersionCmd())
	return root
}

func runAnalysis(ctx context.Context, out io.Writer, ticker string, flags rootFlags, outputDirSet bool) error {
	cfg, err := loadConfig(ctx, flags.configPath)
	if err != nil {
		return err
	}
	if outputDirSet {
		cfg.Report.OutputDir = flags.outputDir
	}

	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	fmt.Fprintf(out, "🔍 Starting analysis for %s...\n", ticker)
	fmt.Fprintln(out, rule)

	cache, err := initializeCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer cache.Close()

	inferer, err := initializeSentiment(ctx, cfg, cache, flags.noSentiment)
	if err != nil {
		return err
	}

	p := initializePredictor(cfg, initializeMarketData(ctx, cfg), initializeNews(ctx, cfg), inferer)

	res, err := p.Predict(ctx, ticker, predictor.Options{NoSentiment: flags.noSentiment})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "📊 Financial analysis complete - Score: %.2f/100\n", res.Financial.Score())
	fmt.Fprintf(out, "📰 News scraping complete - Found %d items\n", len(res.News.Items()))
	if flags.noSentiment {
		fmt.Fprintln(out, "⏭️  Skipped sentiment analysis")
	} else {
		fmt.Fprintf(out, "🤖 Sentiment analysis complete - %s (%.0f/100)\n", res.Sentiment.Label, res.Sentiment.Score)
	}

	rep := report.New(res.Ticker, res.Financial, res.Sentiment, res.News, res.Overall)
	path, err := rep.WriteFile(cfg.Report.OutputDir)
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprint(out, rep.Summary(cfg.Report.LowConfidenceThreshold))
	fmt.Fprintf(out, "\n📄 Full analysis report: %s\n", path)
	fmt.Fprintln(out, "\n✨ Analysis complete!")
	return nil
}

func printError(out io.Writer, err error) {
	switch {
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(out, "\n🛑 Analysis interrupted by user")
	case errors.Is(err, scoring.ErrDataUnavailable), errors.Is(err, predictor.ErrEmptyTicker):
		fmt.Fprintf(out, "❌ Error: %v\n", err)
	default:
		fmt.Fprintf(out, "❌ Unexpected error: %v\n", err)
		fmt.Fprintln(out, "Please check your internet connection and API credentials.")
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", trace.ServiceName, trace.ServiceVersion)
		},
	}
}

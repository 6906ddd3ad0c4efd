package intake

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/mikey/legitim/internal/core"
	"go.uber.org/zap"
)

// CLI analyzes a single message read from a file or stdin and prints a report
type CLI struct {
	analyzer MessageAnalyzer
	logger   *zap.Logger
	out      io.Writer
	verbose  bool
}

// NewCLI creates a new command-line intake writing its report to out
func NewCLI(analyzer MessageAnalyzer, logger *zap.Logger, out io.Writer, verbose bool) *CLI {
	return &CLI{
		analyzer: analyzer,
		logger:   logger,
		out:      out,
		verbose:  verbose,
	}
}

// Check reads the whole message from r, analyzes it and prints the verdict
func (c *CLI) Check(ctx context.Context, r io.Reader) (*core.AnalysisResult, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read email: %w", err)
	}
	c.logger.Debug("Read email", zap.Int("bytes", len(raw)))

	fmt.Fprintf(c.out, "=== Analysis ===\n")
	fmt.Fprintf(c.out, "Content length: %d bytes\n", len(raw))

	start := time.Now()
	result, err := c.analyzer.AnalyzeMessage(ctx, string(raw))
	if err != nil {
		fmt.Fprintf(c.out, "Error: %s\n", userFacing(err))
		return nil, err
	}

	fmt.Fprintf(c.out, "\n=== Results ===\n")
	fmt.Fprintf(c.out, "Verdict: %s\n", result.Verdict())
	fmt.Fprintf(c.out, "Safety score: %d%%\n", result.Score)
	fmt.Fprintf(c.out, "Explanation: %s\n", result.Explanation)
	fmt.Fprintf(c.out, "\n=== Security Checks ===\n")
	for _, check := range result.Checks {
		mark := "PASS"
		if !check.Passed {
			mark = "FAIL"
		}
		fmt.Fprintf(c.out, "[%s] %s: %s\n", mark, check.Name, check.Description)
	}
	if c.verbose {
		fmt.Fprintf(c.out, "\nModel used: %s\n", result.ModelUsed)
		fmt.Fprintf(c.out, "Processing time: %v\n", time.Since(start))
	}

	return result, nil
}

func userFacing(err error) string {
	var ae *core.AnalysisError
	if errors.As(err, &ae) {
		return ae.Message
	}
	return err.Error()
}

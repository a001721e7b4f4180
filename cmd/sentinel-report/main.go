package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/mikey/sentinel-report/internal/core"
	"github.com/mikey/sentinel-report/internal/di"
)

func main() {
	flags := di.ParseFlags()

	reportType, err := flags.ParseReportType()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}

	// Build the dependency injection container
	container, err := di.BuildCLIContainer(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	var outcome core.DeliveryOutcome
	if err := container.Invoke(func(logger *zap.Logger, service *core.ReportService) {
		outcome = run(logger, service, reportType)
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Application error: %v\n", err)
		os.Exit(1)
	}

	if !outcome.Success {
		os.Exit(1)
	}
}

// run reports the message and prints a summary of the outcome
func run(logger *zap.Logger, service *core.ReportService, reportType core.ReportType) core.DeliveryOutcome {
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	outcome := service.Report(ctx, reportType)

	fmt.Printf("\n=== Report ===\n")
	fmt.Printf("Run: %s\n", outcome.RunID)
	fmt.Printf("Type: %s\n", outcome.ReportType)
	fmt.Printf("Stage: %s\n", outcome.Stage)
	if outcome.Recipient != "" {
		fmt.Printf("Recipient: %s\n", outcome.Recipient)
		fmt.Printf("Subject: %s\n", outcome.Subject)
		fmt.Printf("Delivered: %t\n", outcome.Delivered)
	}
	if outcome.Err != nil {
		fmt.Printf("Error: %v\n", outcome.Err)
	}

	return outcome
}

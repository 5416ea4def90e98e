// Package main periodically removes duplicate loan failure notifications from
// the UDN report upload dead-letter queue.
package main

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/revolutionmortgage/cp-efolder-upload/internal/awsutil"
	"github.com/revolutionmortgage/cp-efolder-upload/internal/config"
	"github.com/revolutionmortgage/cp-efolder-upload/internal/dlq"
	"github.com/revolutionmortgage/cp-efolder-upload/internal/logging"
)

// App holds the wired cleanup job.
type App struct {
	cleaner *dlq.Cleaner
}

// main wires config and the SQS client, then hands off to Lambda.
func main() {
	ctx := context.Background()
	logger := logging.New("efolder-udn-report-dlq-cleanup")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("loading config")
	}
	if err := cfg.RequireQueue(); err != nil {
		logger.Fatal().Err(err).Msg("validating config")
	}

	awsCfg, err := awsutil.Load(ctx, cfg.Region, cfg.Endpoint)
	if err != nil {
		logger.Fatal().Err(err).Msg("loading aws config")
	}

	app := &App{
		cleaner: dlq.NewCleaner(sqs.NewFromConfig(awsCfg), cfg.QueueName, logger),
	}
	lambda.Start(app.handler)
}

// handler runs one dedup pass per scheduled trigger.
func (a *App) handler(ctx context.Context, _ events.CloudWatchEvent) error {
	return a.cleaner.Run(ctx)
}

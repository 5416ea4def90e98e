// Package main replays dead-lettered loan events back onto the event bus.
package main

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"

	"github.com/revolutionmortgage/cp-efolder-upload/internal/awsutil"
	"github.com/revolutionmortgage/cp-efolder-upload/internal/config"
	"github.com/revolutionmortgage/cp-efolder-upload/internal/logging"
	"github.com/revolutionmortgage/cp-efolder-upload/internal/replay"
)

// App holds the wired replayer.
type App struct {
	replayer *replay.Replayer
}

// main wires config and the EventBridge client, then hands off to Lambda.
func main() {
	ctx := context.Background()
	logger := logging.New("efolder-udn-report-replay")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("loading config")
	}
	if err := cfg.RequireEventBus(); err != nil {
		logger.Fatal().Err(err).Msg("validating config")
	}

	awsCfg, err := awsutil.Load(ctx, cfg.Region, cfg.Endpoint)
	if err != nil {
		logger.Fatal().Err(err).Msg("loading aws config")
	}

	app := &App{
		replayer: replay.New(eventbridge.NewFromConfig(awsCfg), cfg.EventBusName, logger),
	}
	lambda.Start(app.handler)
}

// handler replays each batch of dead-lettered records.
func (a *App) handler(ctx context.Context, event events.SQSEvent) error {
	return a.replayer.Handle(ctx, event)
}

// Package main uploads UDN reports to a loan's eFolder when a loan-change
// event indicates new data.
package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/rs/zerolog"

	"github.com/revolutionmortgage/cp-efolder-upload/internal/awsutil"
	"github.com/revolutionmortgage/cp-efolder-upload/internal/config"
	"github.com/revolutionmortgage/cp-efolder-upload/internal/creditplus"
	"github.com/revolutionmortgage/cp-efolder-upload/internal/encompass"
	"github.com/revolutionmortgage/cp-efolder-upload/internal/loanstore"
	"github.com/revolutionmortgage/cp-efolder-upload/internal/logging"
	"github.com/revolutionmortgage/cp-efolder-upload/internal/udnupload"
)

// App holds the wired workflow for the life of the execution environment.
type App struct {
	processor *udnupload.Processor
	logger    zerolog.Logger
}

// main wires config, clients and the processor, then hands off to Lambda.
func main() {
	ctx := context.Background()
	logger := logging.New("efolder-udn-report-upload")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("loading config")
	}
	if err := cfg.RequireTable(); err != nil {
		logger.Fatal().Err(err).Msg("validating config")
	}

	awsCfg, err := awsutil.Load(ctx, cfg.Region, cfg.Endpoint)
	if err != nil {
		logger.Fatal().Err(err).Msg("loading aws config")
	}

	store := loanstore.New(dynamodb.NewFromConfig(awsCfg), cfg.TableName)

	loans, err := encompass.NewClient(cfg.Encompass, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("building encompass client")
	}
	reports, err := creditplus.NewClient(cfg.CreditPlus, cfg.Stage, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("building credit plus client")
	}

	app := &App{
		processor: udnupload.NewProcessor(store, loans, reports, logger),
		logger:    logger,
	}
	lambda.Start(app.handler)
}

// handler runs one upload cycle for an inbound loan-change event.
func (a *App) handler(ctx context.Context, event udnupload.Event) (udnupload.Result, error) {
	result, err := a.processor.Process(ctx, event)
	if err != nil {
		a.logger.Error().Err(err).Str("loanId", event.Detail.Loan.ID).Msg("udn report upload failed")
		return udnupload.Result{}, err
	}
	return result, nil
}

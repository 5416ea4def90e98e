// Package main saves a loan snapshot from an integration event destination.
package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/revolutionmortgage/cp-efolder-upload/internal/awsutil"
	"github.com/revolutionmortgage/cp-efolder-upload/internal/config"
	"github.com/revolutionmortgage/cp-efolder-upload/internal/loanstore"
	"github.com/revolutionmortgage/cp-efolder-upload/internal/logging"
	"github.com/revolutionmortgage/cp-efolder-upload/internal/saveloan"
)

// App holds the wired saver.
type App struct {
	saver *saveloan.Saver
}

// main wires config, the store and the saver, then hands off to Lambda.
func main() {
	ctx := context.Background()
	logger := logging.New("save-encompass-loan")

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
	app := &App{
		saver: saveloan.NewSaver(store, logger),
	}
	lambda.Start(app.handler)
}

// handler persists one loan snapshot.
func (a *App) handler(ctx context.Context, event saveloan.Event) error {
	return a.saver.Handle(ctx, event)
}

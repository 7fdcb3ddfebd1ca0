package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/anvil-ml/anvil/internal/preprocess"
)

const version = "0.1.0"

// newApp builds the anvil CLI application.
func newApp(logger *zap.SugaredLogger) *cli.App {
	return &cli.App{
		Name:    "anvil",
		Usage:   "Anvil ML toolkit",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "preprocess",
				Usage: "dataset preprocessing tools",
				Subcommands: []*cli.Command{
					imputeCommand(logger),
				},
			},
			{
				Name:  "version",
				Usage: "print the anvil version",
				Action: func(c *cli.Context) error {
					fmt.Fprintln(c.App.Writer, "anvil", version)
					return nil
				},
			},
		},
	}
}

// imputeCommand is the missing-value imputation binding.
func imputeCommand(logger *zap.SugaredLogger) *cli.Command {
	return &cli.Command{
		Name:  "impute",
		Usage: "replace missing values in a CSV dataset",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "input",
				Aliases:  []string{"i"},
				Usage:    "input CSV file",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "output",
				Aliases:  []string{"o"},
				Usage:    "output CSV file",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "missing-value",
				Usage: "token marking a missing cell",
				Value: preprocess.DefaultMissingToken,
			},
			&cli.StringFlag{
				Name:    "strategy",
				Aliases: []string{"s"},
				Usage:   "imputation strategy: mean, median, custom or listwise_deletion",
				Value:   string(preprocess.Mean),
			},
			&cli.Float64Flag{
				Name:  "custom-value",
				Usage: "fill value for the custom strategy",
			},
			&cli.IntFlag{
				Name:    "dimension",
				Aliases: []string{"d"},
				Usage:   "column to impute (default: all columns)",
				Value:   preprocess.AllDimensions,
			},
		},
		Action: func(c *cli.Context) error {
			return runImpute(c, logger)
		},
	}
}

func runImpute(c *cli.Context, logger *zap.SugaredLogger) error {
	strategy, err := preprocess.ParseStrategy(c.String("strategy"))
	if err != nil {
		return err
	}

	var imputer *preprocess.Imputer
	if strategy == preprocess.Custom {
		if !c.IsSet("custom-value") {
			return errors.New("the custom strategy requires --custom-value")
		}
		imputer = preprocess.NewCustomImputer(c.Float64("custom-value"))
	} else {
		imputer = preprocess.NewImputer(strategy)
	}

	data, err := preprocess.ReadCSV(c.String("input"), c.String("missing-value"))
	if err != nil {
		return err
	}
	rows, cols := data.Dims()
	dim := c.Int("dimension")
	if dim != preprocess.AllDimensions && (dim < 0 || dim >= cols) {
		return errors.Errorf("dimension %d out of range for a %d-column dataset", dim, cols)
	}
	missing := preprocess.CountMissing(data, dim)
	logger.Infow("loaded dataset",
		"path", c.String("input"),
		"rows", rows,
		"cols", cols,
		"missing", missing,
	)

	result, err := imputer.Impute(data, dim)
	if err != nil {
		return err
	}
	if err := preprocess.WriteCSV(c.String("output"), result); err != nil {
		return err
	}

	outRows, _ := result.Dims()
	logger.Infow("wrote imputed dataset",
		"path", c.String("output"),
		"strategy", string(strategy),
		"rows", outRows,
	)
	if strategy == preprocess.ListwiseDeletion && outRows < rows {
		fmt.Fprintf(c.App.Writer, "dropped %d incomplete samples\n", rows-outRows)
	}
	return nil
}

// Package main provides the Anvil ML toolkit CLI.
package main

import (
	"os"

	"go.uber.org/zap"
)

func main() {
	logger := zap.Must(zap.NewProduction())
	defer func() {
		_ = logger.Sync()
	}()
	sugar := logger.Sugar()

	if err := newApp(sugar).Run(os.Args); err != nil {
		sugar.Fatal(err)
	}
}

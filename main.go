// Linux sockstat reporter main

package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/emypar/linux-sockstat-reporter/lssr"
)

var mainLog = lssr.NewCompLogger("main")

func main() {
	// Setup things in the proper order:

	// Parse args:
	flag.Parse()

	// Config:
	cfg, err := lssr.LoadLssrConfigFromArgs()
	if err != nil {
		mainLog.Fatal(err)
	}

	// Logger:
	if err = lssr.SetLogger(cfg.LoggerConfig); err != nil {
		mainLog.Fatal(err)
	}

	// A signal stops the parsing at the next line, whatever was collected so
	// far is still reported:
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = lssr.Run(ctx, cfg, os.Stdout); err != nil {
		mainLog.Fatal(err)
	}
}

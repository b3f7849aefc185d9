// Command pandago is a small command line client for the pandago delivery API.
//
// Usage:
//
//	pandago [-config file] [-env file] [-v] token
//	pandago [-config file] [-env file] [-v] order get <order-id>
//	pandago [-config file] [-env file] [-v] order cancel <order-id> <reason>
//	pandago [-config file] [-env file] [-v] order coordinates <order-id>
//	pandago [-config file] [-env file] [-v] outlet get <client-vendor-id>
//	pandago [-config file] [-env file] [-v] outlet list
//
// Settings not found in the config file are read from PANDAGO_* environment variables.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

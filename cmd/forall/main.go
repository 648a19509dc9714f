package main

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/satococoa/forall/internal/batch"
	forallerrors "github.com/satococoa/forall/internal/errors"
)

const defaultVersion = "dev"

// Version information (set by GoReleaser)
var (
	version = defaultVersion
	_       = "none"    // commit - set by GoReleaser but not used
	_       = "unknown" // date - set by GoReleaser but not used
)

func main() {
	initVersion()
	os.Exit(run(context.Background(), newApp(), os.Args))
}

// run executes app and returns the process exit code. A batch that ran to
// the end with failures has already printed its summary.
func run(ctx context.Context, app *cli.Command, args []string) int {
	err := app.Run(ctx, terminateFlags(app, args))
	if err == nil {
		return 0
	}
	var failures *batch.FailuresError
	if !errors.As(err, &failures) {
		var stderr io.Writer = os.Stderr
		if app.ErrWriter != nil {
			stderr = app.ErrWriter
		}
		forallerrors.Report(stderr, err)
	}
	return 1
}

package main

/******************************************************************************

This is the entry point for the ccmgo command line tool: a single-purpose
binary that fits a 21-state Potts/MRF contact-prediction model to a protein
alignment and writes one or more contact-score/parameter files.

Initial argparsing and app definition is done through
"github.com/urfave/cli/v2"; see https://github.com/urfave/cli/blob/master/docs/v2/manual.md

The app is defined via the &cli.App{} struct in application(), separated
from main so it can be exercised by tests without touching os.Args/os.Exit.

******************************************************************************/

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	os.Exit(run(os.Args))
}

// run builds the app, runs it against args, and translates any returned
// error into the exit-code contract: 0 if the optimizer reported a
// positive code, otherwise |code| (see runError).
func run(args []string) int {
	app := application()
	err := app.Run(args)
	if err == nil {
		return 0
	}

	if re, ok := err.(*runError); ok {
		if re.message != "" {
			log.Print(re.message)
		}
		return re.code
	}

	log.Print(err)
	return 1
}

// application defines the ccmgo CLI: its flags and its single action.
func application() *cli.App {
	return &cli.App{
		Name:      "ccmgo",
		Usage:     "Fit a 21-state Potts/MRF contact-prediction model to a protein alignment.",
		ArgsUsage: "<alignment.fasta>",
		Flags:     ccmgoFlags(),
		Action:    ccmgoAction,
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "scraper",
		Usage: "collect food nutrition records from Open Food Facts into a CSV file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env-file",
				Value: ".env",
				Usage: "optional dotenv file read before the environment",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "scrape",
				Usage:  "fetch real products, topping up with synthetic records when the source runs dry",
				Flags:  datasetFlags(),
				Action: scrapeAction,
			},
			{
				Name:   "generate",
				Usage:  "write a purely synthetic dataset without touching the network",
				Flags:  datasetFlags(),
				Action: generateAction,
			},
			{
				Name:  "lookup",
				Usage: "fetch one product by barcode and print its normalized record",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "barcode",
						Aliases:  []string{"b"},
						Required: true,
						Usage:    "product barcode (EAN/UPC)",
					},
					&cli.BoolFlag{
						Name:  "all",
						Usage: "also print empty columns",
					},
				},
				Action: lookupAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func datasetFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "target",
			Aliases: []string{"n"},
			Value:   2000,
			Usage:   "number of records in the dataset",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Value:   "food_data.csv",
			Usage:   "CSV file to write",
		},
		&cli.Uint64Flag{
			Name:  "seed",
			Usage: "seed for synthetic records and throttle jitter (overrides RANDOM_SEED; 0 seeds from the clock)",
		},
	}
}

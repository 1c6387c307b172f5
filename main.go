package main

import (
	"flag"
	"log"

	"github.com/Brownbull/ayni-be/cmd"
)

func main() {
	shouldRunMigrations := flag.Bool("migrations", false, "Run database migrations")
	shouldRunWorker := flag.Bool("worker", false, "Run the upload processing worker")
	flag.Parse()

	if *shouldRunMigrations {
		if err := cmd.RunMigrations(); err != nil {
			log.Fatal(err)
		}
	}
	if *shouldRunWorker {
		if err := cmd.RunWorker(); err != nil {
			log.Fatal(err)
		}
	}
}

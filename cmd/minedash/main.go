package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"minedash/internal/di"
	"minedash/internal/structures"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	flags := &structures.CliFlags{}
	flag.StringVar(&flags.ConfigPath, "config", "config.yaml", "path to the YAML config file")
	flag.BoolVar(&flags.DebugMode, "debug", false, "log to the console as well")
	envFile := flag.String("env", ".env", "optional dotenv file with MINEDASH_* overrides")
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load %s: %s\n", *envFile, err)
		os.Exit(1)
	}

	_, cleanup, err := di.InitApp(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "minedash: %s\n", err)
		os.Exit(1)
	}
	cleanup()
}

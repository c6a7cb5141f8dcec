package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"ranked-etl/internal/gcloud"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	godotenv.Load()

	defaultPath := os.Getenv("GCLOUD_CREDENTIALS_PATH")
	if defaultPath == "" {
		defaultPath = gcloud.DefaultCredentialsPath
	}

	output := flag.String("output", defaultPath, "Destination path for the credentials file")
	flag.Parse()

	sa, err := gcloud.FromEnv()
	if err != nil {
		var missing *gcloud.MissingConfigError
		if errors.As(err, &missing) {
			fmt.Println("Cannot build credentials file, missing environment variables:")
			for _, field := range missing.Fields {
				fmt.Printf("  - %s\n", field)
			}
			os.Exit(1)
		}
		log.Fatalf("Failed to assemble credentials: %v", err)
	}

	if err := sa.Write(*output); err != nil {
		log.Fatalf("Failed to write credentials file: %v", err)
	}
	fmt.Printf("Wrote credentials for %s to %s\n", sa.ClientEmail, *output)

	if err := gcloud.ValidateFile(*output); err != nil {
		log.Fatalf("Written file failed validation: %v", err)
	}
	fmt.Println("Credentials file validated")
}

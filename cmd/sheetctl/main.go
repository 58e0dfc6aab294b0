// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Config is the CLI configuration, read from sheetctl.yaml when present.
type Config struct {
	// ServerURL is the base URL of a running sheet service.
	ServerURL string `yaml:"server_url"`
}

var config = Config{
	ServerURL: "http://localhost:12230",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error executing command: %v", err)
	}
}

func init() {
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		// Config file is optional; flags and defaults cover the common case.
		configPath := "sheetctl.yaml"
		if yamlFile, err := os.ReadFile(configPath); err == nil {
			if err := yaml.Unmarshal(yamlFile, &config); err != nil {
				log.Fatalf("Error parsing %s: %v", configPath, err)
			}
		}
		// The flag wins over the file.
		if serverURL != "" {
			config.ServerURL = serverURL
		}
	}
}

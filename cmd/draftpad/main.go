// Copyright 2025 Draftpad Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"github.com/spf13/cobra"

	"github.com/draftpad/draftpad/internal/bootstrap"
	"github.com/draftpad/draftpad/pkg/version"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "draftpad",
	Short: "draftpad is the prompt review workspace service",
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, cleanup, err := bootstrap.Bootstrap(configFile)
		if err != nil {
			return err
		}
		defer cleanup()
		return app.Run()
	},
}

func init() {
	serveCmd.Flags().StringVar(&configFile, "conf", "conf.d/config.toml", "conf file path, e.g. --conf conf.d/config.toml")
	rootCmd.AddCommand(serveCmd, version.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		panic(err)
	}
}

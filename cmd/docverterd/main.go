// Copyright 2026 Conductor OSS
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

// docverterd runs the document conversion HTTP service.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nicholasgasior/docverter-go/internal/service"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "docverterd",
		Short: "HTTP service converting documents to markdown, text, JSON and YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			return run(cfg)
		},
		SilenceUsage: true,
	}

	flags := cmd.Flags()
	flags.String("addr", ":25041", "listen address")
	flags.String("temp-dir", "temp_files", "directory for staged uploads")
	flags.String("output-dir", "output", "directory for conversion outputs")
	flags.String("config", "", "path to config file")

	v.SetDefault("addr", ":25041")
	v.SetDefault("temp_dir", "temp_files")
	v.SetDefault("output_dir", "output")

	_ = v.BindPFlag("addr", flags.Lookup("addr"))
	_ = v.BindPFlag("temp_dir", flags.Lookup("temp-dir"))
	_ = v.BindPFlag("output_dir", flags.Lookup("output-dir"))
	_ = v.BindPFlag("config", flags.Lookup("config"))

	v.SetEnvPrefix("DOCVERTERD")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return cmd
}

func loadConfig(v *viper.Viper) (service.Config, error) {
	if cfgFile := v.GetString("config"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return service.Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("docverterd")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return service.Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	return service.Config{
		Addr:      v.GetString("addr"),
		TempDir:   v.GetString("temp_dir"),
		OutputDir: v.GetString("output_dir"),
	}, nil
}

func run(cfg service.Config) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	srv, err := service.New(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.ListenAndServe(ctx); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}

package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vmunix/npimport/internal/config"
)

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}

	testCmd := &cobra.Command{
		Use:   "test [path]",
		Short: "Validate configuration file",
		Long:  "Validates npimport.toml syntax, field values, and environment variable substitution.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runConfigTest,
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write an example configuration file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultPath()
			if len(args) > 0 {
				path = args[0]
			}
			if err := config.WriteDefault(path, force); err != nil {
				if errors.Is(err, config.ErrExists) {
					return fmt.Errorf("%w, use --force to overwrite", err)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	configCmd.AddCommand(testCmd, initCmd)
	return configCmd
}

func runConfigTest(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	path := ""
	if len(args) > 0 {
		path = args[0]
	} else if cmd.Flags().Changed("config") {
		path, _ = cmd.Flags().GetString("config")
	} else {
		found, err := config.Discover()
		if err != nil {
			return err
		}
		path = found
	}

	fmt.Fprintf(out, "Validating %s...\n\n", path)

	cfg, err := config.Load(path)
	if err != nil {
		var configErr *config.ConfigError
		if errors.As(err, &configErr) {
			printConfigErrors(out, configErr)
			return errors.New("configuration invalid")
		}
		return fmt.Errorf("failed to load config: %w", err)
	}

	printConfigSummary(out, cfg)
	fmt.Fprintln(out, "\nConfiguration valid!")
	return nil
}

func printConfigErrors(w io.Writer, e *config.ConfigError) {
	if len(e.Missing) > 0 {
		fmt.Fprintln(w, "Missing environment variables:")
		for _, m := range e.Missing {
			fmt.Fprintf(w, "  - %s\n", m)
		}
		fmt.Fprintln(w)
	}

	if len(e.Errors) > 0 {
		fmt.Fprintln(w, "Validation errors:")
		for _, err := range e.Errors {
			fmt.Fprintf(w, "  - %s\n", err)
		}
		fmt.Fprintln(w)
	}
}

func printConfigSummary(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "Configuration Summary:")
	fmt.Fprintf(w, "  Log level:  %s\n", cfg.Log.Level)
	fmt.Fprintf(w, "  yt-dlp:     %s (timeout %s, %d retries)\n", cfg.Fetcher.YtdlpPath, cfg.Fetcher.Timeout, cfg.Fetcher.Retries)
	if len(cfg.Fetcher.ExtraArgs) > 0 {
		fmt.Fprintf(w, "  Extra args: %s\n", strings.Join(cfg.Fetcher.ExtraArgs, " "))
	}
	fmt.Fprintf(w, "  Streams:    %s (service %d)\n", cfg.Store.StreamType, cfg.Store.ServiceID)
	fmt.Fprintf(w, "  Backup:     %t\n", cfg.Archive.Backup)
	if cfg.Archive.DBMember != "" || cfg.Archive.SettingsMember != "" {
		fmt.Fprintf(w, "  Members:    db=%q settings=%q\n", cfg.Archive.DBMember, cfg.Archive.SettingsMember)
	}
	fmt.Fprintf(w, "  Playlist:   %s\n", cfg.Playlist.NameFormat)
}

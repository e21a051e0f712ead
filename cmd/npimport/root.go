package main

import (
	"github.com/spf13/cobra"
)

// rootFlags are shared by every subcommand.
type rootFlags struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "npimport <playlist_file>",
		Short: "Import a URL list into a NewPipe backup playlist",
		Long: `npimport - add tracks to a NewPipe playlist

Reads one URL per line from playlist_file, fetches each video's metadata
with yt-dlp and appends the tracks to a playlist inside a NewPipe backup
zip. The archive is rewritten only when at least one track was added.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "Config file (default: discovered)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	addImportFlags(cmd, flags)
	cmd.AddCommand(newPlaylistsCmd(flags))
	cmd.AddCommand(newConfigCmd())

	cmd.Version = version
	cmd.SetVersionTemplate("npimport {{.Version}}\n")
	return cmd
}

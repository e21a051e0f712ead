package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vmunix/npimport/internal/archive"
	"github.com/vmunix/npimport/internal/config"
	"github.com/vmunix/npimport/internal/playlist"
)

func newPlaylistsCmd(root *rootFlags) *cobra.Command {
	var (
		archivePath string
		jsonOutput  bool
	)

	cmd := &cobra.Command{
		Use:   "playlists",
		Short: "List the playlists in a NewPipe archive",
		Long:  "Lists every playlist in the archive with its track count. The archive is not modified.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := config.LoadOrDefault(root.configPath)
			if err != nil {
				return err
			}
			logger := newLogger(cmd.ErrOrStderr(), cfg.Log.Level, root.logLevel)

			path := archivePath
			if path == "" {
				path, err = archive.Discover(".")
				if errors.Is(err, archive.ErrArchiveNotFound) {
					fmt.Fprintf(cmd.ErrOrStderr(), "WARN. NewPipe archive not found: %v\n", err)
					return nil
				}
				if err != nil {
					return err
				}
			}

			ws, err := archive.Unzip(path, archive.Options{
				DBMember:       cfg.Archive.DBMember,
				SettingsMember: cfg.Archive.SettingsMember,
			})
			if err != nil {
				return err
			}
			defer func() {
				if err := ws.Close(); err != nil {
					logger.Warn("cleanup failed", "error", err)
				}
			}()

			store, err := playlist.Open(ws.DBPath)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			playlists, err := store.ListPlaylists()
			if err != nil {
				return err
			}
			if jsonOutput {
				if playlists == nil {
					playlists = []playlist.PlaylistSummary{}
				}
				return writeJSON(cmd.OutOrStdout(), playlists)
			}
			printPlaylists(cmd.OutOrStdout(), playlists)
			return nil
		},
	}

	cmd.Flags().StringVar(&archivePath, "newpipezip", "", "NewPipe backup zip (default: discovered in the current directory)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/vmunix/npimport/internal/archive"
	"github.com/vmunix/npimport/internal/config"
	"github.com/vmunix/npimport/internal/fetcher"
	"github.com/vmunix/npimport/internal/importer"
	"github.com/vmunix/npimport/internal/playlist"
)

type importFlags struct {
	archivePath    string
	playlistName   string
	backup         bool
	dbMember       string
	settingsMember string
	strictURLs     bool
	jsonOutput     bool
}

func addImportFlags(cmd *cobra.Command, root *rootFlags) {
	flags := &importFlags{}

	cmd.Flags().StringVar(&flags.archivePath, "newpipezip", "", "NewPipe backup zip (default: first *newpipe*zip* in the current directory)")
	cmd.Flags().StringVar(&flags.playlistName, "playlist_name", "", "Target playlist (default: today's date)")
	cmd.Flags().BoolVar(&flags.backup, "backup", false, "Keep the original archive as backup_<date>__<name>")
	cmd.Flags().StringVar(&flags.dbMember, "db-member", "", "Archive member holding the database")
	cmd.Flags().StringVar(&flags.settingsMember, "settings-member", "", "Archive member holding the settings")
	cmd.Flags().BoolVar(&flags.strictURLs, "strict-urls", false, "Reject lines that are not http(s) URLs before fetching")
	cmd.Flags().BoolVar(&flags.jsonOutput, "json", false, "Output results as JSON")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runImport(cmd, root, flags, args[0])
	}
}

// importReport is the --json output of an import run.
type importReport struct {
	RunID    string            `json:"run_id"`
	Archive  string            `json:"archive"`
	Playlist string            `json:"playlist"`
	Results  []importer.Result `json:"results"`
	Summary  importer.Summary  `json:"summary"`
	Status   string            `json:"status"`
}

func runImport(cmd *cobra.Command, root *rootFlags, flags *importFlags, listPath string) error {
	cfg, cfgPath, err := config.LoadOrDefault(root.configPath)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	logger := newLogger(cmd.ErrOrStderr(), cfg.Log.Level, root.logLevel).With("run_id", runID)
	if cfgPath != "" {
		logger.Debug("config loaded", "path", cfgPath)
	}

	// Human-readable status lines go to stdout unless stdout carries JSON.
	out := cmd.OutOrStdout()
	status := out
	if flags.jsonOutput {
		status = cmd.ErrOrStderr()
	}

	urls, err := importer.ReadURLFile(listPath)
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		fmt.Fprintf(status, "WARN. Nothing to add: %s lists no urls\n", listPath)
		return nil
	}

	archivePath := flags.archivePath
	if archivePath == "" {
		archivePath, err = archive.Discover(".")
		if errors.Is(err, archive.ErrArchiveNotFound) {
			fmt.Fprintf(status, "WARN. NewPipe archive not found: %v\n", err)
			return nil
		}
		if err != nil {
			return err
		}
	}

	name := flags.playlistName
	if name == "" {
		name = time.Now().Format(cfg.Playlist.NameFormat)
	}

	ws, err := archive.Unzip(archivePath, archive.Options{
		DBMember:       firstNonEmpty(flags.dbMember, cfg.Archive.DBMember),
		SettingsMember: firstNonEmpty(flags.settingsMember, cfg.Archive.SettingsMember),
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := ws.Close(); err != nil {
			logger.Warn("cleanup failed", "error", err)
		}
	}()
	logger.Debug("archive extracted", "archive", archivePath, "db", ws.DBPath, "settings", ws.SettingsPath)

	store, err := playlist.Open(ws.DBPath)
	if err != nil {
		return err
	}
	storeOpen := true
	closeStore := func() error {
		if !storeOpen {
			return nil
		}
		storeOpen = false
		return store.Close()
	}
	defer func() { _ = closeStore() }()

	warnSimilar(status, logger, store, name)

	ytdlp := fetcher.New(fetcher.Config{
		Path:      cfg.Fetcher.YtdlpPath,
		Timeout:   cfg.Fetcher.Timeout,
		Retries:   cfg.Fetcher.Retries,
		ExtraArgs: cfg.Fetcher.ExtraArgs,
	}, logger.With("component", "fetcher"))
	if err := ytdlp.CheckInstalled(cmd.Context()); err != nil {
		return err
	}

	opts := []importer.Option{
		importer.WithStreamType(cfg.Store.StreamType),
		importer.WithServiceID(cfg.Store.ServiceID),
	}
	if flags.strictURLs {
		opts = append(opts, importer.WithValidator(importer.HTTPValidator{}))
	}
	driver := importer.New(ytdlp, store, logger.With("component", "importer"), opts...)

	results, err := driver.Run(cmd.Context(), urls, name)
	if !flags.jsonOutput {
		printResults(out, results)
	}
	report := importReport{
		RunID:    runID,
		Archive:  archivePath,
		Playlist: name,
		Results:  results,
		Summary:  importer.Summarize(results),
	}
	if err != nil {
		return finish(out, flags.jsonOutput, report, "error", err)
	}

	if err := importer.CheckAdded(results); err != nil {
		fmt.Fprintf(status, "WARN. %s: no track could be added, %s left unchanged\n", capitalize(err.Error()), archivePath)
		return finish(out, flags.jsonOutput, report, "nothing_added", nil)
	}

	if err := closeStore(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	if err := ws.Repack(cfg.Archive.Backup || flags.backup); err != nil {
		return finish(out, flags.jsonOutput, report, "error", err)
	}
	logger.Info("archive updated", "archive", archivePath, "added", report.Summary.Added)

	fmt.Fprintln(status, "DONE.")
	return finish(out, flags.jsonOutput, report, "done", nil)
}

// finish writes the JSON report when requested and passes err through.
func finish(w io.Writer, jsonOutput bool, report importReport, status string, err error) error {
	if jsonOutput {
		report.Status = status
		if encErr := writeJSON(w, report); encErr != nil && err == nil {
			err = encErr
		}
	}
	return err
}

func warnSimilar(w io.Writer, logger *slog.Logger, store *playlist.Store, name string) {
	names, err := store.PlaylistNames()
	if err != nil {
		logger.Warn("list playlists failed", "error", err)
		return
	}
	for _, similar := range playlist.SimilarNames(name, names, playlist.DefaultSimilarity) {
		fmt.Fprintf(w, "WARN. Playlist %q looks like existing playlist %q\n", name, similar)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/vmunix/npimport/internal/importer"
	"github.com/vmunix/npimport/internal/playlist"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printResults prints one line per track followed by a summary.
func printResults(w io.Writer, results []importer.Result) {
	for _, r := range results {
		fmt.Fprintln(w, r.Message)
	}
	if len(results) == 0 {
		return
	}
	s := importer.Summarize(results)
	fmt.Fprintf(w, "\n%d of %d tracks added", s.Added, s.Total)
	if s.Failed > 0 {
		var parts []string
		for _, kind := range []importer.Kind{
			importer.KindDuplicate,
			importer.KindUnavailable,
			importer.KindNotFound,
			importer.KindNetwork,
			importer.KindInvalid,
			importer.KindFailed,
		} {
			if n := s.ByKind[kind]; n > 0 {
				parts = append(parts, fmt.Sprintf("%d %s", n, strings.ReplaceAll(string(kind), "_", " ")))
			}
		}
		fmt.Fprintf(w, " (%s)", strings.Join(parts, ", "))
	}
	fmt.Fprintln(w)
}

func printPlaylists(w io.Writer, playlists []playlist.PlaylistSummary) {
	if len(playlists) == 0 {
		fmt.Fprintln(w, "No playlists")
		return
	}
	fmt.Fprintf(w, "%-6s %-7s %s\n", "ID", "TRACKS", "NAME")
	fmt.Fprintln(w, strings.Repeat("-", 40))
	for _, p := range playlists {
		fmt.Fprintf(w, "%-6d %-7d %s\n", p.ID, p.Streams, p.Name)
	}
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

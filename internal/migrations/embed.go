// Package migrations provides the embedded NewPipe schema used to verify
// extracted databases and to build test fixtures.
package migrations

import (
	_ "embed"
)

//go:embed sql/newpipe.sql
var NewPipeSQL string

// RequiredTables lists the tables an archive database must contain.
var RequiredTables = []string{"playlists", "streams", "playlist_stream_join"}

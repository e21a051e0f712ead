package playlist

import (
	"fmt"
)

func getPlaylistByName(q querier, name string) (*Playlist, error) {
	p := &Playlist{}
	err := q.QueryRow(
		"SELECT uid, name FROM playlists WHERE name = ? ORDER BY uid LIMIT 1", name,
	).Scan(&p.ID, &p.Name)
	if err != nil {
		return nil, fmt.Errorf("get playlist %q: %w", name, mapSQLiteError(err))
	}
	return p, nil
}

// GetPlaylistByName finds a playlist by exact name.
// Returns ErrNotFound if no playlist has that name.
func (s *Store) GetPlaylistByName(name string) (*Playlist, error) {
	return getPlaylistByName(s.db, name)
}

func getOrCreatePlaylist(q querier, name string) (int64, error) {
	p, err := getPlaylistByName(q, name)
	if err == nil {
		return p.ID, nil
	}
	if !isNotFound(err) {
		return 0, err
	}

	result, err := q.Exec("INSERT INTO playlists (name) VALUES (?)", name)
	if err != nil {
		return 0, fmt.Errorf("insert playlist %q: %w", name, mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id: %w", err)
	}
	return id, nil
}

// GetOrCreatePlaylist returns the id of the playlist named name, creating it
// if it does not exist. When several rows share the name the lowest uid wins.
// The lookup and insert are separate statements; callers must not race.
func (s *Store) GetOrCreatePlaylist(name string) (int64, error) {
	return getOrCreatePlaylist(s.db, name)
}

// ListPlaylists returns all playlists ordered by uid with their stream counts.
func (s *Store) ListPlaylists() ([]PlaylistSummary, error) {
	rows, err := s.db.Query(`
		SELECT p.uid, COALESCE(p.name, ''), COUNT(j.stream_id)
		FROM playlists p
		LEFT JOIN playlist_stream_join j ON j.playlist_id = p.uid
		GROUP BY p.uid
		ORDER BY p.uid`)
	if err != nil {
		return nil, fmt.Errorf("list playlists: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []PlaylistSummary
	for rows.Next() {
		var p PlaylistSummary
		if err := rows.Scan(&p.ID, &p.Name, &p.Streams); err != nil {
			return nil, fmt.Errorf("scan playlist: %w", err)
		}
		results = append(results, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate playlists: %w", err)
	}
	return results, nil
}

// PlaylistNames returns the names of all playlists.
func (s *Store) PlaylistNames() ([]string, error) {
	playlists, err := s.ListPlaylists()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(playlists))
	for _, p := range playlists {
		names = append(names, p.Name)
	}
	return names, nil
}

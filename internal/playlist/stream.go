package playlist

import (
	"database/sql"
	"fmt"
)

// lastIndexInPlaylist returns the highest join_index of the playlist,
// or 0 if it has no members.
func lastIndexInPlaylist(q querier, playlistID int64) (int, error) {
	var last sql.NullInt64
	err := q.QueryRow(
		"SELECT MAX(join_index) FROM playlist_stream_join WHERE playlist_id = ?", playlistID,
	).Scan(&last)
	if err != nil {
		return 0, fmt.Errorf("last index of playlist %d: %w", playlistID, mapSQLiteError(err))
	}
	return int(last.Int64), nil
}

func addStream(q querier, info *StreamInfo, playlistID int64, opts []StreamOption) (*Entry, error) {
	o := streamOptions{streamType: DefaultStreamType, serviceID: DefaultServiceID}
	for _, opt := range opts {
		opt(&o)
	}

	var exists int
	err := q.QueryRow("SELECT COUNT(*) FROM playlists WHERE uid = ?", playlistID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("check playlist %d: %w", playlistID, err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("playlist %d: %w", playlistID, ErrNotFound)
	}

	result, err := q.Exec(`
		INSERT INTO streams (stream_type, service_id, url, title, duration, uploader, uploader_url, thumbnail_url, view_count, upload_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.streamType, o.serviceID, info.URL, info.Title, info.Duration, info.Uploader,
		info.UploaderURL, info.ThumbnailURL, info.ViewCount, info.UploadDate,
	)
	if err != nil {
		return nil, fmt.Errorf("insert stream %s: %w", info.URL, mapSQLiteError(err))
	}
	streamID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get last insert id: %w", err)
	}

	last, err := lastIndexInPlaylist(q, playlistID)
	if err != nil {
		return nil, err
	}

	e := &Entry{
		PlaylistID: playlistID,
		StreamID:   streamID,
		JoinIndex:  last + 1,
		StreamInfo: *info,
	}
	_, err = q.Exec(
		"INSERT INTO playlist_stream_join (playlist_id, stream_id, join_index) VALUES (?, ?, ?)",
		e.PlaylistID, e.StreamID, e.JoinIndex,
	)
	if err != nil {
		return nil, fmt.Errorf("insert playlist entry %d/%d: %w", playlistID, e.JoinIndex, mapSQLiteError(err))
	}
	return e, nil
}

// AddStream inserts info as a new stream and appends it to the playlist.
// Both rows are committed together. Returns ErrNotFound if the playlist
// does not exist. If the (service_id, url) pair is already
// stored the returned error wraps ErrStreamExists and the playlist is unchanged.
func (s *Store) AddStream(info *StreamInfo, playlistID int64, opts ...StreamOption) (*Entry, error) {
	tx, err := s.Begin()
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	e, err := tx.AddStream(info, playlistID, opts...)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit stream %s: %w", info.URL, mapSQLiteError(err))
	}
	return e, nil
}

// AddStream inserts a stream and its playlist entry within a transaction.
func (t *Tx) AddStream(info *StreamInfo, playlistID int64, opts ...StreamOption) (*Entry, error) {
	return addStream(t.tx, info, playlistID, opts)
}

func getStream(q querier, serviceID int, url string) (*Stream, error) {
	st := &Stream{}
	var uploaderURL, thumbnailURL, uploadDate sql.NullString
	var viewCount sql.NullInt64
	err := q.QueryRow(`
		SELECT uid, stream_type, service_id, url, title, duration, uploader, uploader_url, thumbnail_url, view_count, upload_date
		FROM streams WHERE service_id = ? AND url = ?`, serviceID, url,
	).Scan(&st.ID, &st.StreamType, &st.ServiceID, &st.URL, &st.Title, &st.Duration, &st.Uploader,
		&uploaderURL, &thumbnailURL, &viewCount, &uploadDate)
	if err != nil {
		return nil, fmt.Errorf("get stream %s: %w", url, mapSQLiteError(err))
	}
	st.UploaderURL = uploaderURL.String
	st.ThumbnailURL = thumbnailURL.String
	st.ViewCount = viewCount.Int64
	st.UploadDate = uploadDate.String
	return st, nil
}

// GetStream finds a stream by service and url.
// Returns ErrNotFound if it is not stored.
func (s *Store) GetStream(serviceID int, url string) (*Stream, error) {
	return getStream(s.db, serviceID, url)
}

// ListEntries returns the members of a playlist ordered by join_index.
func (s *Store) ListEntries(playlistID int64) ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT j.playlist_id, j.stream_id, j.join_index, s.url, s.title, s.duration, s.uploader,
			COALESCE(s.uploader_url, ''), COALESCE(s.thumbnail_url, ''), COALESCE(s.view_count, 0),
			COALESCE(s.upload_date, '')
		FROM playlist_stream_join j
		JOIN streams s ON s.uid = j.stream_id
		WHERE j.playlist_id = ?
		ORDER BY j.join_index`, playlistID)
	if err != nil {
		return nil, fmt.Errorf("list entries of playlist %d: %w", playlistID, err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.PlaylistID, &e.StreamID, &e.JoinIndex, &e.URL, &e.Title, &e.Duration,
			&e.Uploader, &e.UploaderURL, &e.ThumbnailURL, &e.ViewCount, &e.UploadDate); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

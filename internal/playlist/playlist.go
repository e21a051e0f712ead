// Package playlist manages NewPipe playlists, streams and their ordering.
package playlist

// Defaults applied to streams added by this tool.
const (
	DefaultStreamType = "VIDEO_STREAM"
	DefaultServiceID  = 0
)

// Playlist is a named, ordered collection of streams.
type Playlist struct {
	ID   int64
	Name string
}

// PlaylistSummary is a playlist with its member count.
type PlaylistSummary struct {
	Playlist
	Streams int
}

// StreamInfo is the metadata of one video as returned by a fetcher.
type StreamInfo struct {
	URL          string
	Title        string
	Duration     int64 // seconds
	Uploader     string
	UploaderURL  string
	ThumbnailURL string
	ViewCount    int64
	UploadDate   string // YYYYMMDD
}

// Stream is a row of the streams table.
type Stream struct {
	ID         int64
	StreamType string
	ServiceID  int
	StreamInfo
}

// Entry is one position in a playlist.
type Entry struct {
	PlaylistID int64
	StreamID   int64
	JoinIndex  int
	StreamInfo
}

type streamOptions struct {
	streamType string
	serviceID  int
}

// StreamOption overrides the defaults of AddStream.
type StreamOption func(*streamOptions)

// WithStreamType sets the stream_type column.
func WithStreamType(t string) StreamOption {
	return func(o *streamOptions) {
		if t != "" {
			o.streamType = t
		}
	}
}

// WithServiceID sets the service_id column.
func WithServiceID(id int) StreamOption {
	return func(o *streamOptions) { o.serviceID = id }
}

package archive

import "errors"

var (
	// ErrArchiveNotFound indicates no NewPipe archive was found.
	ErrArchiveNotFound = errors.New("newpipe archive not found")

	// ErrMemberNotFound indicates the archive lacks a database or settings member.
	ErrMemberNotFound = errors.New("archive member not found")

	// ErrAmbiguousMember indicates several members qualify as the database or
	// settings file and none was named explicitly.
	ErrAmbiguousMember = errors.New("ambiguous archive member")

	// ErrMemberExists indicates a file already occupies a member's
	// extraction target next to the archive.
	ErrMemberExists = errors.New("extraction target already exists")

	// ErrUnsafePath indicates a member name escaping the extraction directory.
	ErrUnsafePath = errors.New("unsafe member path")
)

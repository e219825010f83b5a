package pipeline

import "errors"

var (
	// ErrAlreadyExists is returned when a compressed or decompressed
	// snapshot already sits at the destination. Never overwritten.
	ErrAlreadyExists = errors.New("snapshot file already exists")

	// ErrAcquisitionFailed is returned when every mirror failed and no
	// compressed snapshot was obtained.
	ErrAcquisitionFailed = errors.New("all mirrors failed")

	// ErrDecompressionFailed is returned on corrupt or truncated archives.
	ErrDecompressionFailed = errors.New("decompression failed")
)

package config

import "time"

// Snapshot file names. The mirrors serve the gzip archive; decompression
// produces the queryable SQLite file next to it.
const (
	SnapshotName = "SRAmetadb.sqlite"
	ArchiveName  = "SRAmetadb.sqlite.gz"
)

// Settings collects everything the acquisition pipeline needs to know
// about the outside world. Mirrors are tried in order, first to last.
type Settings struct {
	Mirrors        []string
	ConnectTimeout time.Duration // per-attempt dial + response header budget
	UserAgent      string
}

// CurrentDefaults defines the configuration for THIS version of the binary.
var CurrentDefaults = Settings{
	Mirrors: []string{
		"https://s3.amazonaws.com/starbuck1/sradb/SRAmetadb.sqlite.gz",
		"https://gbnci-abcc.ncifcrf.gov/backup/SRAmetadb.sqlite.gz",
	},
	ConnectTimeout: 30 * time.Second,
	UserAgent:      "srameta/0.1",
}

package pipeline

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"

	"github.com/GonzoDMX/srameta/internal/config"
	"github.com/GonzoDMX/srameta/internal/store"
)

// ProgressFunc receives the running byte count of a download. Total is the
// Content-Length of the response, or -1 when the mirror did not send one.
type ProgressFunc func(written, total int64)

// Acquirer downloads the compressed snapshot from one of the configured
// mirrors, decompresses it, and reads back its provenance. It is invoked at
// most once per acquisition; re-running against existing files fails fast.
type Acquirer struct {
	Settings   config.Settings
	Logger     *log.Logger
	OnProgress ProgressFunc

	client *http.Client
}

// NewAcquirer builds an Acquirer with a per-attempt connect/header timeout.
// The body read itself is not bounded, a multi-GB snapshot on a slow link
// can legitimately take hours.
func NewAcquirer(settings config.Settings, logger *log.Logger) *Acquirer {
	return &Acquirer{
		Settings: settings,
		Logger:   logger,
		client: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: settings.ConnectTimeout,
				}).DialContext,
				ResponseHeaderTimeout: settings.ConnectTimeout,
			},
		},
	}
}

// Acquire obtains the snapshot into destDir and returns its provenance.
//
//  1. Fails with ErrAlreadyExists if either the archive or the snapshot is
//     already present; no network I/O happens in that case.
//  2. Tries each mirror in order; the first success wins.
//  3. Decompresses the archive to the snapshot filename.
//  4. Opens the result and reads metaInfo.
func (a *Acquirer) Acquire(ctx context.Context, destDir string) (store.Provenance, error) {
	archive := filepath.Join(destDir, config.ArchiveName)
	snapshot := filepath.Join(destDir, config.SnapshotName)

	for _, p := range []string{archive, snapshot} {
		if _, err := os.Stat(p); err == nil {
			return nil, fmt.Errorf("%w: %s", ErrAlreadyExists, p)
		}
	}

	if err := a.downloadAny(ctx, archive); err != nil {
		return nil, err
	}

	// A mirror reported success, but never decompress blind.
	if _, err := os.Stat(archive); err != nil {
		return nil, fmt.Errorf("%w: archive missing after download", ErrAcquisitionFailed)
	}

	a.Logger.Printf("Extracting %s ...", archive)
	if err := decompress(archive, snapshot); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecompressionFailed, err)
	}

	s, err := store.Open(snapshot)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrCorruptSnapshot, err)
	}
	defer s.Close()

	return s.Provenance(ctx)
}

// downloadAny walks the mirror list in priority order. A transport failure
// on one mirror is logged and the next is tried; both failing is fatal.
func (a *Acquirer) downloadAny(ctx context.Context, path string) error {
	var lastErr error
	for i, url := range a.Settings.Mirrors {
		if i > 0 {
			a.Logger.Printf("Could not use %s: %v. Trying next mirror...", a.Settings.Mirrors[i-1], lastErr)
		}
		if err := a.download(ctx, url, path); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return fmt.Errorf("%w: last error: %v", ErrAcquisitionFailed, lastErr)
}

// download streams one URL to path, reporting progress as bytes arrive.
func (a *Acquirer) download(ctx context.Context, url, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", a.Settings.UserAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: unexpected status %s", url, resp.Status)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	a.Logger.Printf("Downloading %s", path)

	var dst io.Writer = f
	if a.OnProgress != nil {
		dst = &progressWriter{w: f, total: resp.ContentLength, report: a.OnProgress}
	}

	if _, err := io.Copy(dst, resp.Body); err != nil {
		return fmt.Errorf("fetch %s: %w", url, err)
	}
	return f.Sync()
}

// progressWriter counts bytes through to the underlying writer.
type progressWriter struct {
	w       io.Writer
	written int64
	total   int64
	report  ProgressFunc
}

func (p *progressWriter) Write(b []byte) (int, error) {
	n, err := p.w.Write(b)
	p.written += int64(n)
	p.report(p.written, p.total)
	return n, err
}

// decompress gunzips src into dst. Truncated downloads surface here as
// gzip errors, there is no separate checksum pass.
func decompress(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	gz, err := gzip.NewReader(in)
	if err != nil {
		return err
	}
	defer gz.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, gz); err != nil {
		// Don't leave a half-written snapshot that would trip the
		// AlreadyExists guard on the next attempt.
		out.Close()
		os.Remove(dst)
		return err
	}
	return nil
}

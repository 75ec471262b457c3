// Package download streams a remote model file to disk.
package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultURL  = "http://gpt4all.io/models/ggml-mpt-7b-chat.bin"
	DefaultPath = "./models/ggml-mpt-7b-chat.bin"

	ChunkSize = 8192
)

type Downloader struct {
	client           *http.Client
	logger           *zerolog.Logger
	progressInterval time.Duration
}

func NewDownloader(client *http.Client, logger *zerolog.Logger) *Downloader {
	if client == nil {
		// no overall timeout, model files take minutes
		client = &http.Client{}
	}
	return &Downloader{
		client:           client,
		logger:           logger,
		progressInterval: 2 * time.Second,
	}
}

// Download fetches url into dest and returns the number of bytes written.
// The body is written to a temporary file next to dest which is renamed
// over dest only after the copy completes.
func (d *Downloader) Download(ctx context.Context, url, dest string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("download: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("download: HTTP %s", resp.Status)
	}

	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("download: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(dest)+".*.part")
	if err != nil {
		return 0, fmt.Errorf("download: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	d.logger.Info().
		Str("url", url).
		Str("dest", dest).
		Int64("total_bytes", resp.ContentLength).
		Msg("Download started")

	progress := &progressWriter{
		total:    resp.ContentLength,
		interval: d.progressInterval,
		last:     time.Now(),
		logger:   d.logger,
	}

	written, err := copyChunks(ctx, io.MultiWriter(tmp, progress), resp.Body)
	if err != nil {
		return written, fmt.Errorf("download: %w", err)
	}
	if resp.ContentLength >= 0 && written != resp.ContentLength {
		return written, fmt.Errorf("download: short body, got %d of %d bytes", written, resp.ContentLength)
	}

	if err := tmp.Close(); err != nil {
		return written, fmt.Errorf("download: %w", err)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		return written, fmt.Errorf("download: %w", err)
	}
	committed = true

	d.logger.Info().Str("dest", dest).Int64("bytes", written).Msg("Download complete")
	return written, nil
}

func copyChunks(ctx context.Context, dst io.Writer, src io.Reader) (int64, error) {
	buf := make([]byte, ChunkSize)
	var written int64
	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		n, rerr := src.Read(buf)
		if n > 0 {
			w, werr := dst.Write(buf[:n])
			written += int64(w)
			if werr != nil {
				return written, werr
			}
		}
		if rerr != nil {
			if errors.Is(rerr, io.EOF) {
				return written, nil
			}
			return written, rerr
		}
	}
}

type progressWriter struct {
	total    int64
	done     int64
	interval time.Duration
	last     time.Time
	logger   *zerolog.Logger
}

func (p *progressWriter) Write(b []byte) (int, error) {
	p.done += int64(len(b))
	if time.Since(p.last) >= p.interval {
		p.last = time.Now()
		event := p.logger.Info().Int64("bytes", p.done)
		if p.total > 0 {
			event = event.Float64("percent", float64(p.done)*100/float64(p.total))
		}
		event.Msg("Download progress")
	}
	return len(b), nil
}

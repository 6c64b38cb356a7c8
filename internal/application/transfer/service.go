package transfer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"time"

	s3infra "github.com/adgate/internal/infrastructure/s3"
	"github.com/gotd/td/telegram/downloader"
	"github.com/gotd/td/telegram/uploader"
	"github.com/gotd/td/tg"
)

// partSize is the Telegram transfer chunk size.
const partSize = 512 * 1024

// ProgressFunc receives transfer progress as (done, total) byte counts.
type ProgressFunc func(done, total int64)

// Service moves media between Telegram and local disk or the S3 staging
// area. Downloads stream on a single connection to keep RAM flat; uploads
// use parallel connections tuned to the file size. Transport, chunking and
// retries live inside the gotd primitives.
type Service struct {
	api   *tg.Client
	tuner Tuner
	stage *s3infra.Store // nil disables S3 staging
}

func NewService(api *tg.Client, tuner Tuner, stage *s3infra.Store) *Service {
	return &Service{api: api, tuner: tuner, stage: stage}
}

// DownloadToFile streams media into path on a single connection. When
// streaming fails it retries once on the parallel path with a tuned
// connection count.
func (s *Service) DownloadToFile(ctx context.Context, loc tg.InputFileLocationClass, size int64, path string, progress ProgressFunc) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	slog.Info("streaming download starting", "path", path, "size", size)
	cw := &countingWriter{w: f, total: size, progress: progress}
	_, err = downloader.NewDownloader().WithPartSize(partSize).
		Download(s.api, loc).
		Stream(ctx, cw)
	if err == nil {
		slog.Info("streaming download complete", "path", path)
		return nil
	}

	slog.Warn("streaming download failed, retrying parallel", "path", path, "err", err)
	if err := f.Truncate(0); err != nil {
		return err
	}
	threads := s.tuner.DownloadThreads(size)
	_, err = downloader.NewDownloader().WithPartSize(partSize).
		Download(s.api, loc).
		WithThreads(threads).
		Parallel(ctx, f)
	if err != nil {
		return err
	}
	slog.Info("parallel download complete", "path", path, "threads", threads)
	return nil
}

// CanStage reports whether the S3 staging area is configured.
func (s *Service) CanStage() bool {
	return s.stage != nil
}

// StageDownload streams media straight into the S3 staging area, never
// touching local disk, and returns a presigned download link valid for ttl.
// On presign failure the staged object is removed again.
func (s *Service) StageDownload(ctx context.Context, loc tg.InputFileLocationClass, key, contentType string, ttl time.Duration) (string, error) {
	if s.stage == nil {
		return "", errors.New("media staging is not configured")
	}

	pr, pw := io.Pipe()
	go func() {
		_, err := downloader.NewDownloader().WithPartSize(partSize).
			Download(s.api, loc).
			Stream(ctx, pw)
		pw.CloseWithError(err)
	}()

	if _, err := s.stage.Stage(ctx, key, pr, contentType); err != nil {
		return "", err
	}
	url, err := s.stage.PresignedURL(ctx, key, ttl)
	if err != nil {
		if derr := s.stage.Delete(ctx, key); derr != nil {
			slog.Warn("staged object cleanup failed", "key", key, "err", derr)
		}
		return "", err
	}
	slog.Info("download staged", "key", key, "ttl", ttl)
	return url, nil
}

// Upload sends a local file to Telegram with a size-tuned number of
// parallel connections and returns the input file for a media send.
func (s *Service) Upload(ctx context.Context, path string, progress ProgressFunc) (tg.InputFileClass, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	threads := s.tuner.UploadThreads(info.Size())
	slog.Info("parallel upload starting", "path", path, "size", info.Size(), "threads", threads)

	up := uploader.NewUploader(s.api).WithPartSize(partSize).WithThreads(threads)
	if progress != nil {
		up = up.WithProgress(progressAdapter{fn: progress})
	}
	file, err := up.FromPath(ctx, path)
	if err != nil {
		return nil, err
	}
	slog.Info("parallel upload complete", "path", path)
	return file, nil
}

type countingWriter struct {
	w        io.Writer
	done     int64
	total    int64
	progress ProgressFunc
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.done += int64(n)
	if c.progress != nil && c.total > 0 {
		c.progress(c.done, c.total)
	}
	return n, err
}

type progressAdapter struct {
	fn ProgressFunc
}

func (p progressAdapter) Chunk(ctx context.Context, state uploader.ProgressState) error {
	p.fn(state.Uploaded, state.Total)
	return nil
}

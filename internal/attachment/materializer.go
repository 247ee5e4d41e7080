// Package attachment downloads files referenced by a card body into local
// storage and points embedded images at the stored copies.
package attachment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/starford/guru-sync/internal/checksum"
	"github.com/starford/guru-sync/internal/content"
	"github.com/starford/guru-sync/internal/models"
	"github.com/starford/guru-sync/internal/storage"
)

// DefaultPublicPrefix is the URL prefix stored files are served under.
const DefaultPublicPrefix = "/guru-attachments/"

// gatedFileView marks file URLs that are only reachable through the
// authenticated API, although they look public.
const gatedFileView = "content.api.getguru.com/files/view/"

var errEmptyDownload = errors.New("attachment: downloader returned no file")

// Downloader fetches one URL. Any returned error means the file is
// unavailable; implementations must not panic.
type Downloader interface {
	Download(ctx context.Context, rawURL string, header http.Header) (*models.RemoteFile, error)
}

// Result is the outcome of processing one card.
type Result struct {
	ProcessedContent string
	AttachedFiles    []models.Attachment
}

// Materializer downloads card attachments into a storage provider.
type Materializer struct {
	downloader   Downloader
	store        storage.Provider
	logger       *slog.Logger
	publicPrefix string
}

// Option configures a Materializer.
type Option func(*Materializer)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Materializer) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithPublicPrefix overrides the path prefix written into card bodies.
func WithPublicPrefix(prefix string) Option {
	return func(m *Materializer) {
		m.publicPrefix = prefix
	}
}

// New creates a Materializer that stores files in store.
func New(d Downloader, store storage.Provider, opts ...Option) *Materializer {
	m := &Materializer{
		downloader:   d,
		store:        store,
		logger:       slog.Default(),
		publicPrefix: DefaultPublicPrefix,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Process downloads the images and linked files of card. Image URLs that
// were stored are replaced in the body by their local path; other files
// are recorded but left as they are in the body. Each URL is stored and
// recorded at most once per card. Per-URL failures are logged and skipped.
func (m *Materializer) Process(ctx context.Context, card models.Card, header http.Header) Result {
	if !card.HasBody() {
		return Result{ProcessedContent: "", AttachedFiles: []models.Attachment{}}
	}

	log := m.logger.With(slog.String("card_id", card.ID))
	body := card.Body()
	files := []models.Attachment{}
	stored := make(map[string]models.Attachment)
	urls := content.ExtractFileURLs(body)

	for _, src := range urls.ImageURLs {
		if ctx.Err() != nil {
			break
		}
		if !isHTTP(src) {
			continue
		}
		if _, ok := stored[src]; ok {
			// Every occurrence was replaced when it was first stored.
			continue
		}

		var (
			f   *models.RemoteFile
			err error
		)
		if strings.Contains(src, gatedFileView) {
			f, err = m.fetch(ctx, src, http.Header{"Accept": []string{"*/*"}})
			if err != nil || content.IsHTML(f.ContentType) {
				log.Info("gated file not public, keeping remote url", slog.String("url", src))
				continue
			}
		} else {
			f, err = m.fetch(ctx, src, header)
			if err != nil {
				log.Warn("image download failed", slog.String("url", src), slog.String("error", err.Error()))
				continue
			}
		}

		att, err := m.save(src, f, "attachment")
		if err != nil {
			log.Warn("image save failed", slog.String("url", src), slog.String("error", err.Error()))
			continue
		}
		stored[src] = att
		files = append(files, att)
		body = strings.ReplaceAll(body, src, m.publicPrefix+att.Filename)
	}

	for _, u := range urls.OtherFileURLs {
		if ctx.Err() != nil {
			break
		}
		if _, ok := stored[u]; ok {
			continue
		}
		f, err := m.fetch(ctx, u, header)
		if err != nil {
			log.Warn("file download failed", slog.String("url", u), slog.String("error", err.Error()))
			continue
		}
		att, err := m.save(u, f, "file")
		if err != nil {
			log.Warn("file save failed", slog.String("url", u), slog.String("error", err.Error()))
			continue
		}
		stored[u] = att
		files = append(files, att)
	}

	if len(files) > 0 {
		log.Info("attachments stored", slog.Int("count", len(files)))
	}
	return Result{ProcessedContent: body, AttachedFiles: files}
}

func (m *Materializer) fetch(ctx context.Context, src string, header http.Header) (*models.RemoteFile, error) {
	f, err := m.downloader.Download(ctx, src, header)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, errEmptyDownload
	}
	return f, nil
}

// save writes f under its collision-safe name and describes it.
func (m *Materializer) save(src string, f *models.RemoteFile, fallback string) (models.Attachment, error) {
	name := Filename(src, f.ContentType, fallback)
	if err := m.store.Write(name, f.Data); err != nil {
		return models.Attachment{}, fmt.Errorf("attachment: store %s: %w", name, err)
	}
	full, err := m.store.Abs(name)
	if err != nil {
		return models.Attachment{}, fmt.Errorf("attachment: resolve %s: %w", name, err)
	}

	m.logger.Debug("attachment stored",
		slog.String("filename", name),
		slog.Int("bytes", len(f.Data)),
		slog.String("content_type", f.ContentType),
		slog.Bool("image_signature", content.IsImageBySignature(f.Data)),
	)
	return models.Attachment{
		OriginalURL: src,
		Filename:    name,
		Filepath:    full,
		Size:        len(f.Data),
		MimeType:    f.ContentType,
	}, nil
}

// Filename derives the local file name of src: the decoded base name of
// the URL path, an 8-hex hash of the full URL, and the path extension or
// one derived from contentType. fallback is used when the path has no base
// name.
func Filename(src, contentType, fallback string) string {
	base := ""
	if u, err := url.Parse(src); err == nil {
		base = path.Base(u.EscapedPath())
		if dec, err := url.PathUnescape(base); err == nil {
			base = dec
		}
	}
	if base == "." || base == "/" {
		base = ""
	}
	base = strings.NewReplacer("/", "_", `\`, "_").Replace(base)

	ext := path.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if ext == "" {
		ext = content.ExtensionForContentType(contentType)
	}
	if stem == "" {
		stem = fallback
	}
	return stem + "_" + checksum.Short(src) + ext
}

func isHTTP(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

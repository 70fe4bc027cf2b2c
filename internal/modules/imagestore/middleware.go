package imagestore

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"

	"animehub/internal/pkg/response"
)

const (
	// URLPrefix is where the retrieval routes are mounted. Locators handed
	// to downstream handlers are built against it.
	URLPrefix = "/db-image"

	DefaultMaxFileSize = 15 * 1024 * 1024
	AvatarMaxFileSize  = 5 * 1024 * 1024
)

var allowedImageTypes = regexp.MustCompile(`(?i)^image/(jpeg|png|webp|gif)$`)

// Context keys populated by the ingestion middleware.
const (
	ctxKeyRecord    = "imagestore_record"
	ctxKeyURL       = "imagestore_url"
	ctxKeyURLByName = "imagestore_url_by_name"
	ctxKeyRecords   = "imagestore_records"
	ctxKeyURLs      = "imagestore_urls"
)

type PersistOptions struct {
	// MaxFileSize in bytes; DefaultMaxFileSize when zero.
	MaxFileSize int64
}

// Ingestor bridges multipart uploads and the image repository. Handlers
// behind it receive ready-to-persist locators, never raw buffers.
type Ingestor struct {
	images Repository
}

func NewIngestor(images Repository) *Ingestor {
	return &Ingestor{images: images}
}

// Persist returns middleware that stores every in-memory file part whose
// field name is in fields, then exposes the resulting locators on the
// context. A request without matching file parts passes through untouched.
func (i *Ingestor) Persist(fields ...string) gin.HandlerFunc {
	return i.PersistWith(PersistOptions{}, fields...)
}

func (i *Ingestor) PersistWith(opts PersistOptions, fields ...string) gin.HandlerFunc {
	maxSize := opts.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}

	watched := make(map[string]bool, len(fields))
	for _, f := range fields {
		watched[f] = true
	}

	return func(c *gin.Context) {
		// A store that was never wired (missing DATABASE_URL at startup)
		// must fail every upload the same way instead of attempting a
		// doomed write per request.
		if i == nil || i.images == nil {
			log.Printf("imagestore_persist error=%q path=%s", ErrStoreNotReady, c.Request.URL.Path)
			abortError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "image upload failed")
			return
		}

		form, err := c.MultipartForm()
		if err != nil {
			if errors.Is(err, http.ErrNotMultipart) {
				c.Next()
				return
			}
			abortError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid multipart form")
			return
		}

		files := collectFiles(form, watched)

		saved := make([]*StoredImage, 0, len(files))
		for _, fh := range files {
			rec, err := i.saveOne(c, fh, maxSize)
			if err != nil {
				switch {
				case errors.Is(err, ErrEmptyPayload):
					abortError(c, http.StatusBadRequest, "VALIDATION_ERROR", "uploaded file is empty")
				case errors.Is(err, ErrFileTooLarge):
					abortError(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", ErrFileTooLarge.Error())
				case errors.Is(err, ErrInvalidMimeType):
					abortError(c, http.StatusBadRequest, "VALIDATION_ERROR", ErrInvalidMimeType.Error())
				default:
					// No partial application: one failed file fails the
					// whole request. Detail stays in the server log.
					log.Printf("imagestore_persist error=%q file=%q path=%s", err, fh.Filename, c.Request.URL.Path)
					abortError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "image upload failed")
				}
				return
			}
			saved = append(saved, rec)
		}

		switch len(saved) {
		case 0:
			// nothing to persist; handlers decide whether that is an error
		case 1:
			c.Set(ctxKeyRecord, saved[0])
			c.Set(ctxKeyURL, IDLocator(saved[0].ID))
			c.Set(ctxKeyURLByName, nameLocator(saved[0].Filename))
		default:
			urls := make([]string, len(saved))
			for n, rec := range saved {
				urls[n] = IDLocator(rec.ID)
			}
			c.Set(ctxKeyRecords, saved)
			c.Set(ctxKeyURLs, urls)
		}

		c.Next()
	}
}

func (i *Ingestor) saveOne(c *gin.Context, fh *multipart.FileHeader, maxSize int64) (*StoredImage, error) {
	if fh.Size == 0 {
		return nil, ErrEmptyPayload
	}
	if fh.Size > maxSize {
		return nil, ErrFileTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open multipart file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read multipart file: %w", err)
	}

	mimetype := strings.TrimSpace(strings.Split(fh.Header.Get("Content-Type"), ";")[0])
	if mimetype == "" || mimetype == "application/octet-stream" {
		sniffLen := len(data)
		if sniffLen > 512 {
			sniffLen = 512
		}
		mimetype = strings.Split(http.DetectContentType(data[:sniffLen]), ";")[0]
	}
	if !allowedImageTypes.MatchString(mimetype) {
		return nil, ErrInvalidMimeType
	}

	return i.images.Put(c.Request.Context(), data, fh.Filename, mimetype)
}

// collectFiles flattens the multipart form into one list of file parts,
// keeping only the watched field names. Single files, per-field groups and
// repeated parts under the same name all come out as the same flat shape.
func collectFiles(form *multipart.Form, watched map[string]bool) []*multipart.FileHeader {
	if form == nil {
		return nil
	}
	var out []*multipart.FileHeader
	for field, headers := range form.File {
		if !watched[field] {
			continue
		}
		out = append(out, headers...)
	}
	return out
}

// IDLocator builds the canonical locator for a stored image.
func IDLocator(id int64) string {
	return fmt.Sprintf("%s/id/%d", URLPrefix, id)
}

func nameLocator(filename string) string {
	return URLPrefix + "/file/" + url.PathEscape(filename)
}

// SavedRecord returns the single stored record a Persist middleware left on
// the context, if exactly one file was processed.
func SavedRecord(c *gin.Context) (*StoredImage, bool) {
	v, ok := c.Get(ctxKeyRecord)
	if !ok {
		return nil, false
	}
	rec, ok := v.(*StoredImage)
	return rec, ok
}

// SavedURL returns the canonical locator for a single processed file.
func SavedURL(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxKeyURL)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// SavedURLByName returns the by-filename compatibility locator.
func SavedURLByName(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxKeyURLByName)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// SavedRecords returns the stored records when more than one file was
// processed.
func SavedRecords(c *gin.Context) ([]*StoredImage, bool) {
	v, ok := c.Get(ctxKeyRecords)
	if !ok {
		return nil, false
	}
	recs, ok := v.([]*StoredImage)
	return recs, ok
}

// SavedURLs returns the locators when more than one file was processed.
func SavedURLs(c *gin.Context) ([]string, bool) {
	v, ok := c.Get(ctxKeyURLs)
	if !ok {
		return nil, false
	}
	urls, ok := v.([]string)
	return urls, ok
}

func abortError(c *gin.Context, status int, code, message string) {
	response.Error(c, status, code, message)
	c.Abort()
}

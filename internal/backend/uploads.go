package backend

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/smallbiznis/helpdesk/internal/clock"
	"github.com/smallbiznis/helpdesk/internal/config"
	"github.com/smallbiznis/helpdesk/internal/helpdesk/domain"
	"github.com/smallbiznis/helpdesk/pkg/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PresignRequest struct {
	FileName   string `json:"fileName"`
	FileType   string `json:"fileType"`
	FileSize   int64  `json:"fileSize"`
	ParentKind string `json:"parentKind"`
	ParentID   string `json:"parentId"`
}

type PresignResponse struct {
	FileID     string `json:"fileId"`
	UploadURL  string `json:"uploadUrl"`
	ParentKind string `json:"parentKind"`
	ParentID   string `json:"parentId"`
	ExpiresAt  string `json:"expiresAt"`
}

// uploadParents are the record kinds that carry file attachments.
var uploadParents = map[domain.Kind]bool{
	domain.KindTicket:   true,
	domain.KindContract: true,
}

// UploadService hands out short-lived signed URLs and stores the binaries
// PUT against them on local disk.
type UploadService struct {
	db        *gorm.DB
	uploads   repository.Repository[Upload]
	resources *ResourceService
	console   *config.ConsoleConfigHolder
	dir       string
	baseURL   string
	ttl       time.Duration
	secret    []byte
	clock     clock.Clock
	log       *zap.Logger
}

func NewUploadService(conn *gorm.DB, cfg config.Config, console *config.ConsoleConfigHolder, resources *ResourceService, tokens *TokenIssuer, clk clock.Clock, log *zap.Logger) *UploadService {
	ttl := cfg.UploadURLTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &UploadService{
		db:        conn,
		uploads:   repository.ProvideStore[Upload](conn),
		resources: resources,
		console:   console,
		dir:       cfg.UploadDir,
		baseURL:   strings.TrimRight(cfg.PublicBaseURL, "/"),
		ttl:       ttl,
		secret:    tokens.secret,
		clock:     clk,
		log:       log.Named("backend.uploads"),
	}
}

func (s *UploadService) maxSize() int64 {
	if s.console != nil {
		if max := s.console.Get().Uploads.MaxFileSize; max > 0 {
			return max
		}
	}
	return config.DefaultConsoleConfig().Uploads.MaxFileSize
}

func (s *UploadService) Presign(ctx context.Context, req PresignRequest) (PresignResponse, error) {
	name := strings.TrimSpace(req.FileName)
	if name == "" {
		return PresignResponse{}, fmt.Errorf("%w: fileName is required", ErrInvalidRequest)
	}
	if req.FileSize < 0 || req.FileSize > s.maxSize() {
		return PresignResponse{}, fmt.Errorf("%w: fileSize must be between 0 and %d bytes", ErrInvalidRequest, s.maxSize())
	}
	kind := domain.Kind(req.ParentKind)
	if !uploadParents[kind] {
		return PresignResponse{}, fmt.Errorf("%w: parentKind must be tickets or contracts", ErrInvalidRequest)
	}
	parentID := strings.TrimSpace(req.ParentID)
	if parentID == "" {
		return PresignResponse{}, fmt.Errorf("%w: parentId is required", ErrInvalidRequest)
	}
	if _, err := s.resources.Get(ctx, kind, parentID); err != nil {
		return PresignResponse{}, fmt.Errorf("presign parent %s/%s: %w", kind, parentID, err)
	}

	now := s.clock.Now()
	upload := &Upload{
		ID:          ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
		Name:        name,
		ContentType: req.FileType,
		Size:        req.FileSize,
		ParentKind:  string(kind),
		ParentID:    parentID,
		ExpiresAt:   now.Add(s.ttl).UTC(),
	}
	if err := s.uploads.Create(ctx, upload); err != nil {
		return PresignResponse{}, err
	}

	expires := upload.ExpiresAt.Unix()
	query := url.Values{}
	query.Set("expires", strconv.FormatInt(expires, 10))
	query.Set("signature", s.sign(upload.ID, expires))

	return PresignResponse{
		FileID:     upload.ID,
		UploadURL:  fmt.Sprintf("%s/uploads/%s?%s", s.baseURL, url.PathEscape(upload.ID), query.Encode()),
		ParentKind: upload.ParentKind,
		ParentID:   upload.ParentID,
		ExpiresAt:  upload.ExpiresAt.Format(time.RFC3339),
	}, nil
}

// Store writes the body of a presigned PUT. Each slot accepts one upload: the
// slot is claimed by setting stored_at before any bytes are written, and the
// claim is released again if the write fails.
func (s *UploadService) Store(ctx context.Context, id, expires, signature string, body io.Reader) (*Upload, error) {
	exp, err := strconv.ParseInt(expires, 10, 64)
	if err != nil {
		return nil, ErrInvalidSignature
	}
	if !hmac.Equal([]byte(signature), []byte(s.sign(id, exp))) {
		return nil, ErrInvalidSignature
	}
	if s.clock.Now().Unix() > exp {
		return nil, ErrUploadExpired
	}

	upload, err := s.uploads.FindOne(ctx, &Upload{ID: id})
	if err != nil {
		return nil, err
	}
	if upload == nil {
		return nil, ErrNotFound
	}

	storedAt := s.clock.Now().UTC()
	claim := s.db.WithContext(ctx).Model(&Upload{}).
		Where("id = ? AND stored_at IS NULL", id).
		Update("stored_at", storedAt)
	if claim.Error != nil {
		return nil, claim.Error
	}
	if claim.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: upload %s already stored", ErrConflict, id)
	}

	path, size, err := s.write(id, body)
	if err != nil {
		s.release(ctx, id)
		return nil, err
	}

	_, err = s.uploads.Update(ctx, &Upload{ID: id}, map[string]any{
		"path": path,
		"size": size,
	})
	if err != nil {
		_ = os.Remove(path)
		s.release(ctx, id)
		return nil, err
	}
	upload.Path = path
	upload.Size = size
	upload.StoredAt = &storedAt
	s.log.Info("upload stored", zap.String("file_id", id), zap.Int64("size", size))
	return upload, nil
}

func (s *UploadService) release(ctx context.Context, id string) {
	err := s.db.WithContext(ctx).Model(&Upload{}).
		Where("id = ?", id).
		Update("stored_at", gorm.Expr("NULL")).Error
	if err != nil {
		s.log.Error("release upload slot failed", zap.String("file_id", id), zap.Error(err))
	}
}

// write streams the body into a temp file that only becomes visible under the
// final name once it is complete.
func (s *UploadService) write(id string, body io.Reader) (string, int64, error) {
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return "", 0, err
	}
	f, err := os.CreateTemp(s.dir, id+".*.part")
	if err != nil {
		return "", 0, err
	}
	tmp := f.Name()

	max := s.maxSize()
	n, err := io.Copy(f, io.LimitReader(body, max+1))
	closeErr := f.Close()
	switch {
	case err != nil:
	case closeErr != nil:
		err = closeErr
	case n > max:
		err = fmt.Errorf("%w: file exceeds %d bytes", ErrInvalidRequest, max)
	}
	if err != nil {
		_ = os.Remove(tmp)
		return "", 0, err
	}
	path := filepath.Join(s.dir, id)
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", 0, err
	}
	return path, n, nil
}

func (s *UploadService) sign(id string, expires int64) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte("upload:" + id + ":" + strconv.FormatInt(expires, 10)))
	return hex.EncodeToString(mac.Sum(nil))
}

// Open returns a stored binary.
func (s *UploadService) Open(ctx context.Context, id string) (*Upload, *os.File, error) {
	upload, err := s.uploads.FindOne(ctx, &Upload{ID: id})
	if err != nil {
		return nil, nil, err
	}
	if upload == nil || upload.StoredAt == nil || upload.Path == "" {
		return nil, nil, ErrNotFound
	}
	f, err := os.Open(upload.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	return upload, f, nil
}

package gateway

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/smallbiznis/helpdesk/internal/config"
	"github.com/smallbiznis/helpdesk/internal/helpdesk/domain"
	"github.com/smallbiznis/helpdesk/internal/observability/logger"
	"go.uber.org/zap"
)

const pathPresign = "/api/uploads/presign"

// PresignRequest names the record the file will be attached to so the
// backend can refuse slots for parents that do not exist.
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

// Uploader runs presign, then the binary PUT, then registers the metadata on
// the parent record. Nothing is registered unless the PUT succeeded.
type Uploader struct {
	client  *Client
	store   domain.Service
	console *config.ConsoleConfigHolder
	log     *zap.Logger
}

func NewUploader(client *Client, store domain.Service, console *config.ConsoleConfigHolder, log *zap.Logger) *Uploader {
	return &Uploader{client: client, store: store, console: console, log: log.Named("gateway.uploader")}
}

// AttachToTicket reports false when the binary upload failed.
func (u *Uploader) AttachToTicket(ctx context.Context, ticketID string, file File) (bool, error) {
	return u.upload(ctx, "ticket.attach", domain.KindTicket, ticketID, file, func(in domain.FileInput) error {
		return u.store.AddTicketAttachment(ctx, ticketID, in)
	})
}

func (u *Uploader) AttachToContract(ctx context.Context, contractID string, file File) (bool, error) {
	return u.upload(ctx, "contract.attach", domain.KindContract, contractID, file, func(in domain.FileInput) error {
		return u.store.AddContractDocument(ctx, contractID, in)
	})
}

func (u *Uploader) upload(ctx context.Context, op string, parent domain.Kind, parentID string, file File, register func(domain.FileInput) error) (bool, error) {
	if err := u.check(file); err != nil {
		return false, domain.Reject(op, err)
	}

	var presigned PresignResponse
	req := PresignRequest{
		FileName:   file.Name,
		FileType:   file.ContentType,
		FileSize:   file.Size,
		ParentKind: string(parent),
		ParentID:   parentID,
	}
	if err := u.client.Request(ctx, http.MethodPost, pathPresign, req, &presigned); err != nil {
		return false, fmt.Errorf("presign upload: %w", err)
	}

	if !u.client.UploadBinary(ctx, presigned.UploadURL, file) {
		logger.WithContext(ctx, u.log).Warn("upload not registered", zap.String("file_id", presigned.FileID))
		return false, nil
	}

	err := register(domain.FileInput{
		FileID: presigned.FileID,
		Name:   file.Name,
		Type:   file.ContentType,
		Size:   file.Size,
	})
	return err == nil, err
}

func (u *Uploader) check(file File) error {
	if strings.TrimSpace(file.Name) == "" || file.Body == nil {
		return fmt.Errorf("%w: file name and body are required", domain.ErrInvalidInput)
	}
	maxSize := config.DefaultConsoleConfig().Uploads.MaxFileSize
	if u.console != nil {
		maxSize = u.console.Get().Uploads.MaxFileSize
	}
	if maxSize > 0 && file.Size > maxSize {
		return fmt.Errorf("%w: file exceeds %d bytes", domain.ErrInvalidInput, maxSize)
	}
	return nil
}

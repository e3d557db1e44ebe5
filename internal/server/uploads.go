package server

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/helpdesk/internal/gateway"
)

// ErrUploadFailed means the binary never reached the backend, so nothing
// was registered on the parent record.
var ErrUploadFailed = errors.New("upload_failed")

func (s *Server) AttachToTicket(c *gin.Context) {
	id := pathID(c, "id")
	s.attach(c, s.uploader.AttachToTicket, id, func() (any, bool) { return s.store.GetTicket(id) })
}

func (s *Server) AttachToContract(c *gin.Context) {
	id := pathID(c, "id")
	s.attach(c, s.uploader.AttachToContract, id, func() (any, bool) { return s.store.GetContract(id) })
}

type attachFunc func(ctx context.Context, parentID string, file gateway.File) (bool, error)

// attach reads the multipart field "file" and streams it through the
// uploader. Uploads need the backend, so fixtures mode answers 503.
func (s *Server) attach(c *gin.Context, upload attachFunc, parentID string, get func() (any, bool)) {
	if s.uploader == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}
	header, err := c.FormFile("file")
	if err != nil {
		AbortWithError(c, newValidationError("file", "required", "file is required"))
		return
	}
	f, err := header.Open()
	if err != nil {
		AbortWithError(c, err)
		return
	}
	defer f.Close()

	ok, err := upload(c.Request.Context(), parentID, gateway.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        f,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if !ok {
		AbortWithError(c, ErrUploadFailed)
		return
	}
	respondUpdated(c, nil, get)
}

package service

import (
	"Memoria/internal/api/dto"
	"Memoria/internal/model"
	"Memoria/internal/pkg/consts"
	"Memoria/internal/pkg/util"
	"Memoria/internal/repository"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	log "log/slog"
	"mime/multipart"
	"time"

	"github.com/google/uuid"
)

// ObjectStore 对象存储，返回可公开访问的 URL
type ObjectStore interface {
	Put(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error)
}

type ImageService interface {
	UploadImage(ctx context.Context, file *multipart.FileHeader) (*dto.ImageDTO, error)
}

type imageServiceImpl struct {
	store       ObjectStore
	pendingRepo repository.PendingImageRepo
	maxBytes    int64
	maxEdge     int
}

// NewImageService pendingRepo 为 nil 时不登记上传记录
func NewImageService(store ObjectStore, pendingRepo repository.PendingImageRepo, maxBytes int64, maxEdge int) ImageService {
	return &imageServiceImpl{
		store:       store,
		pendingRepo: pendingRepo,
		maxBytes:    maxBytes,
		maxEdge:     maxEdge,
	}
}

// UploadImage 嗅探类型、按需缩图后上传，对象名为 images/yyyy/mm/dd/uuid.ext
func (s *imageServiceImpl) UploadImage(ctx context.Context, file *multipart.FileHeader) (*dto.ImageDTO, error) {
	if file == nil {
		return nil, ErrFileNotExist
	}
	if s.maxBytes > 0 && file.Size > s.maxBytes {
		return nil, ErrFileTooLarge
	}

	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrFileNotExist
	}

	mime, ext, err := util.DetectImageType(data)
	if err != nil {
		if errors.Is(err, util.ErrNotImage) {
			return nil, ErrFileNotSupported
		}
		return nil, err
	}

	normalized, resized, err := util.NormalizeImage(data, s.maxEdge)
	if err != nil {
		return nil, err
	}
	if resized {
		log.InfoContext(ctx, "image downscaled", "filename", file.Filename, "from", len(data), "to", len(normalized))
	}

	objectName := fmt.Sprintf("%s/%s/%s%s", consts.ImageObjectPrefix, time.Now().Format("2006/01/02"), uuid.NewString(), ext)
	url, err := s.store.Put(ctx, objectName, bytes.NewReader(normalized), int64(len(normalized)), mime)
	if err != nil {
		return nil, err
	}

	// 登记失败只影响清理任务
	if s.pendingRepo != nil {
		img := model.PendingImage{ObjectName: objectName, URL: url, MimeType: mime, CreatedAt: time.Now().Unix()}
		if err = s.pendingRepo.Track(ctx, img); err != nil {
			log.WarnContext(ctx, "track pending image error", "objectName", objectName, "err", err)
		}
	}
	return &dto.ImageDTO{ImageURL: url}, nil
}

package util

import (
	"Memoria/internal/pkg/consts"
	"bytes"
	"errors"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
)

var ErrNotImage = errors.New("not an image")

// DetectImageType 按文件头嗅探类型，只接受 image/*
func DetectImageType(data []byte) (mime string, ext string, err error) {
	m := mimetype.Detect(data)
	if !strings.HasPrefix(m.String(), consts.MimePrefixImage+"/") {
		return "", "", ErrNotImage
	}
	return m.String(), m.Extension(), nil
}

// NormalizeImage 长边超过 maxEdge 时等比缩小并按原格式重新编码，否则原样返回
func NormalizeImage(data []byte, maxEdge int) ([]byte, bool, error) {
	if maxEdge <= 0 {
		return data, false, nil
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		// gif 动图、svg 等无法解码的格式直接放行
		return data, false, nil
	}
	if cfg.Width <= maxEdge && cfg.Height <= maxEdge {
		return data, false, nil
	}

	f, err := imaging.FormatFromExtension(format)
	if err != nil {
		return data, false, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, false, err
	}
	if cfg.Width >= cfg.Height {
		img = imaging.Resize(img, maxEdge, 0, imaging.Lanczos)
	} else {
		img = imaging.Resize(img, 0, maxEdge, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err = imaging.Encode(&buf, img, f, imaging.JPEGQuality(90)); err != nil {
		return nil, false, err
	}
	return buf.Bytes(), true, nil
}

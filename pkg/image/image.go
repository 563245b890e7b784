package image

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

// CompressOptions 头像压缩参数
type CompressOptions struct {
	MaxPx    int // 最长边上限（像素）
	TargetKB int // 目标体积上限
}

// CompressProfilePhoto 将上传的头像压缩为 WebP：
//  1. 最长边缩放到不超过 MaxPx
//  2. 从 quality 85 逐档下调，直到体积 <= TargetKB
//
// 达到最低档仍超标时返回最低档结果（可接受：目标是"尽量小"而非硬上限）
func CompressProfilePhoto(data []byte, opt CompressOptions) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("图片内容为空")
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("解码图片失败: %w", err)
	}

	maxPx := opt.MaxPx
	if maxPx <= 0 {
		maxPx = 300
	}
	targetBytes := opt.TargetKB * 1024
	if targetBytes <= 0 {
		targetBytes = 50 * 1024
	}

	// 等比缩放（仅缩小，不放大）
	b := src.Bounds()
	if b.Dx() > maxPx || b.Dy() > maxPx {
		src = imaging.Fit(src, maxPx, maxPx, imaging.Lanczos)
	}

	// 逐档下调 quality 直到满足目标体积
	var last []byte
	for _, q := range []float32{85, 75, 65, 55, 45} {
		buf := new(bytes.Buffer)
		if err := webp.Encode(buf, src, &webp.Options{Lossless: false, Quality: q}); err != nil {
			return nil, fmt.Errorf("WebP 编码失败: %w", err)
		}
		last = buf.Bytes()
		if len(last) <= targetBytes {
			return last, nil
		}
	}
	return last, nil
}

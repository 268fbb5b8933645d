// Package oss 对象存储服务单元测试
package oss

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockUploader_Upload(t *testing.T) {
	uploader := NewMockUploader()
	ctx := context.Background()

	t.Run("上传图片", func(t *testing.T) {
		// 模拟 PNG 文件头
		content := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
		reader := bytes.NewReader(content)

		url, err := uploader.Upload(ctx, "rooms/101.png", reader)
		require.NoError(t, err)
		assert.Contains(t, url, "rooms/101.png")

		// 验证文件已存储
		assert.Equal(t, content, uploader.Files["rooms/101.png"])
	})
}

func TestMockUploader_Delete(t *testing.T) {
	uploader := NewMockUploader()
	ctx := context.Background()

	uploader.Upload(ctx, "rooms/delete.jpg", bytes.NewReader([]byte("test")))
	assert.Contains(t, uploader.Files, "rooms/delete.jpg")

	t.Run("删除文件", func(t *testing.T) {
		err := uploader.Delete(ctx, "rooms/delete.jpg")
		require.NoError(t, err)

		assert.NotContains(t, uploader.Files, "rooms/delete.jpg")
	})
}

func TestMockUploader_GetSignedURL(t *testing.T) {
	uploader := NewMockUploader()

	url, err := uploader.GetSignedURL("rooms/201.jpg", time.Hour)
	require.NoError(t, err)
	assert.Contains(t, url, "rooms/201.jpg")
	assert.Contains(t, url, "expires=")
}

func TestGenerateObjectKey(t *testing.T) {
	t.Run("生成唯一对象键", func(t *testing.T) {
		key1 := GenerateObjectKey("rooms", "photo.jpg")
		key2 := GenerateObjectKey("rooms", "photo.jpg")

		assert.True(t, strings.HasPrefix(key1, "rooms/"))
		assert.True(t, strings.HasSuffix(key1, ".jpg"))
		assert.NotEqual(t, key1, key2)
	})

	t.Run("保留扩展名", func(t *testing.T) {
		key := GenerateObjectKey("rooms", "view.webp")
		assert.True(t, strings.HasSuffix(key, ".webp"))
	})
}

func TestGetContentType(t *testing.T) {
	assert.Equal(t, "image/jpeg", GetContentType("a.jpg"))
	assert.Equal(t, "image/png", GetContentType("b.PNG"))
	assert.Equal(t, "application/octet-stream", GetContentType("c.bin"))
}

func TestValidateImageFile(t *testing.T) {
	t.Run("合法 PNG", func(t *testing.T) {
		content := append([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, make([]byte, 100)...)
		err := ValidateImageFile("room.png", bytes.NewReader(content))
		assert.NoError(t, err)
	})

	t.Run("非法扩展名", func(t *testing.T) {
		err := ValidateImageFile("room.exe", bytes.NewReader([]byte("MZ")))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "不支持的图片格式")
	})

	t.Run("扩展名伪装的非图片", func(t *testing.T) {
		err := ValidateImageFile("fake.jpg", strings.NewReader("this is plain text, definitely not an image"))
		assert.Error(t, err)
	})
}

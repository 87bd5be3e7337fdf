package pkg

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrNotAnImage   = errors.New("uploaded file is not an image")
	ErrFileTooLarge = errors.New("uploaded file is too large")
)

var imageExt = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/bmp":  ".bmp",
}

// MediaStore 本地磁盘上的上传文件目录
type MediaStore struct {
	Root     string
	URL      string
	MaxBytes int64
}

func NewMediaStore(root, url string, maxBytes int64) *MediaStore {
	if !strings.HasSuffix(url, "/") {
		url += "/"
	}
	return &MediaStore{Root: root, URL: url, MaxBytes: maxBytes}
}

// SavePostImage 校验内容类型后写入 posts/ 子目录，返回相对路径
func (m *MediaStore) SavePostImage(fh *multipart.FileHeader) (string, error) {
	if m.MaxBytes > 0 && fh.Size > m.MaxBytes {
		return "", ErrFileTooLarge
	}
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	ext, ok := imageExt[http.DetectContentType(head[:n])]
	if !ok {
		return "", ErrNotAnImage
	}
	if _, err = src.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	rel := path.Join("posts", uuid.NewString()+ext)
	dst := filepath.Join(m.Root, filepath.FromSlash(rel))
	if err = os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}
	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	if _, err = io.Copy(out, src); err != nil {
		out.Close()
		_ = os.Remove(dst)
		return "", err
	}
	return rel, out.Close()
}

// Remove 删除已保存的文件，不存在视为成功
func (m *MediaStore) Remove(rel string) error {
	if rel == "" {
		return nil
	}
	err := os.Remove(filepath.Join(m.Root, filepath.FromSlash(rel)))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func (m *MediaStore) PublicURL(rel string) string {
	if rel == "" {
		return ""
	}
	return m.URL + rel
}

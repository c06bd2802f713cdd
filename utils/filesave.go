package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// SaveImageFile validates that the upload is an image and writes it to
// dir/<name>.jpg, returning the stored file name.
func SaveImageFile(file multipart.File, dir, name string) (string, error) {
	buff := make([]byte, 512)
	n, err := file.Read(buff)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading upload: %w", err)
	}
	contentType := http.DetectContentType(buff[:n])
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("unsupported file type %s", contentType)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	fileName := filepath.Base(name + ".jpg")
	out, err := os.Create(filepath.Join(dir, fileName))
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		return "", err
	}
	return fileName, nil
}

// CreateThumb renders a wxh thumbnail next to the original under a thumb/
// subdirectory.
func CreateThumb(dir, fileName string, w, h int) error {
	src, err := imaging.Open(filepath.Join(dir, fileName))
	if err != nil {
		return err
	}
	thumb := imaging.Thumbnail(src, w, h, imaging.Lanczos)

	thumbDir := filepath.Join(dir, "thumb")
	if err := os.MkdirAll(thumbDir, 0755); err != nil {
		return err
	}
	return imaging.Save(thumb, filepath.Join(thumbDir, fileName))
}

package core

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"

	"github.com/jokari-ai/knowledge-hub/pkg/object-storage/s3"
)

// FileStorage interface defines methods for file operations.
type FileStorage interface {
	GetStaticDomain() string
	SaveFile(fullPath string, content []byte) error
	DeleteFile(fullFilePath string) error
	GenGetObjectPreSignURL(filePath string) (string, error)
	DownloadFile(ctx context.Context, filePath string) (*s3.GetObjectResult, error)
}

type s3Storage struct {
	staticDomain string
	cli          *s3.S3
}

func (fs *s3Storage) GetStaticDomain() string {
	return fs.staticDomain
}

func (fs *s3Storage) SaveFile(fullPath string, content []byte) error {
	return fs.cli.Upload(fullPath, bytes.NewReader(content))
}

func (fs *s3Storage) DeleteFile(fullFilePath string) error {
	return fs.cli.Delete(fullFilePath)
}

func (fs *s3Storage) GenGetObjectPreSignURL(filePath string) (string, error) {
	return fs.cli.GenGetObjectPreSignURL(filePath)
}

func (fs *s3Storage) DownloadFile(ctx context.Context, filePath string) (*s3.GetObjectResult, error) {
	return fs.cli.GetObject(ctx, filePath)
}

type LocalFileStorage struct {
	StaticDomain string
}

func NewLocalFileStorage(staticDomain string) *LocalFileStorage {
	return &LocalFileStorage{StaticDomain: staticDomain}
}

func (lfs *LocalFileStorage) GetStaticDomain() string {
	return lfs.StaticDomain
}

// SaveFile stores a file on the local file system.
func (lfs *LocalFileStorage) SaveFile(fullPath string, content []byte) error {
	dir := filepath.Dir(fullPath)
	_, err := os.Stat(dir)
	if os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %v", err)
		}
	} else if err != nil {
		return fmt.Errorf("failed to check directory: %v", err)
	}

	if err = os.WriteFile(fullPath, content, 0644); err != nil {
		return fmt.Errorf("failed to save file: %v", err)
	}

	return nil
}

func (lfs *LocalFileStorage) DeleteFile(fullFilePath string) error {
	return os.Remove(fullFilePath)
}

func (lfs *LocalFileStorage) GenGetObjectPreSignURL(filePath string) (string, error) {
	return lfs.StaticDomain + filePath, nil
}

func (lfs *LocalFileStorage) DownloadFile(ctx context.Context, filePath string) (*s3.GetObjectResult, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("error opening file: %v", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	fileType := mime.TypeByExtension(filepath.Ext(filePath))
	if fileType == "" {
		fileType = "application/octet-stream"
	}

	return &s3.GetObjectResult{
		File:     raw,
		FileType: fileType,
	}, nil
}

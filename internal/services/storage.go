package services

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"hireflow/ats-platform/internal/apperr"
)

// allowedResumeTypes maps accepted extensions to the stored file type.
var allowedResumeTypes = map[string]string{
	".pdf": "pdf",
	".txt": "txt",
}

type StoredFile struct {
	StoredName string
	Path       string
	FileType   string
	Size       int64
}

type StorageService interface {
	SaveFile(file *multipart.FileHeader, prefix string) (*StoredFile, error)
	GetFilePath(filename string) string
	DeleteFile(filename string) error
	EnsureUploadDir() error
}

type storageService struct {
	uploadPath  string
	maxFileSize int64
}

func NewStorageService(uploadPath string, maxFileSize int64) StorageService {
	return &storageService{
		uploadPath:  uploadPath,
		maxFileSize: maxFileSize,
	}
}

func (s *storageService) EnsureUploadDir() error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	return nil
}

// SaveFile implements StorageService.
func (s *storageService) SaveFile(file *multipart.FileHeader, prefix string) (*StoredFile, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	fileType, ok := allowedResumeTypes[ext]
	if !ok {
		return nil, apperr.Validation("file", "unsupported file type %q, only PDF and TXT are accepted", ext)
	}
	if s.maxFileSize > 0 && file.Size > s.maxFileSize {
		return nil, apperr.Validation("file", "file exceeds the %d MB limit", s.maxFileSize/(1024*1024))
	}

	uniqueFilename := fmt.Sprintf("%s_%s%s", prefix, uuid.New().String(), ext)
	filePath := filepath.Join(s.uploadPath, uniqueFilename)

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, src)
	if err != nil {
		os.Remove(filePath)
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	return &StoredFile{
		StoredName: uniqueFilename,
		Path:       filePath,
		FileType:   fileType,
		Size:       written,
	}, nil
}

func (s *storageService) GetFilePath(filename string) string {
	return filepath.Join(s.uploadPath, filepath.Base(filename))
}

// DeleteFile implements StorageService. A file that is already gone is not an error.
func (s *storageService) DeleteFile(filename string) error {
	if err := os.Remove(s.GetFilePath(filename)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

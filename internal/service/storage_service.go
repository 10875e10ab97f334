package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"subject_recommender/internal/config"
	"subject_recommender/internal/util"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// StorageProvider 查找表存储接口
type StorageProvider interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	UploadFile(ctx context.Context, name string, localPath string) error
	Location(name string) string
}

// LocalStorageProvider 本地存储实现
type LocalStorageProvider struct {
	Config *config.StorageConfig
}

func (p *LocalStorageProvider) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	return os.Open(p.Location(name))
}

func (p *LocalStorageProvider) UploadFile(ctx context.Context, name string, localPath string) error {
	dst := p.Location(name)
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	// 如果源文件和目标文件一样，直接返回
	if filepath.Clean(localPath) == filepath.Clean(dst) {
		return nil
	}

	srcFile, err := os.Open(localPath)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	dstFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer dstFile.Close()

	_, err = io.Copy(dstFile, srcFile)
	return err
}

func (p *LocalStorageProvider) Location(name string) string {
	return filepath.Join(p.Config.LocalPath, filepath.FromSlash(name))
}

// MinioStorageProvider MinIO存储实现
type MinioStorageProvider struct {
	Config *config.StorageConfig
	Client *minio.Client
}

func NewMinioStorageProvider(cfg *config.StorageConfig) (*MinioStorageProvider, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, err
	}
	return &MinioStorageProvider{Config: cfg, Client: client}, nil
}

func (p *MinioStorageProvider) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	// GetObject 是惰性的，先 Stat 让不存在的对象立即报错
	if _, err := p.Client.StatObject(ctx, p.Config.MinioBucket, name, minio.StatObjectOptions{}); err != nil {
		return nil, err
	}
	return p.Client.GetObject(ctx, p.Config.MinioBucket, name, minio.GetObjectOptions{})
}

func (p *MinioStorageProvider) UploadFile(ctx context.Context, name string, localPath string) error {
	_, err := p.Client.FPutObject(ctx, p.Config.MinioBucket, name, localPath, minio.PutObjectOptions{
		ContentType: "application/json",
	})
	return err
}

func (p *MinioStorageProvider) Location(name string) string {
	return "minio://" + p.Config.MinioBucket + "/" + name
}

// OSSStorageProvider 阿里云OSS存储实现
type OSSStorageProvider struct {
	Config *config.StorageConfig
	Client *oss.Client
}

func NewOSSStorageProvider(cfg *config.StorageConfig) (*OSSStorageProvider, error) {
	client, err := oss.New(cfg.OSSEndpoint, cfg.OSSAccessKey, cfg.OSSSecretKey)
	if err != nil {
		return nil, err
	}
	return &OSSStorageProvider{Config: cfg, Client: client}, nil
}

func (p *OSSStorageProvider) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	bucket, err := p.Client.Bucket(p.Config.OSSBucket)
	if err != nil {
		return nil, err
	}
	return bucket.GetObject(name, oss.WithContext(ctx))
}

func (p *OSSStorageProvider) UploadFile(ctx context.Context, name string, localPath string) error {
	bucket, err := p.Client.Bucket(p.Config.OSSBucket)
	if err != nil {
		return err
	}
	return bucket.PutObjectFromFile(name, localPath, oss.WithContext(ctx), oss.ContentType("application/json"))
}

func (p *OSSStorageProvider) Location(name string) string {
	return fmt.Sprintf("https://%s.%s/%s", p.Config.OSSBucket, p.Config.OSSEndpoint, name)
}

// StorageService 查找表存储服务，实现 lookup.Source
type StorageService struct {
	Provider StorageProvider
	Prefix   string
}

func NewStorageService(cfg *config.StorageConfig) (*StorageService, error) {
	var (
		provider StorageProvider
		err      error
	)
	switch cfg.Type {
	case util.StorageLocal, "":
		provider = &LocalStorageProvider{Config: cfg}
	case util.StorageMinio:
		provider, err = NewMinioStorageProvider(cfg)
	case util.StorageOSS:
		provider, err = NewOSSStorageProvider(cfg)
	default:
		return nil, fmt.Errorf("%w: %q", util.ErrUnknownStorageProvider, cfg.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("init %s storage: %w", cfg.Type, err)
	}
	return &StorageService{Provider: provider, Prefix: cfg.TablesPrefix}, nil
}

func (s *StorageService) key(name string) string {
	if s.Prefix == "" {
		return name
	}
	return path.Join(s.Prefix, name)
}

func (s *StorageService) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	return s.Provider.Open(ctx, s.key(name))
}

func (s *StorageService) UploadFile(ctx context.Context, name string, localPath string) error {
	return s.Provider.UploadFile(ctx, s.key(name), localPath)
}

func (s *StorageService) Location(name string) string {
	return s.Provider.Location(s.key(name))
}

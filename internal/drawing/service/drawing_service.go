package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/abushana-oss/mithran/internal/drawing/entity"
	"github.com/abushana-oss/mithran/internal/drawing/repository"
	nomrepo "github.com/abushana-oss/mithran/internal/nomination/repository"
	"github.com/abushana-oss/mithran/internal/shared/cadengine"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// ErrNotFound 图纸或归属资源不存在
var ErrNotFound = repository.ErrNotFound

// DrawingService 图纸服务：MinIO存储 + CAD引擎STL转换
type DrawingService struct {
	drawingRepo *repository.DrawingRepository
	nomRepos    *nomrepo.Repositories
	minioClient *minio.Client
	bucketName  string
	cadClient   *cadengine.Client
	logger      *zap.Logger
}

func NewDrawingService(
	drawingRepo *repository.DrawingRepository,
	nomRepos *nomrepo.Repositories,
	minioClient *minio.Client,
	bucketName string,
	cadClient *cadengine.Client,
	logger *zap.Logger,
) *DrawingService {
	return &DrawingService{
		drawingRepo: drawingRepo,
		nomRepos:    nomRepos,
		minioClient: minioClient,
		bucketName:  bucketName,
		cadClient:   cadClient,
		logger:      logger,
	}
}

// checkPart 校验提名归属与物料从属关系
func (s *DrawingService) checkPart(ctx context.Context, nominationID, userID, partID string) error {
	nom, err := s.nomRepos.Nomination.FindByID(ctx, nominationID)
	if err != nil {
		if err == nomrepo.ErrNotFound {
			return ErrNotFound
		}
		return err
	}
	if nom.UserID != userID {
		return ErrNotFound
	}
	part, err := s.nomRepos.BOMPart.FindByID(ctx, partID)
	if err != nil {
		if err == nomrepo.ErrNotFound {
			return ErrNotFound
		}
		return err
	}
	if part.NominationID != nominationID {
		return ErrNotFound
	}
	return nil
}

// Upload 上传图纸到MinIO。STEP/IGES文件随即请求STL转换，
// 转换为尽力而为：失败只标记stl_status=failed，不影响上传结果。
func (s *DrawingService) Upload(ctx context.Context, nominationID, userID, partID string, reader io.Reader, fileName string, fileSize int64, contentType string) (*entity.Drawing, error) {
	if err := s.checkPart(ctx, nominationID, userID, partID); err != nil {
		return nil, err
	}

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("读取上传文件失败: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	objectKey := fmt.Sprintf("drawings/%s/%s/%s%s",
		nominationID, time.Now().Format("2006/01/02"), uuid.New().String()[:8], ext)

	if s.minioClient != nil {
		_, err = s.minioClient.PutObject(ctx, s.bucketName, objectKey,
			bytes.NewReader(content), fileSize, minio.PutObjectOptions{ContentType: contentType})
		if err != nil {
			return nil, fmt.Errorf("上传文件失败: %w", err)
		}
	}

	drawing := &entity.Drawing{
		ID:           uuid.New().String()[:32],
		NominationID: nominationID,
		PartID:       partID,
		FileName:     fileName,
		ObjectKey:    objectKey,
		ContentType:  contentType,
		SizeBytes:    fileSize,
		STLStatus:    entity.STLStatusNone,
		UploadedBy:   userID,
	}
	if err := s.drawingRepo.Create(ctx, drawing); err != nil {
		return nil, fmt.Errorf("保存图纸记录失败: %w", err)
	}

	if cadengine.SupportedExt(ext) && s.cadClient != nil {
		s.convertToSTL(ctx, drawing, content)
	}
	return drawing, nil
}

func (s *DrawingService) convertToSTL(ctx context.Context, drawing *entity.Drawing, content []byte) {
	stl, err := s.cadClient.ConvertToSTL(ctx, drawing.FileName, bytes.NewReader(content))
	if err != nil {
		s.logger.Warn("STL转换失败",
			zap.String("drawing_id", drawing.ID),
			zap.String("file", drawing.FileName),
			zap.Error(err))
		drawing.STLStatus = entity.STLStatusFailed
		if updErr := s.drawingRepo.UpdateSTL(ctx, drawing.ID, entity.STLStatusFailed, ""); updErr != nil {
			s.logger.Warn("更新STL状态失败", zap.String("drawing_id", drawing.ID), zap.Error(updErr))
		}
		return
	}

	stlKey := strings.TrimSuffix(drawing.ObjectKey, filepath.Ext(drawing.ObjectKey)) + ".stl"
	if s.minioClient != nil {
		_, err = s.minioClient.PutObject(ctx, s.bucketName, stlKey,
			bytes.NewReader(stl), int64(len(stl)),
			minio.PutObjectOptions{ContentType: "application/octet-stream"})
		if err != nil {
			s.logger.Warn("STL文件上传失败", zap.String("drawing_id", drawing.ID), zap.Error(err))
			drawing.STLStatus = entity.STLStatusFailed
			_ = s.drawingRepo.UpdateSTL(ctx, drawing.ID, entity.STLStatusFailed, "")
			return
		}
	}

	drawing.STLStatus = entity.STLStatusConverted
	drawing.STLObjectKey = stlKey
	if err := s.drawingRepo.UpdateSTL(ctx, drawing.ID, entity.STLStatusConverted, stlKey); err != nil {
		s.logger.Warn("更新STL状态失败", zap.String("drawing_id", drawing.ID), zap.Error(err))
	}
}

// List 查询物料下的图纸
func (s *DrawingService) List(ctx context.Context, nominationID, userID, partID string) ([]entity.Drawing, error) {
	if err := s.checkPart(ctx, nominationID, userID, partID); err != nil {
		return nil, err
	}
	return s.drawingRepo.ListByPart(ctx, nominationID, partID)
}

// DownloadURL 生成图纸（或其STL）的预签名下载地址
func (s *DrawingService) DownloadURL(ctx context.Context, nominationID, userID, partID, drawingID string, stl bool) (string, error) {
	if err := s.checkPart(ctx, nominationID, userID, partID); err != nil {
		return "", err
	}
	drawing, err := s.drawingRepo.FindByID(ctx, drawingID)
	if err != nil {
		return "", err
	}
	if drawing.PartID != partID {
		return "", ErrNotFound
	}

	objectKey := drawing.ObjectKey
	if stl {
		if drawing.STLStatus != entity.STLStatusConverted {
			return "", fmt.Errorf("该图纸没有可用的STL文件")
		}
		objectKey = drawing.STLObjectKey
	}

	if s.minioClient == nil {
		return "", fmt.Errorf("对象存储未配置")
	}
	u, err := s.minioClient.PresignedGetObject(ctx, s.bucketName, objectKey, time.Hour, nil)
	if err != nil {
		return "", fmt.Errorf("生成下载地址失败: %w", err)
	}
	return u.String(), nil
}

// Delete 删除图纸及其存储对象
func (s *DrawingService) Delete(ctx context.Context, nominationID, userID, partID, drawingID string) error {
	if err := s.checkPart(ctx, nominationID, userID, partID); err != nil {
		return err
	}
	drawing, err := s.drawingRepo.FindByID(ctx, drawingID)
	if err != nil {
		return err
	}
	if drawing.PartID != partID {
		return ErrNotFound
	}

	if s.minioClient != nil {
		if err := s.minioClient.RemoveObject(ctx, s.bucketName, drawing.ObjectKey, minio.RemoveObjectOptions{}); err != nil {
			s.logger.Warn("删除存储对象失败", zap.String("object", drawing.ObjectKey), zap.Error(err))
		}
		if drawing.STLObjectKey != "" {
			if err := s.minioClient.RemoveObject(ctx, s.bucketName, drawing.STLObjectKey, minio.RemoveObjectOptions{}); err != nil {
				s.logger.Warn("删除STL对象失败", zap.String("object", drawing.STLObjectKey), zap.Error(err))
			}
		}
	}
	return s.drawingRepo.Delete(ctx, drawingID)
}

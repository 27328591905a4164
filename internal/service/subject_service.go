package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"study-copilot-be/internal/dto"
	"study-copilot-be/internal/entity"
	"study-copilot-be/internal/mapper"
	"study-copilot-be/internal/pkg/logger"
	"study-copilot-be/internal/repository/memory"
	"study-copilot-be/pkg/events"
	"study-copilot-be/pkg/extraction"
	pktNats "study-copilot-be/pkg/nats"
)

var ErrSubjectNotFound = errors.New("subject not found")

type ISubjectService interface {
	List(ctx context.Context) []dto.SubjectResponse
	Upload(ctx context.Context, subjectId, filename string, data []byte) (*dto.UploadFileResponse, error)
}

type subjectService struct {
	subjects         *memory.SubjectRepository
	extractor        *extraction.Gateway
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	mapper           *mapper.SubjectMapper
	logger           logger.ILogger
}

func NewSubjectService(
	subjects *memory.SubjectRepository,
	extractor *extraction.Gateway,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) ISubjectService {
	return &subjectService{
		subjects:         subjects,
		extractor:        extractor,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		mapper:           mapper.NewSubjectMapper(),
		logger:           log,
	}
}

func (s *subjectService) List(ctx context.Context) []dto.SubjectResponse {
	return s.mapper.SubjectsToResponse(s.subjects.All())
}

// Upload extracts text from an uploaded document and appends it to the
// subject's files. Nothing is stored when extraction fails.
func (s *subjectService) Upload(ctx context.Context, subjectId, filename string, data []byte) (*dto.UploadFileResponse, error) {
	if _, found := s.subjects.Get(subjectId); !found {
		return nil, ErrSubjectNotFound
	}

	content, err := s.extractor.Extract(ctx, data, filename)
	if err != nil {
		s.logger.Warn("SubjectService", "Extraction failed", map[string]interface{}{
			"subject_id": subjectId,
			"file_name":  filename,
			"error":      err.Error(),
		})
		return nil, err
	}

	file := entity.FileRecord{
		Id:      uuid.NewString(),
		Name:    filename,
		Content: content,
	}
	if !s.subjects.AddFile(subjectId, file) {
		return nil, ErrSubjectNotFound
	}

	msgPayload := dto.PublishFileAddedMessage{
		SubjectId: subjectId,
		FileId:    file.Id,
		FileName:  file.Name,
	}
	msgJson, err := json.Marshal(msgPayload)
	if err != nil {
		return nil, err
	}
	if err := s.publisherService.Publish(ctx, msgJson); err != nil {
		return nil, err
	}

	// Publish event for external consumers; auxiliary, never fails the upload
	if s.eventPublisher != nil {
		evt := events.FileAdded(subjectId, file.Id, file.Name)
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("SubjectService", "Failed to publish FILE_ADDED event", map[string]interface{}{"error": err.Error()})
		}
	}

	s.logger.Info("SubjectService", "File added to subject", map[string]interface{}{
		"subject_id": subjectId,
		"file_id":    file.Id,
		"file_name":  file.Name,
		"chars":      len(content),
	})

	return &dto.UploadFileResponse{
		SubjectId: subjectId,
		FileId:    file.Id,
		FileName:  file.Name,
		Chars:     len(content),
	}, nil
}

package mapper

import (
	"study-copilot-be/internal/dto"
	"study-copilot-be/internal/entity"
)

type SubjectMapper struct{}

func NewSubjectMapper() *SubjectMapper {
	return &SubjectMapper{}
}

func (m *SubjectMapper) SubjectToResponse(s *entity.Subject) dto.SubjectResponse {
	files := make([]dto.SubjectFileResponse, 0, len(s.Files))
	for _, f := range s.Files {
		files = append(files, dto.SubjectFileResponse{Id: f.Id, Name: f.Name})
	}
	return dto.SubjectResponse{Id: s.Id, Name: s.Name, Files: files}
}

func (m *SubjectMapper) SubjectsToResponse(subjects []*entity.Subject) []dto.SubjectResponse {
	out := make([]dto.SubjectResponse, 0, len(subjects))
	for _, s := range subjects {
		out = append(out, m.SubjectToResponse(s))
	}
	return out
}

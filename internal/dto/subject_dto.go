package dto

type SubjectFileResponse struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}

type SubjectResponse struct {
	Id    string                `json:"id"`
	Name  string                `json:"name"`
	Files []SubjectFileResponse `json:"files"`
}

type PublishFileAddedMessage struct {
	SubjectId string `json:"subject_id"`
	FileId    string `json:"file_id"`
	FileName  string `json:"file_name"`
}

type UploadFileResponse struct {
	SubjectId string `json:"subject_id"`
	FileId    string `json:"file_id"`
	FileName  string `json:"file_name"`
	Chars     int    `json:"chars"`
}

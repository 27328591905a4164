package entity

// FileRecord is one uploaded note after text extraction.
// Immutable once appended to a Subject.
type FileRecord struct {
	Id      string
	Name    string
	Content string
}

// Subject groups uploaded notes into a context partition for chat.
type Subject struct {
	Id    string
	Name  string
	Files []FileRecord
}

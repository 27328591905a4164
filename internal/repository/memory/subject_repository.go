package memory

import (
	"sync"

	"github.com/patrickmn/go-cache"

	"study-copilot-be/internal/entity"
)

// SubjectRepository is the in-memory document store. Subjects are seeded
// once at construction and never deleted; file sequences are append-only.
// No persistence by design.
type SubjectRepository struct {
	mu    sync.Mutex
	cache *cache.Cache
	order []string // seed order, for stable listing and active fallback
}

func NewSubjectRepository(seed []*entity.Subject) *SubjectRepository {
	c := cache.New(cache.NoExpiration, 0)
	order := make([]string, 0, len(seed))
	for _, s := range seed {
		c.Set(s.Id, s, cache.NoExpiration)
		order = append(order, s.Id)
	}
	return &SubjectRepository{
		cache: c,
		order: order,
	}
}

// All returns the subjects in seed order as snapshots.
func (r *SubjectRepository) All() []*entity.Subject {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*entity.Subject, 0, len(r.order))
	for _, id := range r.order {
		if x, found := r.cache.Get(id); found {
			out = append(out, snapshot(x.(*entity.Subject)))
		}
	}
	return out
}

// Get returns a snapshot of one subject.
func (r *SubjectRepository) Get(subjectId string) (*entity.Subject, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if x, found := r.cache.Get(subjectId); found {
		return snapshot(x.(*entity.Subject)), true
	}
	return nil, false
}

// Active resolves the subject for the given id, falling back to the first
// seeded subject when the id no longer resolves.
func (r *SubjectRepository) Active(subjectId string) *entity.Subject {
	if s, found := r.Get(subjectId); found {
		return s
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.order) == 0 {
		return nil
	}
	if x, found := r.cache.Get(r.order[0]); found {
		return snapshot(x.(*entity.Subject))
	}
	return nil
}

// AddFile appends a file record to a subject, preserving upload order.
// Unknown subject ids are a silent no-op; the store never deduplicates,
// id uniqueness is the caller's contract.
func (r *SubjectRepository) AddFile(subjectId string, file entity.FileRecord) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	x, found := r.cache.Get(subjectId)
	if !found {
		return false
	}
	subject := x.(*entity.Subject)
	subject.Files = append(subject.Files, file)
	r.cache.Set(subjectId, subject, cache.NoExpiration)
	return true
}

func snapshot(s *entity.Subject) *entity.Subject {
	cp := &entity.Subject{
		Id:    s.Id,
		Name:  s.Name,
		Files: make([]entity.FileRecord, len(s.Files)),
	}
	copy(cp.Files, s.Files)
	return cp
}

package sources

import (
	"errors"
	"sync"
	"time"

	"newswire/models/entities"
)

var (
	ErrDuplicateSource = errors.New("source already registered")
	ErrUnknownSource   = errors.New("source is not registered")
	ErrInvalidSource   = errors.New("source needs an id, a url and a positive interval")
)

type Repository interface {
	Add(source entities.Source) error
	Remove(id string) error
	Get(id string) (entities.Source, bool)
	All() []entities.Source
	Due(now time.Time) []entities.Source
	RecordResult(id string, success bool, at time.Time) error
	Count() int64
}

type Impl struct {
	mu   sync.RWMutex
	byID map[string]*entities.Source
}

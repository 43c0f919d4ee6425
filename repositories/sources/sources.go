package sources

import (
	"sort"
	"time"

	"newswire/models/entities"
)

// New builds the in-memory feed registry. Sources are only ever removed
// explicitly; poll results are the single mutation path for poll state.
func New() *Impl {
	return &Impl{byID: map[string]*entities.Source{}}
}

func (repo *Impl) Add(source entities.Source) error {
	if source.ID == "" || source.URL == "" || source.Interval <= 0 {
		return ErrInvalidSource
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, exists := repo.byID[source.ID]; exists {
		return ErrDuplicateSource
	}
	repo.byID[source.ID] = &source
	return nil
}

func (repo *Impl) Remove(id string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, exists := repo.byID[id]; !exists {
		return ErrUnknownSource
	}
	delete(repo.byID, id)
	return nil
}

func (repo *Impl) Get(id string) (entities.Source, bool) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	source, exists := repo.byID[id]
	if !exists {
		return entities.Source{}, false
	}
	return *source, true
}

func (repo *Impl) All() []entities.Source {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	all := make([]entities.Source, 0, len(repo.byID))
	for _, source := range repo.byID {
		all = append(all, *source)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all
}

// Due returns the sources whose poll interval has elapsed, longest overdue
// first. A source that has never been polled is due immediately.
func (repo *Impl) Due(now time.Time) []entities.Source {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	var due []entities.Source
	for _, source := range repo.byID {
		if source.LastPoll.IsZero() || !source.LastPoll.Add(source.Interval).After(now) {
			due = append(due, *source)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].LastPoll.Before(due[j].LastPoll) })
	return due
}

func (repo *Impl) RecordResult(id string, success bool, at time.Time) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	source, exists := repo.byID[id]
	if !exists {
		return ErrUnknownSource
	}

	source.LastPoll = at
	if success {
		source.LastSuccess = at
		source.Failures = 0
	} else {
		source.Failures++
	}
	return nil
}

func (repo *Impl) Count() int64 {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	return int64(len(repo.byID))
}

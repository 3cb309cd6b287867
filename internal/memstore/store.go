// Package memstore é o repositório em memória usado pelos serviços de entidade.
//
// Os ids vêm de um contador monotônico do próprio store: um id removido nunca
// é reaproveitado. Os itens são guardados por valor; tipos com slices devem
// copiá-los antes de inserir.
package memstore

import (
	"errors"
	"sync"
)

// ErrConflict é devolvido por UpdateUnless quando outro item conflita.
var ErrConflict = errors.New("memstore: conflicting item")

type Store[T any] struct {
	mu     sync.RWMutex
	nextID int64
	order  []int64
	items  map[int64]T
}

func New[T any]() *Store[T] {
	return &Store[T]{items: make(map[int64]T)}
}

// Seed grava item com um id fixo e avança o contador para depois dele.
func (s *Store[T]) Seed(id int64, item T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[id]; !exists {
		s.order = append(s.order, id)
	}
	s.items[id] = item
	if id > s.nextID {
		s.nextID = id
	}
}

// Insert reserva o próximo id e grava o item construído por build.
func (s *Store[T]) Insert(build func(id int64) T) T {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	item := build(id)
	s.items[id] = item
	s.order = append(s.order, id)
	return item
}

// InsertUnless é Insert, exceto quando algum item já aceito por conflict existe.
// Nesse caso devolve o item conflitante e false.
func (s *Store[T]) InsertUnless(conflict func(T) bool, build func(id int64) T) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.order {
		if item := s.items[id]; conflict(item) {
			return item, false
		}
	}

	s.nextID++
	id := s.nextID
	item := build(id)
	s.items[id] = item
	s.order = append(s.order, id)
	return item, true
}

func (s *Store[T]) Get(id int64) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	return item, ok
}

// All devolve os itens na ordem de inserção.
func (s *Store[T]) All() []T {
	return s.Filter(nil)
}

// Filter devolve, na ordem de inserção, os itens aceitos por keep (nil aceita todos).
func (s *Store[T]) Filter(keep func(T) bool) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]T, 0, len(s.order))
	for _, id := range s.order {
		item := s.items[id]
		if keep == nil || keep(item) {
			out = append(out, item)
		}
	}
	return out
}

// Find devolve o primeiro item, na ordem de inserção, aceito por match.
func (s *Store[T]) Find(match func(T) bool) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.order {
		if item := s.items[id]; match(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Update aplica mutate ao item id sob o lock de escrita. Se mutate falha o
// item fica como estava.
func (s *Store[T]) Update(id int64, mutate func(*T) error) (T, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.updateLocked(id, mutate)
}

// UpdateFirst é Update sobre o primeiro item aceito por match.
func (s *Store[T]) UpdateFirst(match func(T) bool, mutate func(*T) error) (T, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.order {
		if match(s.items[id]) {
			return s.updateLocked(id, mutate)
		}
	}
	var zero T
	return zero, false, nil
}

// UpdateUnless é Update, exceto quando algum outro item aceito por conflict
// existe. Nesse caso o item fica como estava e o erro é ErrConflict.
func (s *Store[T]) UpdateUnless(id int64, conflict func(T) bool, mutate func(*T) error) (T, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.items[id]
	if !ok {
		var zero T
		return zero, false, nil
	}
	for _, oid := range s.order {
		if oid != id && conflict(s.items[oid]) {
			return current, true, ErrConflict
		}
	}
	return s.updateLocked(id, mutate)
}

func (s *Store[T]) updateLocked(id int64, mutate func(*T) error) (T, bool, error) {
	item, ok := s.items[id]
	if !ok {
		var zero T
		return zero, false, nil
	}
	if err := mutate(&item); err != nil {
		return s.items[id], true, err
	}
	s.items[id] = item
	return item, true, nil
}

func (s *Store[T]) Delete(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return false
	}
	delete(s.items, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

package repositories

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/Dosada05/arena/models"
)

// memoryData хранит все таблицы памяти. Строки лежат по значению,
// наружу отдаются только копии.
type memoryData struct {
	users         map[int]models.User
	games         map[int]models.Game
	tournaments   map[int]models.Tournament
	teams         map[int]models.Team
	teamMembers   map[int]models.TeamMember
	participants  map[int]models.TournamentParticipant
	transactions  map[int]models.Transaction
	notifications map[int]models.Notification
	results       map[int]models.TournamentResult

	nextID map[string]int
}

func newMemoryData() *memoryData {
	return &memoryData{
		users:         make(map[int]models.User),
		games:         make(map[int]models.Game),
		tournaments:   make(map[int]models.Tournament),
		teams:         make(map[int]models.Team),
		teamMembers:   make(map[int]models.TeamMember),
		participants:  make(map[int]models.TournamentParticipant),
		transactions:  make(map[int]models.Transaction),
		notifications: make(map[int]models.Notification),
		results:       make(map[int]models.TournamentResult),
		nextID:        make(map[string]int),
	}
}

func (d *memoryData) clone() *memoryData {
	return &memoryData{
		users:         maps.Clone(d.users),
		games:         maps.Clone(d.games),
		tournaments:   maps.Clone(d.tournaments),
		teams:         maps.Clone(d.teams),
		teamMembers:   maps.Clone(d.teamMembers),
		participants:  maps.Clone(d.participants),
		transactions:  maps.Clone(d.transactions),
		notifications: maps.Clone(d.notifications),
		results:       maps.Clone(d.results),
		nextID:        maps.Clone(d.nextID),
	}
}

func (d *memoryData) newID(table string) int {
	d.nextID[table]++
	return d.nextID[table]
}

// MemoryStore - реализация Store в памяти для демо-режима.
type MemoryStore struct {
	mu   *sync.RWMutex
	data *memoryData
	inTx bool
	now  func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		mu:   &sync.RWMutex{},
		data: newMemoryData(),
		now:  time.Now,
	}
}

func (s *MemoryStore) rlock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.RLock()
	return s.mu.RUnlock
}

func (s *MemoryStore) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *MemoryStore) Users() UserRepository                 { return &memoryUserRepository{s: s} }
func (s *MemoryStore) Games() GameRepository                 { return &memoryGameRepository{s: s} }
func (s *MemoryStore) Tournaments() TournamentRepository     { return &memoryTournamentRepository{s: s} }
func (s *MemoryStore) Teams() TeamRepository                 { return &memoryTeamRepository{s: s} }
func (s *MemoryStore) Participants() ParticipantRepository   { return &memoryParticipantRepository{s: s} }
func (s *MemoryStore) Transactions() TransactionRepository   { return &memoryTransactionRepository{s: s} }
func (s *MemoryStore) Notifications() NotificationRepository { return &memoryNotificationRepository{s: s} }
func (s *MemoryStore) Results() ResultRepository             { return &memoryResultRepository{s: s} }
func (s *MemoryStore) Stats() StatsRepository                { return &memoryStatsRepository{s: s} }

// WithTx держит блокировку на запись всё время fn и при ошибке
// восстанавливает снимок, снятый до вызова.
func (s *MemoryStore) WithTx(ctx context.Context, fn func(tx Store) error) (err error) {
	if s.inTx {
		return fn(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	defer func() {
		if p := recover(); p != nil {
			*s.data = *snapshot
			panic(p)
		}
		if err != nil {
			*s.data = *snapshot
		}
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(&MemoryStore{mu: s.mu, data: s.data, inTx: true, now: s.now})
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

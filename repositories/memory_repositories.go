package repositories

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"github.com/Dosada05/arena/models"
	"github.com/shopspring/decimal"
)

func page[T any](items []T, limit, offset int) []T {
	limit = normalizeLimit(limit, defaultListLimit, maxListLimit)
	offset = max(offset, 0)
	if offset >= len(items) {
		return items[:0]
	}
	return items[offset:min(offset+limit, len(items))]
}

// --- users ---

type memoryUserRepository struct{ s *MemoryStore }

func (r *memoryUserRepository) uniqueViolation(u *models.User) error {
	for _, other := range r.s.data.users {
		if other.ID == u.ID {
			continue
		}
		switch {
		case strings.EqualFold(other.Username, u.Username):
			return ErrUserUsernameConflict
		case strings.EqualFold(other.Email, u.Email):
			return ErrUserEmailConflict
		case other.ReferralCode == u.ReferralCode:
			return ErrUserReferralCodeTaken
		}
	}
	return nil
}

func (r *memoryUserRepository) Create(_ context.Context, user *models.User) error {
	defer r.s.lock()()
	if err := r.uniqueViolation(user); err != nil {
		return err
	}
	if user.ReferredBy != nil {
		if _, ok := r.s.data.users[*user.ReferredBy]; !ok {
			return ErrUserNotFound
		}
	}
	user.ID = r.s.data.newID("users")
	user.CreatedAt = r.s.now()
	user.WalletBalance = models.NewMoney(user.WalletBalance.Decimal)
	r.s.data.users[user.ID] = *user
	return nil
}

func (r *memoryUserRepository) find(match func(u models.User) bool) (*models.User, error) {
	defer r.s.rlock()()
	for _, u := range r.s.data.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *memoryUserRepository) GetByID(_ context.Context, id int) (*models.User, error) {
	defer r.s.rlock()()
	u, ok := r.s.data.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

func (r *memoryUserRepository) GetByUsername(_ context.Context, username string) (*models.User, error) {
	return r.find(func(u models.User) bool { return strings.EqualFold(u.Username, username) })
}

func (r *memoryUserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return r.find(func(u models.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r *memoryUserRepository) GetByReferralCode(_ context.Context, code string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.ReferralCode == code })
}

func (r *memoryUserRepository) sorted(match func(u models.User) bool) []*models.User {
	users := make([]*models.User, 0)
	for _, u := range r.s.data.users {
		if match(u) {
			users = append(users, &u)
		}
	}
	slices.SortFunc(users, func(a, b *models.User) int { return cmp.Compare(a.ID, b.ID) })
	return users
}

func (r *memoryUserRepository) List(_ context.Context, filter models.UserFilter) ([]*models.User, error) {
	defer r.s.rlock()()
	search := strings.ToLower(filter.Search)
	users := r.sorted(func(u models.User) bool {
		return search == "" ||
			strings.Contains(strings.ToLower(u.Username), search) ||
			strings.Contains(strings.ToLower(u.Email), search) ||
			strings.Contains(strings.ToLower(u.FullName), search)
	})
	return page(users, filter.Limit, filter.Offset), nil
}

func (r *memoryUserRepository) ListIDs(_ context.Context) ([]int, error) {
	defer r.s.rlock()()
	ids := make([]int, 0, len(r.s.data.users))
	for id := range r.s.data.users {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

func (r *memoryUserRepository) ListReferrals(_ context.Context, referrerID int) ([]*models.User, error) {
	defer r.s.rlock()()
	return r.sorted(func(u models.User) bool { return u.ReferredBy != nil && *u.ReferredBy == referrerID }), nil
}

func (r *memoryUserRepository) Update(_ context.Context, user *models.User) error {
	defer r.s.lock()()
	current, ok := r.s.data.users[user.ID]
	if !ok {
		return ErrUserNotFound
	}
	if err := r.uniqueViolation(user); err != nil {
		return err
	}
	current.Username = user.Username
	current.Email = user.Email
	current.FullName = user.FullName
	current.PasswordHash = user.PasswordHash
	current.IsAdmin = user.IsAdmin
	r.s.data.users[user.ID] = current
	return nil
}

func (r *memoryUserRepository) UpdateAvatarKey(_ context.Context, id int, key *string) error {
	defer r.s.lock()()
	u, ok := r.s.data.users[id]
	if !ok {
		return ErrUserNotFound
	}
	u.AvatarKey = key
	r.s.data.users[id] = u
	return nil
}

func (r *memoryUserRepository) UpdateWallet(_ context.Context, id int, delta decimal.Decimal) (models.Money, error) {
	defer r.s.lock()()
	u, ok := r.s.data.users[id]
	if !ok {
		return models.Money{}, ErrUserNotFound
	}
	next := models.NewMoney(u.WalletBalance.Decimal.Add(delta.Round(2)))
	if next.IsNegative() {
		return models.Money{}, ErrInsufficientFunds
	}
	u.WalletBalance = next
	r.s.data.users[id] = u
	return next, nil
}

func (r *memoryUserRepository) AddBonusCoins(_ context.Context, id int, coins int) error {
	defer r.s.lock()()
	u, ok := r.s.data.users[id]
	if !ok {
		return ErrUserNotFound
	}
	u.BonusCoins += coins
	r.s.data.users[id] = u
	return nil
}

func (r *memoryUserRepository) Leaderboard(_ context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	defer r.s.rlock()()
	entries := make([]*models.LeaderboardEntry, 0)
	for _, u := range r.s.data.users {
		if u.IsAdmin {
			continue
		}
		entries = append(entries, &models.LeaderboardEntry{
			UserID:        u.ID,
			Username:      u.Username,
			AvatarKey:     u.AvatarKey,
			WalletBalance: u.WalletBalance,
			BonusCoins:    u.BonusCoins,
			Score:         models.NewMoney(u.WalletBalance.Decimal.Add(decimal.NewFromInt(int64(u.BonusCoins)))),
		})
	}
	slices.SortFunc(entries, func(a, b *models.LeaderboardEntry) int {
		if c := b.Score.Cmp(a.Score.Decimal); c != 0 {
			return c
		}
		return cmp.Compare(a.UserID, b.UserID)
	})
	if limit >= 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	for i, e := range entries {
		e.Rank = i + 1
	}
	return entries, nil
}

func (r *memoryUserRepository) Count(_ context.Context) (int, error) {
	defer r.s.rlock()()
	return len(r.s.data.users), nil
}

// --- games ---

type memoryGameRepository struct{ s *MemoryStore }

func (r *memoryGameRepository) slugTaken(g *models.Game) bool {
	for _, other := range r.s.data.games {
		if other.ID != g.ID && other.Slug == g.Slug {
			return true
		}
	}
	return false
}

func (r *memoryGameRepository) Create(_ context.Context, game *models.Game) error {
	defer r.s.lock()()
	if r.slugTaken(game) {
		return ErrGameSlugConflict
	}
	game.ID = r.s.data.newID("games")
	game.CreatedAt = r.s.now()
	r.s.data.games[game.ID] = *game
	return nil
}

func (r *memoryGameRepository) GetByID(_ context.Context, id int) (*models.Game, error) {
	defer r.s.rlock()()
	g, ok := r.s.data.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}
	return &g, nil
}

func (r *memoryGameRepository) List(_ context.Context, activeOnly bool) ([]*models.Game, error) {
	defer r.s.rlock()()
	games := make([]*models.Game, 0)
	for _, g := range r.s.data.games {
		if activeOnly && !g.IsActive {
			continue
		}
		games = append(games, &g)
	}
	slices.SortFunc(games, func(a, b *models.Game) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})
	return games, nil
}

func (r *memoryGameRepository) Update(_ context.Context, game *models.Game) error {
	defer r.s.lock()()
	current, ok := r.s.data.games[game.ID]
	if !ok {
		return ErrGameNotFound
	}
	if r.slugTaken(game) {
		return ErrGameSlugConflict
	}
	game.CreatedAt = current.CreatedAt
	r.s.data.games[game.ID] = *game
	return nil
}

func (r *memoryGameRepository) Delete(_ context.Context, id int) error {
	defer r.s.lock()()
	if _, ok := r.s.data.games[id]; !ok {
		return ErrGameNotFound
	}
	for _, t := range r.s.data.tournaments {
		if t.GameID == id {
			return ErrGameInUse
		}
	}
	delete(r.s.data.games, id)
	return nil
}

// --- tournaments ---

type memoryTournamentRepository struct{ s *MemoryStore }

func sortTournaments(items []*models.Tournament) {
	slices.SortFunc(items, func(a, b *models.Tournament) int {
		return cmp.Or(a.StartTime.Compare(b.StartTime), cmp.Compare(a.ID, b.ID))
	})
}

func (r *memoryTournamentRepository) Create(_ context.Context, t *models.Tournament) error {
	defer r.s.lock()()
	if _, ok := r.s.data.games[t.GameID]; !ok {
		return ErrTournamentGameInvalid
	}
	t.ID = r.s.data.newID("tournaments")
	t.CreatedAt = r.s.now()
	r.s.data.tournaments[t.ID] = *t
	return nil
}

func (r *memoryTournamentRepository) GetByID(_ context.Context, id int) (*models.Tournament, error) {
	defer r.s.rlock()()
	t, ok := r.s.data.tournaments[id]
	if !ok {
		return nil, ErrTournamentNotFound
	}
	return &t, nil
}

func (r *memoryTournamentRepository) List(_ context.Context, filter models.TournamentFilter) ([]*models.Tournament, error) {
	defer r.s.rlock()()
	items := make([]*models.Tournament, 0)
	for _, t := range r.s.data.tournaments {
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		if filter.GameID != nil && t.GameID != *filter.GameID {
			continue
		}
		items = append(items, &t)
	}
	sortTournaments(items)
	return page(items, filter.Limit, filter.Offset), nil
}

func (r *memoryTournamentRepository) Update(_ context.Context, t *models.Tournament) error {
	defer r.s.lock()()
	current, ok := r.s.data.tournaments[t.ID]
	if !ok {
		return ErrTournamentNotFound
	}
	if _, ok := r.s.data.games[t.GameID]; !ok {
		return ErrTournamentGameInvalid
	}
	current.Title = t.Title
	current.Description = t.Description
	current.GameID = t.GameID
	current.EntryFee = t.EntryFee
	current.PrizePool = t.PrizePool
	current.MaxParticipants = t.MaxParticipants
	current.Status = t.Status
	current.StartTime = t.StartTime
	current.EndTime = t.EndTime
	current.Rules = t.Rules
	r.s.data.tournaments[t.ID] = current
	return nil
}

func (r *memoryTournamentRepository) UpdateBannerKey(_ context.Context, id int, key *string) error {
	defer r.s.lock()()
	t, ok := r.s.data.tournaments[id]
	if !ok {
		return ErrTournamentNotFound
	}
	t.BannerKey = key
	r.s.data.tournaments[id] = t
	return nil
}

func (r *memoryTournamentRepository) Delete(_ context.Context, id int) error {
	defer r.s.lock()()
	if _, ok := r.s.data.tournaments[id]; !ok {
		return ErrTournamentNotFound
	}
	delete(r.s.data.tournaments, id)
	for pid, p := range r.s.data.participants {
		if p.TournamentID == id {
			delete(r.s.data.participants, pid)
		}
	}
	for rid, res := range r.s.data.results {
		if res.TournamentID == id {
			delete(r.s.data.results, rid)
		}
	}
	for txID, tx := range r.s.data.transactions {
		if tx.TournamentID != nil && *tx.TournamentID == id {
			tx.TournamentID = nil
			r.s.data.transactions[txID] = tx
		}
	}
	return nil
}

func (r *memoryTournamentRepository) IncrementParticipants(_ context.Context, id int) error {
	defer r.s.lock()()
	t, ok := r.s.data.tournaments[id]
	if !ok {
		return ErrTournamentNotFound
	}
	if t.CurrentParticipants >= t.MaxParticipants {
		return ErrTournamentFull
	}
	t.CurrentParticipants++
	r.s.data.tournaments[id] = t
	return nil
}

func (r *memoryTournamentRepository) ListDueForStatusUpdate(_ context.Context, now time.Time) ([]*models.Tournament, error) {
	defer r.s.rlock()()
	items := make([]*models.Tournament, 0)
	for _, t := range r.s.data.tournaments {
		due := (t.Status == models.StatusUpcoming && !t.StartTime.After(now)) ||
			(t.Status == models.StatusLive && t.EndTime != nil && !t.EndTime.After(now))
		if due {
			items = append(items, &t)
		}
	}
	slices.SortFunc(items, func(a, b *models.Tournament) int { return cmp.Compare(a.ID, b.ID) })
	return items, nil
}

// --- teams ---

type memoryTeamRepository struct{ s *MemoryStore }

func (r *memoryTeamRepository) uniqueViolation(team *models.Team) error {
	for _, other := range r.s.data.teams {
		if other.ID == team.ID {
			continue
		}
		if strings.EqualFold(other.Name, team.Name) {
			return ErrTeamNameConflict
		}
		if other.JoinCode == team.JoinCode {
			return ErrTeamJoinCodeConflict
		}
	}
	return nil
}

func (r *memoryTeamRepository) Create(_ context.Context, team *models.Team) error {
	defer r.s.lock()()
	if _, ok := r.s.data.users[team.CaptainID]; !ok {
		return ErrUserNotFound
	}
	if err := r.uniqueViolation(team); err != nil {
		return err
	}
	team.ID = r.s.data.newID("teams")
	team.CreatedAt = r.s.now()
	r.s.data.teams[team.ID] = *team
	return nil
}

func (r *memoryTeamRepository) GetByID(_ context.Context, id int) (*models.Team, error) {
	defer r.s.rlock()()
	t, ok := r.s.data.teams[id]
	if !ok {
		return nil, ErrTeamNotFound
	}
	return &t, nil
}

func (r *memoryTeamRepository) GetByJoinCode(_ context.Context, code string) (*models.Team, error) {
	defer r.s.rlock()()
	for _, t := range r.s.data.teams {
		if t.JoinCode == code {
			return &t, nil
		}
	}
	return nil, ErrTeamNotFound
}

func (r *memoryTeamRepository) collect(match func(t models.Team) bool) []*models.Team {
	teams := make([]*models.Team, 0)
	for _, t := range r.s.data.teams {
		if match(t) {
			teams = append(teams, &t)
		}
	}
	slices.SortFunc(teams, func(a, b *models.Team) int { return cmp.Compare(a.ID, b.ID) })
	return teams
}

func (r *memoryTeamRepository) List(_ context.Context) ([]*models.Team, error) {
	defer r.s.rlock()()
	return r.collect(func(models.Team) bool { return true }), nil
}

func (r *memoryTeamRepository) ListByUser(_ context.Context, userID int) ([]*models.Team, error) {
	defer r.s.rlock()()
	memberOf := make(map[int]bool)
	for _, m := range r.s.data.teamMembers {
		if m.UserID == userID {
			memberOf[m.TeamID] = true
		}
	}
	return r.collect(func(t models.Team) bool { return memberOf[t.ID] }), nil
}

func (r *memoryTeamRepository) Update(_ context.Context, team *models.Team) error {
	defer r.s.lock()()
	current, ok := r.s.data.teams[team.ID]
	if !ok {
		return ErrTeamNotFound
	}
	probe := current
	probe.Name = team.Name
	if err := r.uniqueViolation(&probe); err != nil {
		return err
	}
	current.Name = team.Name
	current.MaxMembers = team.MaxMembers
	current.Wins = team.Wins
	current.MatchesPlayed = team.MatchesPlayed
	r.s.data.teams[team.ID] = current
	return nil
}

func (r *memoryTeamRepository) Delete(_ context.Context, id int) error {
	defer r.s.lock()()
	if _, ok := r.s.data.teams[id]; !ok {
		return ErrTeamNotFound
	}
	delete(r.s.data.teams, id)
	for mid, m := range r.s.data.teamMembers {
		if m.TeamID == id {
			delete(r.s.data.teamMembers, mid)
		}
	}
	for pid, p := range r.s.data.participants {
		if p.TeamID != nil && *p.TeamID == id {
			p.TeamID = nil
			r.s.data.participants[pid] = p
		}
	}
	for rid, res := range r.s.data.results {
		if res.TeamID != nil && *res.TeamID == id {
			res.TeamID = nil
			r.s.data.results[rid] = res
		}
	}
	return nil
}

func (r *memoryTeamRepository) IncrementMembers(_ context.Context, id int) error {
	defer r.s.lock()()
	t, ok := r.s.data.teams[id]
	if !ok {
		return ErrTeamNotFound
	}
	if t.CurrentMembers >= t.MaxMembers {
		return ErrTeamFull
	}
	t.CurrentMembers++
	r.s.data.teams[id] = t
	return nil
}

func (r *memoryTeamRepository) AddMember(_ context.Context, member *models.TeamMember) error {
	defer r.s.lock()()
	if _, ok := r.s.data.teams[member.TeamID]; !ok {
		return ErrTeamNotFound
	}
	if _, ok := r.s.data.users[member.UserID]; !ok {
		return ErrUserNotFound
	}
	for _, m := range r.s.data.teamMembers {
		if m.TeamID == member.TeamID && m.UserID == member.UserID {
			return ErrAlreadyMember
		}
	}
	member.ID = r.s.data.newID("team_members")
	member.JoinedAt = r.s.now()
	r.s.data.teamMembers[member.ID] = *member
	return nil
}

func (r *memoryTeamRepository) GetMember(_ context.Context, teamID, userID int) (*models.TeamMember, error) {
	defer r.s.rlock()()
	for _, m := range r.s.data.teamMembers {
		if m.TeamID == teamID && m.UserID == userID {
			return &m, nil
		}
	}
	return nil, ErrTeamMemberNotFound
}

func (r *memoryTeamRepository) ListMembers(_ context.Context, teamID int) ([]*models.TeamMember, error) {
	defer r.s.rlock()()
	members := make([]*models.TeamMember, 0)
	for _, m := range r.s.data.teamMembers {
		if m.TeamID == teamID {
			members = append(members, &m)
		}
	}
	slices.SortFunc(members, func(a, b *models.TeamMember) int { return cmp.Compare(a.ID, b.ID) })
	return members, nil
}

// --- participants ---

type memoryParticipantRepository struct{ s *MemoryStore }

func (r *memoryParticipantRepository) Create(_ context.Context, p *models.TournamentParticipant) error {
	defer r.s.lock()()
	if _, ok := r.s.data.tournaments[p.TournamentID]; !ok {
		return ErrTournamentNotFound
	}
	if _, ok := r.s.data.users[p.UserID]; !ok {
		return ErrUserNotFound
	}
	if p.TeamID != nil {
		if _, ok := r.s.data.teams[*p.TeamID]; !ok {
			return ErrTeamNotFound
		}
	}
	for _, other := range r.s.data.participants {
		if other.TournamentID == p.TournamentID && other.UserID == p.UserID {
			return ErrAlreadyJoined
		}
	}
	p.ID = r.s.data.newID("participants")
	p.JoinedAt = r.s.now()
	r.s.data.participants[p.ID] = *p
	return nil
}

func (r *memoryParticipantRepository) Get(_ context.Context, tournamentID, userID int) (*models.TournamentParticipant, error) {
	defer r.s.rlock()()
	for _, p := range r.s.data.participants {
		if p.TournamentID == tournamentID && p.UserID == userID {
			return &p, nil
		}
	}
	return nil, ErrParticipantNotFound
}

func (r *memoryParticipantRepository) ListByTournament(_ context.Context, tournamentID int) ([]*models.TournamentParticipant, error) {
	defer r.s.rlock()()
	items := make([]*models.TournamentParticipant, 0)
	for _, p := range r.s.data.participants {
		if p.TournamentID == tournamentID {
			items = append(items, &p)
		}
	}
	slices.SortFunc(items, func(a, b *models.TournamentParticipant) int { return cmp.Compare(a.ID, b.ID) })
	return items, nil
}

func (r *memoryParticipantRepository) ListTournamentsByUser(_ context.Context, userID int) ([]*models.Tournament, error) {
	defer r.s.rlock()()
	items := make([]*models.Tournament, 0)
	for _, p := range r.s.data.participants {
		if p.UserID != userID {
			continue
		}
		if t, ok := r.s.data.tournaments[p.TournamentID]; ok {
			items = append(items, &t)
		}
	}
	sortTournaments(items)
	return items, nil
}

func (r *memoryParticipantRepository) Count(_ context.Context) (int, error) {
	defer r.s.rlock()()
	return len(r.s.data.participants), nil
}

// --- transactions ---

type memoryTransactionRepository struct{ s *MemoryStore }

func (r *memoryTransactionRepository) Create(_ context.Context, t *models.Transaction) error {
	defer r.s.lock()()
	if _, ok := r.s.data.users[t.UserID]; !ok {
		return ErrUserNotFound
	}
	if t.TournamentID != nil {
		if _, ok := r.s.data.tournaments[*t.TournamentID]; !ok {
			return ErrTournamentNotFound
		}
	}
	if t.Reference != nil {
		for _, other := range r.s.data.transactions {
			if other.UserID == t.UserID && other.Reference != nil && *other.Reference == *t.Reference {
				return ErrDuplicateReference
			}
		}
	}
	t.ID = r.s.data.newID("transactions")
	t.CreatedAt = r.s.now()
	t.Amount = models.NewMoney(t.Amount.Decimal)
	r.s.data.transactions[t.ID] = *t
	return nil
}

func (r *memoryTransactionRepository) GetByReference(_ context.Context, userID int, reference string) (*models.Transaction, error) {
	defer r.s.rlock()()
	for _, t := range r.s.data.transactions {
		if t.UserID == userID && t.Reference != nil && *t.Reference == reference {
			return &t, nil
		}
	}
	return nil, ErrTransactionNotFound
}

func (r *memoryTransactionRepository) List(_ context.Context, filter models.TransactionFilter) ([]*models.Transaction, error) {
	defer r.s.rlock()()
	items := make([]*models.Transaction, 0)
	for _, t := range r.s.data.transactions {
		if filter.UserID != nil && t.UserID != *filter.UserID {
			continue
		}
		if filter.Type != nil && t.Type != *filter.Type {
			continue
		}
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		items = append(items, &t)
	}
	slices.SortFunc(items, func(a, b *models.Transaction) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(b.ID, a.ID))
	})
	return page(items, filter.Limit, filter.Offset), nil
}

// --- notifications ---

type memoryNotificationRepository struct{ s *MemoryStore }

func (r *memoryNotificationRepository) Create(_ context.Context, n *models.Notification) error {
	defer r.s.lock()()
	if _, ok := r.s.data.users[n.UserID]; !ok {
		return ErrUserNotFound
	}
	n.ID = r.s.data.newID("notifications")
	n.CreatedAt = r.s.now()
	r.s.data.notifications[n.ID] = *n
	return nil
}

func (r *memoryNotificationRepository) GetByID(_ context.Context, id int) (*models.Notification, error) {
	defer r.s.rlock()()
	n, ok := r.s.data.notifications[id]
	if !ok {
		return nil, ErrNotificationNotFound
	}
	return &n, nil
}

func (r *memoryNotificationRepository) ListByUser(_ context.Context, userID int, unreadOnly bool) ([]*models.Notification, error) {
	defer r.s.rlock()()
	items := make([]*models.Notification, 0)
	for _, n := range r.s.data.notifications {
		if n.UserID != userID || (unreadOnly && n.Read) {
			continue
		}
		items = append(items, &n)
	}
	slices.SortFunc(items, func(a, b *models.Notification) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(b.ID, a.ID))
	})
	return items, nil
}

func (r *memoryNotificationRepository) MarkRead(_ context.Context, id int) error {
	defer r.s.lock()()
	n, ok := r.s.data.notifications[id]
	if !ok {
		return ErrNotificationNotFound
	}
	n.Read = true
	r.s.data.notifications[id] = n
	return nil
}

func (r *memoryNotificationRepository) MarkAllRead(_ context.Context, userID int) (int, error) {
	defer r.s.lock()()
	marked := 0
	for id, n := range r.s.data.notifications {
		if n.UserID == userID && !n.Read {
			n.Read = true
			r.s.data.notifications[id] = n
			marked++
		}
	}
	return marked, nil
}

// --- results ---

type memoryResultRepository struct{ s *MemoryStore }

func (r *memoryResultRepository) Create(_ context.Context, res *models.TournamentResult) error {
	defer r.s.lock()()
	if _, ok := r.s.data.tournaments[res.TournamentID]; !ok {
		return ErrTournamentNotFound
	}
	if _, ok := r.s.data.users[res.UserID]; !ok {
		return ErrUserNotFound
	}
	for _, other := range r.s.data.results {
		if other.TournamentID == res.TournamentID && other.UserID == res.UserID {
			return ErrResultConflict
		}
	}
	res.ID = r.s.data.newID("results")
	res.CreatedAt = r.s.now()
	r.s.data.results[res.ID] = *res
	return nil
}

func (r *memoryResultRepository) ListByTournament(_ context.Context, tournamentID int) ([]*models.TournamentResult, error) {
	defer r.s.rlock()()
	items := make([]*models.TournamentResult, 0)
	for _, res := range r.s.data.results {
		if res.TournamentID == tournamentID {
			items = append(items, &res)
		}
	}
	slices.SortFunc(items, func(a, b *models.TournamentResult) int {
		return cmp.Or(cmp.Compare(a.Position, b.Position), cmp.Compare(a.ID, b.ID))
	})
	return items, nil
}

func (r *memoryResultRepository) CountByTournament(_ context.Context, tournamentID int) (int, error) {
	defer r.s.rlock()()
	n := 0
	for _, res := range r.s.data.results {
		if res.TournamentID == tournamentID {
			n++
		}
	}
	return n, nil
}

// --- stats ---

type memoryStatsRepository struct{ s *MemoryStore }

func (r *memoryStatsRepository) CountTournamentsByStatus(_ context.Context) (map[models.TournamentStatus]int, error) {
	defer r.s.rlock()()
	counts := map[models.TournamentStatus]int{
		models.StatusUpcoming: 0,
		models.StatusLive:     0,
		models.StatusEnded:    0,
	}
	for _, t := range r.s.data.tournaments {
		counts[t.Status]++
	}
	return counts, nil
}

func (r *memoryStatsRepository) SumTransactions(_ context.Context, txType models.TransactionType) (models.Money, error) {
	defer r.s.rlock()()
	sum := decimal.Zero
	for _, t := range r.s.data.transactions {
		if t.Type == txType && t.Status == models.TxCompleted {
			sum = sum.Add(t.Amount.Decimal)
		}
	}
	return models.NewMoney(sum), nil
}

func (r *memoryStatsRepository) CountTeams(_ context.Context) (int, error) {
	defer r.s.rlock()()
	return len(r.s.data.teams), nil
}

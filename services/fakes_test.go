package services

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/cuearena/tournament-engine/models"
	"github.com/cuearena/tournament-engine/repositories"
)

// The service layer owns transaction boundaries, so the fakes below are
// backed by plain maps and a stub driver stands in for the database. Begin,
// Commit and Rollback are accepted and ignored; any real query through the
// pool fails loudly.

type stubDriver struct{}

func (stubDriver) Open(string) (driver.Conn, error) { return stubConn{}, nil }

type stubConn struct{}

func (stubConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("no real statements in tests") }
func (stubConn) Close() error                        { return nil }
func (stubConn) Begin() (driver.Tx, error)           { return stubTx{}, nil }

type stubTx struct{}

func (stubTx) Commit() error   { return nil }
func (stubTx) Rollback() error { return nil }

var registerStubDriver sync.Once

func openStubDB(t *testing.T) *sql.DB {
	t.Helper()
	registerStubDriver.Do(func() {
		sql.Register("servicestub", stubDriver{})
	})
	db, err := sql.Open("servicestub", "")
	if err != nil {
		t.Fatalf("failed to open stub db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

type fakeUserRepo struct {
	users map[int]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int]*models.User)}
}

func (r *fakeUserRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) UpdateRating(_ context.Context, _ repositories.SQLExecutor, id int, rating int) error {
	u, ok := r.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.Rating = rating
	return nil
}

type fakeTournamentRepo struct {
	nextID      int
	tournaments map[int]*models.Tournament
}

func newFakeTournamentRepo() *fakeTournamentRepo {
	return &fakeTournamentRepo{nextID: 1, tournaments: make(map[int]*models.Tournament)}
}

func (r *fakeTournamentRepo) Create(_ context.Context, _ repositories.SQLExecutor, t *models.Tournament) error {
	for _, existing := range r.tournaments {
		if existing.Name == t.Name {
			return repositories.ErrTournamentNameConflict
		}
	}
	t.ID = r.nextID
	r.nextID++
	t.CreatedAt = time.Now().UTC()
	r.tournaments[t.ID] = t
	return nil
}

func (r *fakeTournamentRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Tournament, error) {
	t, ok := r.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	return t, nil
}

func (r *fakeTournamentRepo) GetByIDForUpdate(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Tournament, error) {
	return r.GetByID(ctx, exec, id)
}

func (r *fakeTournamentRepo) UpdateStatus(_ context.Context, _ repositories.SQLExecutor, id int, status models.TournamentStatus) error {
	t, ok := r.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.Status = status
	return nil
}

func (r *fakeTournamentRepo) UpdateCounts(_ context.Context, _ repositories.SQLExecutor, id int, participants, matches int) error {
	t, ok := r.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.ParticipantsCount = participants
	t.MatchesCount = matches
	return nil
}

func (r *fakeTournamentRepo) List(_ context.Context, statusFilter *models.TournamentStatus, limit, offset int) ([]*models.Tournament, error) {
	out := make([]*models.Tournament, 0)
	for _, t := range r.tournaments {
		if statusFilter != nil && t.Status != *statusFilter {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeParticipantRepo struct {
	nextID       int
	participants map[int]*models.Participant
}

func newFakeParticipantRepo() *fakeParticipantRepo {
	return &fakeParticipantRepo{nextID: 1, participants: make(map[int]*models.Participant)}
}

func (r *fakeParticipantRepo) Create(_ context.Context, _ repositories.SQLExecutor, p *models.Participant) error {
	for _, existing := range r.participants {
		if existing.TournamentID == p.TournamentID && existing.PlayerID == p.PlayerID {
			return repositories.ErrParticipantConflict
		}
	}
	p.ID = r.nextID
	r.nextID++
	p.CreatedAt = time.Now().UTC()
	r.participants[p.ID] = p
	return nil
}

func (r *fakeParticipantRepo) FindByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Participant, error) {
	p, ok := r.participants[id]
	if !ok {
		return nil, repositories.ErrParticipantNotFound
	}
	return p, nil
}

func (r *fakeParticipantRepo) FindByPlayerAndTournament(_ context.Context, _ repositories.SQLExecutor, playerID, tournamentID int) (*models.Participant, error) {
	for _, p := range r.participants {
		if p.PlayerID == playerID && p.TournamentID == tournamentID {
			return p, nil
		}
	}
	return nil, repositories.ErrParticipantNotFound
}

func (r *fakeParticipantRepo) ListByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID int, statusFilter *models.ParticipantStatus) ([]*models.Participant, error) {
	out := make([]*models.Participant, 0)
	for _, p := range r.participants {
		if p.TournamentID != tournamentID {
			continue
		}
		if statusFilter != nil && p.Status != *statusFilter {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeParticipantRepo) CountByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) (int, error) {
	list, _ := r.ListByTournament(ctx, exec, tournamentID, nil)
	return len(list), nil
}

func (r *fakeParticipantRepo) UpdateStatus(_ context.Context, _ repositories.SQLExecutor, id int, status models.ParticipantStatus) error {
	p, ok := r.participants[id]
	if !ok {
		return repositories.ErrParticipantNotFound
	}
	p.Status = status
	return nil
}

func (r *fakeParticipantRepo) UpdateSeed(_ context.Context, _ repositories.SQLExecutor, id int, seed int) error {
	p, ok := r.participants[id]
	if !ok {
		return repositories.ErrParticipantNotFound
	}
	for _, other := range r.participants {
		if other.ID != id && other.TournamentID == p.TournamentID && other.Seed != nil && *other.Seed == seed {
			return repositories.ErrParticipantSeedTaken
		}
	}
	p.Seed = &seed
	return nil
}

func (r *fakeParticipantRepo) UpdatePaymentStatus(_ context.Context, _ repositories.SQLExecutor, id int, status models.PaymentStatus) error {
	p, ok := r.participants[id]
	if !ok {
		return repositories.ErrParticipantNotFound
	}
	p.PaymentStatus = status
	return nil
}

func (r *fakeParticipantRepo) ApplyMatchOutcome(_ context.Context, _ repositories.SQLExecutor, id int, framesWon, framesLost int, won bool) error {
	p, ok := r.participants[id]
	if !ok {
		return repositories.ErrParticipantNotFound
	}
	p.MatchesPlayed++
	if won {
		p.MatchesWon++
	} else {
		p.MatchesLost++
	}
	p.FramesWon += framesWon
	p.FramesLost += framesLost
	p.Points += framesWon
	return nil
}

func (r *fakeParticipantRepo) SetFinalPosition(_ context.Context, _ repositories.SQLExecutor, id int, position int) error {
	p, ok := r.participants[id]
	if !ok {
		return repositories.ErrParticipantNotFound
	}
	p.FinalPosition = &position
	return nil
}

func (r *fakeParticipantRepo) Delete(_ context.Context, _ repositories.SQLExecutor, id int) error {
	if _, ok := r.participants[id]; !ok {
		return repositories.ErrParticipantNotFound
	}
	delete(r.participants, id)
	return nil
}

type fakeMatchRepo struct {
	nextID  int
	matches map[int]*models.Match
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{nextID: 1, matches: make(map[int]*models.Match)}
}

func (r *fakeMatchRepo) Create(_ context.Context, _ repositories.SQLExecutor, m *models.Match) error {
	m.ID = r.nextID
	r.nextID++
	m.CreatedAt = time.Now().UTC()
	r.matches[m.ID] = m
	return nil
}

func (r *fakeMatchRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Match, error) {
	m, ok := r.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	return m, nil
}

func (r *fakeMatchRepo) GetByIDForUpdate(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Match, error) {
	return r.GetByID(ctx, exec, id)
}

func (r *fakeMatchRepo) Update(_ context.Context, _ repositories.SQLExecutor, m *models.Match) error {
	if _, ok := r.matches[m.ID]; !ok {
		return repositories.ErrMatchNotFound
	}
	r.matches[m.ID] = m
	return nil
}

func (r *fakeMatchRepo) SetPlayerSlot(_ context.Context, _ repositories.SQLExecutor, id int, slot string, participantID int) error {
	m, ok := r.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	pid := participantID
	if slot == models.SlotPlayer1 {
		m.Player1ID = &pid
	} else {
		m.Player2ID = &pid
	}
	return nil
}

func (r *fakeMatchRepo) UpdateNextMatchLink(_ context.Context, _ repositories.SQLExecutor, id int, nextMatchID *int, slot *string) error {
	m, ok := r.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.NextMatchID = nextMatchID
	m.NextMatchSlot = slot
	return nil
}

func (r *fakeMatchRepo) ListByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID int, statusFilter *models.MatchStatus) ([]*models.Match, error) {
	out := make([]*models.Match, 0)
	for _, m := range r.matches {
		if m.TournamentID != tournamentID {
			continue
		}
		if statusFilter != nil && m.Status != *statusFilter {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RoundNumber != out[j].RoundNumber {
			return out[i].RoundNumber < out[j].RoundNumber
		}
		return out[i].BracketPosition < out[j].BracketPosition
	})
	return out, nil
}

func (r *fakeMatchRepo) ListGroupMatches(ctx context.Context, exec repositories.SQLExecutor, tournamentID, groupNumber int) ([]*models.Match, error) {
	all, _ := r.ListByTournament(ctx, exec, tournamentID, nil)
	out := make([]*models.Match, 0)
	for _, m := range all {
		if m.GroupNumber != nil && *m.GroupNumber == groupNumber {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMatchRepo) ListOverdueIDs(_ context.Context, status models.MatchStatus, deadlineColumn string, now time.Time) ([]int, error) {
	ids := make([]int, 0)
	for _, m := range r.matches {
		if m.Status != status {
			continue
		}
		var deadline *time.Time
		switch deadlineColumn {
		case "deadline_at":
			deadline = m.DeadlineAt
		case "confirmation_deadline_at":
			deadline = m.ConfirmationDeadlineAt
		default:
			return nil, fmt.Errorf("unknown deadline column %q", deadlineColumn)
		}
		if deadline != nil && deadline.Before(now) {
			ids = append(ids, m.ID)
		}
	}
	sort.Ints(ids)
	return ids, nil
}

func (r *fakeMatchRepo) GetByType(_ context.Context, _ repositories.SQLExecutor, tournamentID int, matchType models.MatchType) (*models.Match, error) {
	for _, m := range r.matches {
		if m.TournamentID == tournamentID && m.MatchType == matchType {
			return m, nil
		}
	}
	return nil, repositories.ErrMatchNotFound
}

func (r *fakeMatchRepo) CountUnfinished(_ context.Context, _ repositories.SQLExecutor, tournamentID int) (int, error) {
	count := 0
	for _, m := range r.matches {
		if m.TournamentID == tournamentID && !m.Status.IsTerminal() {
			count++
		}
	}
	return count, nil
}

type fakeHistoryRepo struct {
	matchHistory  []*models.PlayerMatchHistory
	ratingHistory []*models.PlayerRatingHistory
}

func newFakeHistoryRepo() *fakeHistoryRepo { return &fakeHistoryRepo{} }

func (r *fakeHistoryRepo) InsertMatchHistory(_ context.Context, _ repositories.SQLExecutor, h *models.PlayerMatchHistory) error {
	r.matchHistory = append(r.matchHistory, h)
	return nil
}

func (r *fakeHistoryRepo) InsertRatingHistory(_ context.Context, _ repositories.SQLExecutor, h *models.PlayerRatingHistory) error {
	r.ratingHistory = append(r.ratingHistory, h)
	return nil
}

func (r *fakeHistoryRepo) ListMatchHistoryByPlayer(_ context.Context, playerID int, limit, offset int) ([]*models.PlayerMatchHistory, error) {
	out := make([]*models.PlayerMatchHistory, 0)
	for _, h := range r.matchHistory {
		if h.PlayerID == playerID {
			out = append(out, h)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeWalletRepo struct {
	nextID       int
	wallets      map[int]*models.OrganizerWallet
	transactions []*models.WalletTransaction
}

func newFakeWalletRepo() *fakeWalletRepo {
	return &fakeWalletRepo{nextID: 1, wallets: make(map[int]*models.OrganizerWallet)}
}

func (r *fakeWalletRepo) Create(_ context.Context, _ repositories.SQLExecutor, w *models.OrganizerWallet) error {
	if _, ok := r.wallets[w.OrganizerID]; ok {
		return repositories.ErrWalletConflict
	}
	w.ID = r.nextID
	r.nextID++
	w.CreatedAt = time.Now().UTC()
	r.wallets[w.OrganizerID] = w
	return nil
}

func (r *fakeWalletRepo) GetByOrganizer(_ context.Context, _ repositories.SQLExecutor, organizerID int) (*models.OrganizerWallet, error) {
	w, ok := r.wallets[organizerID]
	if !ok {
		return nil, repositories.ErrWalletNotFound
	}
	return w, nil
}

func (r *fakeWalletRepo) GetByOrganizerForUpdate(ctx context.Context, exec repositories.SQLExecutor, organizerID int) (*models.OrganizerWallet, error) {
	return r.GetByOrganizer(ctx, exec, organizerID)
}

func (r *fakeWalletRepo) UpdateBalances(_ context.Context, _ repositories.SQLExecutor, w *models.OrganizerWallet) error {
	stored, ok := r.wallets[w.OrganizerID]
	if !ok {
		return repositories.ErrWalletNotFound
	}
	stored.Balance = w.Balance
	stored.PendingBalance = w.PendingBalance
	stored.TotalEarned = w.TotalEarned
	stored.TotalWithdrawn = w.TotalWithdrawn
	return nil
}

func (r *fakeWalletRepo) InsertTransaction(_ context.Context, _ repositories.SQLExecutor, txn *models.WalletTransaction) error {
	txn.ID = len(r.transactions) + 1
	txn.CreatedAt = time.Now().UTC()
	r.transactions = append(r.transactions, txn)
	return nil
}

func (r *fakeWalletRepo) ListTransactions(_ context.Context, walletID int, limit, offset int) ([]*models.WalletTransaction, error) {
	out := make([]*models.WalletTransaction, 0)
	for _, txn := range r.transactions {
		if txn.WalletID == walletID {
			out = append(out, txn)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakePayoutRepo struct {
	nextID       int
	nextMethodID int
	payouts      map[int]*models.PayoutRequest
	methods      map[int]*models.PayoutMethod
}

func newFakePayoutRepo() *fakePayoutRepo {
	return &fakePayoutRepo{
		nextID:       1,
		nextMethodID: 1,
		payouts:      make(map[int]*models.PayoutRequest),
		methods:      make(map[int]*models.PayoutMethod),
	}
}

func (r *fakePayoutRepo) Create(_ context.Context, _ repositories.SQLExecutor, p *models.PayoutRequest) error {
	p.ID = r.nextID
	r.nextID++
	p.CreatedAt = time.Now().UTC()
	r.payouts[p.ID] = p
	return nil
}

func (r *fakePayoutRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.PayoutRequest, error) {
	p, ok := r.payouts[id]
	if !ok {
		return nil, repositories.ErrPayoutNotFound
	}
	return p, nil
}

func (r *fakePayoutRepo) GetByIDForUpdate(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.PayoutRequest, error) {
	return r.GetByID(ctx, exec, id)
}

func (r *fakePayoutRepo) GetByReferenceForUpdate(_ context.Context, _ repositories.SQLExecutor, reference string) (*models.PayoutRequest, error) {
	for _, p := range r.payouts {
		if p.PaymentReference != nil && *p.PaymentReference == reference {
			return p, nil
		}
	}
	return nil, repositories.ErrPayoutNotFound
}

func (r *fakePayoutRepo) Update(_ context.Context, _ repositories.SQLExecutor, p *models.PayoutRequest) error {
	if _, ok := r.payouts[p.ID]; !ok {
		return repositories.ErrPayoutNotFound
	}
	r.payouts[p.ID] = p
	return nil
}

func (r *fakePayoutRepo) ListByOrganizer(_ context.Context, organizerID int, limit, offset int) ([]*models.PayoutRequest, error) {
	out := make([]*models.PayoutRequest, 0)
	for _, p := range r.payouts {
		if p.OrganizerID == organizerID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return paginatePayouts(out, limit, offset), nil
}

func (r *fakePayoutRepo) ListByStatus(_ context.Context, status models.PayoutStatus, limit, offset int) ([]*models.PayoutRequest, error) {
	out := make([]*models.PayoutRequest, 0)
	for _, p := range r.payouts {
		if p.Status == status {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return paginatePayouts(out, limit, offset), nil
}

func paginatePayouts(in []*models.PayoutRequest, limit, offset int) []*models.PayoutRequest {
	if offset >= len(in) {
		return nil
	}
	in = in[offset:]
	if len(in) > limit {
		in = in[:limit]
	}
	return in
}

func (r *fakePayoutRepo) CreateMethod(_ context.Context, _ repositories.SQLExecutor, m *models.PayoutMethod) error {
	m.ID = r.nextMethodID
	r.nextMethodID++
	m.CreatedAt = time.Now().UTC()
	r.methods[m.ID] = m
	return nil
}

func (r *fakePayoutRepo) GetMethodByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.PayoutMethod, error) {
	m, ok := r.methods[id]
	if !ok {
		return nil, repositories.ErrPayoutMethodNotFound
	}
	return m, nil
}

func (r *fakePayoutRepo) ListMethodsByOrganizer(_ context.Context, organizerID int) ([]*models.PayoutMethod, error) {
	out := make([]*models.PayoutMethod, 0)
	for _, m := range r.methods {
		if m.OrganizerID == organizerID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeProvider struct {
	failNext bool
	failErr  error
	calls    []TransferRequest
}

func (p *fakeProvider) InitiateTransfer(_ context.Context, req TransferRequest) (*TransferResult, error) {
	p.calls = append(p.calls, req)
	if p.failNext {
		p.failNext = false
		if p.failErr != nil {
			return nil, p.failErr
		}
		return nil, errors.New("provider unavailable")
	}
	return &TransferResult{TrackingID: fmt.Sprintf("TRF_%d", len(p.calls))}, nil
}

type recordingNotifier struct {
	events []string
}

func (n *recordingNotifier) Notify(_ context.Context, userID int, event string, _ map[string]interface{}) {
	n.events = append(n.events, fmt.Sprintf("%d:%s", userID, event))
}

type noopActivityLog struct{}

func (noopActivityLog) Log(context.Context, int, string, string, int, string) {}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fixture wires the full service graph over the fakes, mirroring cmd/main.go.
type fixture struct {
	db           *sql.DB
	users        *fakeUserRepo
	tournaments  *fakeTournamentRepo
	participants *fakeParticipantRepo
	matches      *fakeMatchRepo
	history      *fakeHistoryRepo
	wallets      *fakeWalletRepo
	payouts      *fakePayoutRepo
	provider     *fakeProvider
	notifier     *recordingNotifier

	walletService      WalletService
	participantService ParticipantService
	bracketService     BracketService
	matchService       MatchService
	tournamentService  TournamentService
	payoutService      PayoutService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		db:           openStubDB(t),
		users:        newFakeUserRepo(),
		tournaments:  newFakeTournamentRepo(),
		participants: newFakeParticipantRepo(),
		matches:      newFakeMatchRepo(),
		history:      newFakeHistoryRepo(),
		wallets:      newFakeWalletRepo(),
		payouts:      newFakePayoutRepo(),
		provider:     &fakeProvider{},
		notifier:     &recordingNotifier{},
	}

	logger := testLogger()
	gate := NewRoleGate()
	rating := NewEloEngine()
	activity := noopActivityLog{}

	f.walletService = NewWalletService(f.db, f.wallets)
	f.participantService = NewParticipantService(f.db, f.tournaments, f.participants, f.users, f.walletService, gate, activity, logger)
	f.bracketService = NewBracketService(f.matches, f.participants, logger)
	advancer := NewAdvancer(f.matches, f.participants, f.tournaments, f.bracketService, logger)
	f.matchService = NewMatchService(f.db, f.matches, f.participants, f.tournaments, f.users, f.history, advancer, rating, gate, f.notifier, activity, logger)
	f.tournamentService = NewTournamentService(f.db, f.tournaments, f.participants, f.users, f.bracketService, f.walletService, gate, activity, logger)
	f.payoutService = NewPayoutService(f.db, f.payouts, f.wallets, f.users, f.provider, gate, f.notifier, activity, logger)
	return f
}

func (f *fixture) addUser(id int, role models.UserRole, region string, rating int) *models.User {
	u := &models.User{ID: id, FirstName: "Player", LastName: fmt.Sprintf("%d", id), Role: role, Region: region, Rating: rating}
	f.users.users[id] = u
	return u
}

func (f *fixture) addTournament(t *models.Tournament) *models.Tournament {
	if t.RaceTo == 0 {
		t.RaceTo = 3
	}
	if t.MaxParticipants == 0 {
		t.MaxParticipants = 16
	}
	if t.Format == "" {
		t.Format = models.FormatKnockout
	}
	if t.Type == "" {
		t.Type = models.TournamentTypeRegular
	}
	if t.WinnersCount == 0 {
		t.WinnersCount = 1
	}
	if t.ConfirmationHours == 0 {
		t.ConfirmationHours = 24
	}
	if t.MatchDeadlineHours == 0 {
		t.MatchDeadlineHours = 48
	}
	t.ID = f.tournaments.nextID
	f.tournaments.nextID++
	f.tournaments.tournaments[t.ID] = t
	return t
}

func (f *fixture) addParticipant(tournamentID, playerID int, seed *int, status models.ParticipantStatus) *models.Participant {
	p := &models.Participant{
		TournamentID:  tournamentID,
		PlayerID:      playerID,
		Seed:          seed,
		Status:        status,
		PaymentStatus: models.PaymentStatusWaived,
	}
	p.ID = f.participants.nextID
	f.participants.nextID++
	f.participants.participants[p.ID] = p
	return p
}

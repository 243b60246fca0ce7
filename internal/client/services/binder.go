package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"binderkeeper/internal/binder"
	"binderkeeper/internal/client/client"
	"binderkeeper/internal/client/repositories/snapshots"
	"binderkeeper/internal/common"
	"binderkeeper/internal/logging"
)

// CardChange records one repositioning for UI feedback.
type CardChange struct {
	CardID string
	From   binder.Position
	To     binder.Position
}

// MutationResult is the structured outcome of a requested drop. A rejected
// drop carries the reason in Validation and no changes; it is not an error.
type MutationResult struct {
	Validation binder.MoveValidation
	Changes    []CardChange
}

// BinderService is the surface the presentation layer talks to: loading and
// reconciling a binder, reading pages, validated move/swap mutations, slot
// allocation and pushing local edits to the remote service.
type BinderService interface {
	Load(ctx context.Context, binderID string) (*binder.Snapshot, error)
	GetCardsForPage(ctx context.Context, binderID string, page int) ([]binder.CardEntry, error)
	PendingSync(ctx context.Context, binderID string) (bool, error)

	ValidateMove(ctx context.Context, binderID, sourceDragID, targetDragID string) (binder.MoveValidation, error)
	RequestMove(ctx context.Context, binderID, sourceDragID, targetDragID string) (*MutationResult, error)
	RequestSwap(ctx context.Context, binderID, sourceDragID, targetDragID string) (*MutationResult, error)
	RequestDrop(ctx context.Context, binderID, sourceDragID, targetDragID string) (*MutationResult, error)

	NextAvailableSlots(ctx context.Context, binderID string, count, startPage int) ([]binder.SlotRef, error)
	AddCards(ctx context.Context, binderID string, cards []json.RawMessage, startPage int) ([]binder.CardEntry, error)
	UpdatePreferences(ctx context.Context, binderID string, update func(*binder.Preferences)) error
	SaveToRemote(ctx context.Context, binderID string) error
}

type binderService struct {
	client client.Client
	repo   snapshots.Repository
	rec    *Reconciler
	log    logging.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewBinderService wires the service to the remote client and local store.
func NewBinderService(c client.Client, repo snapshots.Repository, log logging.Logger) BinderService {
	return &binderService{
		client: c,
		repo:   repo,
		rec:    NewReconciler(repo, log),
		log:    log.With("module", "binder"),
		locks:  map[string]*sync.Mutex{},
	}
}

// binderLock serializes commits per binder so that two read-modify-write
// cycles on the same card list cannot lose one of the updates.
func (s *binderService) binderLock(binderID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[binderID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[binderID] = l
	}
	return l
}

// Load fetches remote data for registered users, reconciles it against the
// local snapshot and returns the authoritative result. Guests reconcile with
// nothing remote, and a failed remote fetch degrades the same way so a slow
// or broken server can never destroy local edits.
func (s *binderService) Load(ctx context.Context, binderID string) (*binder.Snapshot, error) {
	var remoteCards []binder.CardEntry
	var remotePrefs json.RawMessage

	if s.client.CurrentUserID() != "" {
		cards, err := s.client.FetchBinderCards(ctx, binderID)
		if err != nil {
			s.log.Warn(ctx, "remote card fetch failed, using local data",
				"binder_id", binderID, "error", err.Error())
		} else {
			remoteCards = cards
		}

		prefs, err := s.client.FetchBinderPreferences(ctx, binderID)
		if err != nil {
			s.log.Warn(ctx, "remote preferences fetch failed, using local data",
				"binder_id", binderID, "error", err.Error())
		} else {
			remotePrefs = prefs
		}
	}

	lock := s.binderLock(binderID)
	lock.Lock()
	defer lock.Unlock()

	snap, outcome, err := s.rec.Reconcile(ctx, binderID, remoteCards, remotePrefs)
	if err != nil {
		return nil, fmt.Errorf("failed to reconcile binder %s: %w", binderID, err)
	}
	s.log.Info(ctx, "binder loaded", "binder_id", binderID, "outcome", string(outcome), "cards", len(snap.Cards))
	return snap, nil
}

func (s *binderService) GetCardsForPage(ctx context.Context, binderID string, page int) ([]binder.CardEntry, error) {
	snap, err := s.repo.Read(ctx, binderID)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, fmt.Errorf("binder %s: %w", binderID, common.ErrorNotFound)
	}

	if _, err := binder.ParseGridSize(snap.Preferences.GridSize); err != nil {
		return nil, err
	}

	cards := make([]binder.CardEntry, 0)
	for _, c := range snap.Cards {
		if c.Position.Page == page {
			cards = append(cards, c)
		}
	}
	sort.Slice(cards, func(i, j int) bool {
		return cards[i].Position.Slot < cards[j].Position.Slot
	})
	return cards, nil
}

func (s *binderService) PendingSync(ctx context.Context, binderID string) (bool, error) {
	status, err := s.repo.ReadSyncStatus(ctx, binderID)
	if err != nil {
		return false, err
	}
	return status.NeedsSync, nil
}

// ValidateMove decodes both drag identifiers and checks the drop against the
// stored snapshot. Reading the store here (instead of trusting the caller's
// cached card list) is what makes repeated validation safe against stale UIs.
func (s *binderService) ValidateMove(ctx context.Context, binderID, sourceDragID, targetDragID string) (binder.MoveValidation, error) {
	src, err := binder.DecodeDrag(sourceDragID)
	if err != nil {
		return binder.MoveValidation{}, err
	}
	tgt, err := binder.DecodeDrag(targetDragID)
	if err != nil {
		return binder.MoveValidation{}, err
	}

	snap, err := s.repo.Read(ctx, binderID)
	if err != nil {
		return binder.MoveValidation{}, err
	}
	if snap == nil {
		return binder.MoveValidation{}, fmt.Errorf("binder %s: %w", binderID, common.ErrorNotFound)
	}
	return binder.ValidateMove(src, tgt, snap.Cards), nil
}

func (s *binderService) RequestMove(ctx context.Context, binderID, sourceDragID, targetDragID string) (*MutationResult, error) {
	return s.applyDrop(ctx, binderID, sourceDragID, targetDragID, binder.MoveActionMove)
}

func (s *binderService) RequestSwap(ctx context.Context, binderID, sourceDragID, targetDragID string) (*MutationResult, error) {
	return s.applyDrop(ctx, binderID, sourceDragID, targetDragID, binder.MoveActionSwap)
}

// RequestDrop validates the drop and performs whichever mutation the target
// state calls for: a move onto an empty slot, a swap onto an occupied one.
func (s *binderService) RequestDrop(ctx context.Context, binderID, sourceDragID, targetDragID string) (*MutationResult, error) {
	return s.applyDrop(ctx, binderID, sourceDragID, targetDragID, "")
}

// applyDrop is the single commit path for drag-and-drop mutations. Validation
// and commit happen under the binder lock with no suspension point between
// reading and writing the snapshot.
func (s *binderService) applyDrop(ctx context.Context, binderID, sourceDragID, targetDragID string, want binder.MoveAction) (*MutationResult, error) {
	src, err := binder.DecodeDrag(sourceDragID)
	if err != nil {
		return nil, err
	}
	tgt, err := binder.DecodeDrag(targetDragID)
	if err != nil {
		return nil, err
	}

	lock := s.binderLock(binderID)
	lock.Lock()
	defer lock.Unlock()

	snap, err := s.repo.Read(ctx, binderID)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, fmt.Errorf("binder %s: %w", binderID, common.ErrorNotFound)
	}

	v := binder.ValidateMove(src, tgt, snap.Cards)
	if !v.IsValid {
		return &MutationResult{Validation: v}, nil
	}
	if want != "" && v.Action != want {
		v.IsValid = false
		if want == binder.MoveActionMove {
			v.Reason = "Target slot is occupied"
		} else {
			v.Reason = "Target slot is empty"
		}
		return &MutationResult{Validation: v}, nil
	}

	g, err := binder.ParseGridSize(snap.Preferences.GridSize)
	if err != nil {
		return nil, err
	}

	targetPos, err := binder.PositionFromSlot(tgt.OverallSlot, g)
	if err != nil {
		return nil, err
	}

	si := binder.FindCardByID(snap.Cards, v.SourceCard.ID)
	from := snap.Cards[si].Position

	var changes []CardChange
	switch v.Action {
	case binder.MoveActionMove:
		if occ := binder.CardAtPosition(snap.Cards, targetPos); occ >= 0 && occ != si {
			return nil, fmt.Errorf("slot %d: %w", tgt.OverallSlot, common.ErrSlotOccupied)
		}
		snap.Cards[si].Position = targetPos
		changes = []CardChange{{CardID: snap.Cards[si].ID, From: from, To: targetPos}}

	case binder.MoveActionSwap:
		ti := binder.FindCardByID(snap.Cards, v.TargetCard.ID)
		tf := snap.Cards[ti].Position
		// both position writes land in one snapshot write: never observable half-done
		snap.Cards[si].Position = tf
		snap.Cards[ti].Position = from
		changes = []CardChange{
			{CardID: snap.Cards[si].ID, From: from, To: tf},
			{CardID: snap.Cards[ti].ID, From: tf, To: from},
		}
	}

	if err := s.repo.Write(ctx, snap); err != nil {
		return nil, err
	}

	if s.client.CurrentUserID() != "" && snap.Preferences.AutoSave {
		if err := s.pushLocked(ctx, snap); err != nil {
			// edit stays dirty locally; a later sync retries
			s.log.Warn(ctx, "auto-save to remote failed", "binder_id", binderID, "error", err.Error())
		}
	}

	return &MutationResult{Validation: v, Changes: changes}, nil
}

func (s *binderService) NextAvailableSlots(ctx context.Context, binderID string, count, startPage int) ([]binder.SlotRef, error) {
	snap, err := s.repo.Read(ctx, binderID)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, fmt.Errorf("binder %s: %w", binderID, common.ErrorNotFound)
	}

	g, err := binder.ParseGridSize(snap.Preferences.GridSize)
	if err != nil {
		return nil, err
	}

	occupied := make([]binder.Position, 0, len(snap.Cards))
	for _, c := range snap.Cards {
		occupied = append(occupied, c.Position)
	}
	return binder.NextAvailableSlots(count, startPage, snap.Preferences.PageCount, g, occupied)
}

// AddCards places the given card descriptors on the next free slots starting
// at startPage. When the binder runs out of room only the cards that fit are
// placed; the shorter result tells the caller to offer more pages.
func (s *binderService) AddCards(ctx context.Context, binderID string, cards []json.RawMessage, startPage int) ([]binder.CardEntry, error) {
	lock := s.binderLock(binderID)
	lock.Lock()
	defer lock.Unlock()

	snap, err := s.repo.Read(ctx, binderID)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, fmt.Errorf("binder %s: %w", binderID, common.ErrorNotFound)
	}

	g, err := binder.ParseGridSize(snap.Preferences.GridSize)
	if err != nil {
		return nil, err
	}

	occupied := make([]binder.Position, 0, len(snap.Cards))
	for _, c := range snap.Cards {
		occupied = append(occupied, c.Position)
	}

	free, err := binder.NextAvailableSlots(len(cards), startPage, snap.Preferences.PageCount, g, occupied)
	if err != nil {
		return nil, err
	}

	added := make([]binder.CardEntry, 0, len(free))
	for i, ref := range free {
		entry := binder.NewCardEntry(cards[i], binder.Position{Page: ref.Page, Slot: ref.Slot})
		snap.Cards = append(snap.Cards, entry)
		added = append(added, entry)
	}
	if len(added) == 0 {
		return added, nil
	}

	if err := s.repo.Write(ctx, snap); err != nil {
		return nil, err
	}
	return added, nil
}

func (s *binderService) UpdatePreferences(ctx context.Context, binderID string, update func(*binder.Preferences)) error {
	lock := s.binderLock(binderID)
	lock.Lock()
	defer lock.Unlock()

	snap, err := s.repo.Read(ctx, binderID)
	if err != nil {
		return err
	}
	if snap == nil {
		return fmt.Errorf("binder %s: %w", binderID, common.ErrorNotFound)
	}

	update(&snap.Preferences)
	return s.repo.Write(ctx, snap)
}

// SaveToRemote pushes the whole snapshot (cards and preferences) to the sync
// server and marks the binder clean. Guests have nothing to push to.
func (s *binderService) SaveToRemote(ctx context.Context, binderID string) error {
	if s.client.CurrentUserID() == "" {
		return common.ErrorUnauthorized
	}

	lock := s.binderLock(binderID)
	lock.Lock()
	defer lock.Unlock()

	snap, err := s.repo.Read(ctx, binderID)
	if err != nil {
		return err
	}
	if snap == nil {
		return fmt.Errorf("binder %s: %w", binderID, common.ErrorNotFound)
	}
	return s.pushLocked(ctx, snap)
}

// pushLocked writes every card and the preferences remotely, then clears the
// dirty flag. Callers must hold the binder lock. Any failed write leaves the
// flag untouched so the edit is retried on the next sync.
func (s *binderService) pushLocked(ctx context.Context, snap *binder.Snapshot) error {
	for _, c := range snap.Cards {
		if err := s.client.WriteBinderCard(ctx, snap.BinderID, c); err != nil {
			return fmt.Errorf("failed to push card %s: %w", c.ID, err)
		}
	}
	if err := s.client.WriteBinderPreferences(ctx, snap.BinderID, snap.Preferences); err != nil {
		return fmt.Errorf("failed to push preferences: %w", err)
	}

	now := time.Now().UTC()
	lastModified := snap.LastModified.UTC()
	return s.repo.WriteSyncStatus(ctx, snap.BinderID, binder.SyncStatus{
		NeedsSync:    false,
		LastModified: &lastModified,
		LastSynced:   &now,
	})
}

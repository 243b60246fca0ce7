// Package services contains the client-side application services: binder
// loading and reconciliation, validated card mutations, slot allocation and
// session management.
package services

import (
	"context"
	"encoding/json"
	"time"

	"binderkeeper/internal/binder"
	"binderkeeper/internal/client/repositories/snapshots"
	"binderkeeper/internal/logging"
)

// ReconcileOutcome names which rule produced the authoritative snapshot.
type ReconcileOutcome string

const (
	OutcomeAdoptedRemote ReconcileOutcome = "adopted_remote"
	OutcomeMergedLocal   ReconcileOutcome = "merged_local"
	OutcomeKeptLocal     ReconcileOutcome = "kept_local"
	OutcomeInitialized   ReconcileOutcome = "initialized"
)

// Reconciler decides, on binder load, how freshly fetched remote data and the
// existing local snapshot combine into the snapshot the UI works against.
type Reconciler struct {
	repo snapshots.Repository
	log  logging.Logger
}

func NewReconciler(repo snapshots.Repository, log logging.Logger) *Reconciler {
	return &Reconciler{repo: repo, log: log.With("module", "reconcile")}
}

// Reconcile applies the merge rules in priority order. Local-first edits are
// never destroyed by a remote fetch, but an empty local cache never blocks
// adopting existing cloud data:
//
//  1. local empty, remote has cards: adopt remote wholesale, mark synced
//  2. local dirty, remote has cards: merge by position (local wins), stay dirty
//  3. local clean, remote has cards: adopt remote cards, merged preferences,
//     mark synced
//  4. local snapshot exists: keep it (nothing remote to reconcile against)
//  5. nothing anywhere: initialize an empty snapshot, mark synced
//
// Storage read failures degrade to absent local data and never escape.
func (r *Reconciler) Reconcile(ctx context.Context, binderID string, remoteCards []binder.CardEntry, remotePrefs json.RawMessage) (*binder.Snapshot, ReconcileOutcome, error) {
	local, err := r.repo.Read(ctx, binderID)
	if err != nil {
		r.log.Warn(ctx, "local snapshot unreadable, treating as absent",
			"binder_id", binderID, "error", err.Error())
		local = nil
	}

	status, err := r.repo.ReadSyncStatus(ctx, binderID)
	if err != nil {
		r.log.Warn(ctx, "sync status unreadable, assuming clean",
			"binder_id", binderID, "error", err.Error())
		status = binder.SyncStatus{}
	}

	basePrefs := binder.DefaultPreferences()
	if local != nil {
		basePrefs = local.Preferences
	}

	prefs, err := binder.MergePreferences(basePrefs, remotePrefs)
	if err != nil {
		r.log.Warn(ctx, "remote preferences unreadable, keeping local",
			"binder_id", binderID, "error", err.Error())
		prefs = basePrefs
	}

	localEmpty := local == nil || len(local.Cards) == 0

	switch {
	case localEmpty && len(remoteCards) > 0:
		snap := binder.NewSnapshot(binderID, remoteCards, prefs)
		if err := r.commit(ctx, snap, true); err != nil {
			return nil, "", err
		}
		return snap, OutcomeAdoptedRemote, nil

	case status.NeedsSync && len(remoteCards) > 0:
		merged := binder.MergeCardsByPosition(remoteCards, local.Cards)
		snap := binder.NewSnapshot(binderID, merged, prefs)
		// local edits are still unreconciled with the server: stay dirty
		if err := r.repo.Write(ctx, snap); err != nil {
			return nil, "", err
		}
		return snap, OutcomeMergedLocal, nil

	case len(remoteCards) > 0:
		snap := binder.NewSnapshot(binderID, remoteCards, prefs)
		if err := r.commit(ctx, snap, true); err != nil {
			return nil, "", err
		}
		return snap, OutcomeAdoptedRemote, nil

	case local != nil && !local.LastModified.IsZero():
		return local, OutcomeKeptLocal, nil

	default:
		snap := binder.NewSnapshot(binderID, []binder.CardEntry{}, prefs)
		if err := r.commit(ctx, snap, true); err != nil {
			return nil, "", err
		}
		return snap, OutcomeInitialized, nil
	}
}

// commit writes the snapshot and, when synced is set, overrides the dirty
// flag the write just raised: the snapshot matches the remote store.
func (r *Reconciler) commit(ctx context.Context, snap *binder.Snapshot, synced bool) error {
	if err := r.repo.Write(ctx, snap); err != nil {
		return err
	}
	if !synced {
		return nil
	}
	now := time.Now().UTC()
	return r.repo.WriteSyncStatus(ctx, snap.BinderID, binder.SyncStatus{
		NeedsSync:    false,
		LastModified: &now,
		LastSynced:   &now,
	})
}

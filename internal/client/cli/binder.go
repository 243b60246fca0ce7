package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"

	"binderkeeper/internal/binder"
	"binderkeeper/internal/client/services"
)

func (a *App) open(ctx context.Context, args []string) {
	if len(args) == 0 {
		printlnFn("Usage: open <binder>")
		return
	}

	snap, err := a.binders.Load(ctx, args[0])
	if err != nil {
		log.Printf("error opening binder: %v", err)
		return
	}

	a.activeBinder = args[0]
	a.activePage = 1
	printlnFn(fmt.Sprintf("Opened %s: %d cards, %s grid, %d pages",
		snap.BinderID, len(snap.Cards), snap.Preferences.GridSize, snap.Preferences.PageCount))
}

func (a *App) page(ctx context.Context, args []string) {
	if !a.requireBinder() {
		return
	}

	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			printlnFn("Usage: page [n]")
			return
		}
		a.activePage = n
	}

	cards, err := a.binders.GetCardsForPage(ctx, a.activeBinder, a.activePage)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	printlnFn(fmt.Sprintf("Page %d:", a.activePage))
	if len(cards) == 0 {
		printlnFn("  (empty)")
		return
	}
	for _, c := range cards {
		printlnFn(fmt.Sprintf("  slot %d: %s", c.Position.Slot, cardLabel(c)))
	}
}

func (a *App) move(ctx context.Context, args []string) {
	a.applyDrag(ctx, args, "move", a.binders.RequestDrop)
}

func (a *App) swap(ctx context.Context, args []string) {
	a.applyDrag(ctx, args, "swap", a.binders.RequestSwap)
}

// applyDrag turns two overall slot numbers into drag identifiers against the
// current snapshot and runs the given mutation.
func (a *App) applyDrag(ctx context.Context, args []string, name string,
	fn func(ctx context.Context, binderID, sourceDragID, targetDragID string) (*services.MutationResult, error)) {

	if !a.requireBinder() {
		return
	}
	if len(args) != 2 {
		printlnFn(fmt.Sprintf("Usage: %s <fromSlot> <toSlot>", name))
		return
	}
	from, err1 := strconv.Atoi(args[0])
	to, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil {
		printlnFn(fmt.Sprintf("Usage: %s <fromSlot> <toSlot>", name))
		return
	}

	snap, err := a.binders.Load(ctx, a.activeBinder)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	g, err := binder.ParseGridSize(snap.Preferences.GridSize)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	srcDrag, err := dragIDForSlot(snap, g, from)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	dstDrag, err := dragIDForSlot(snap, g, to)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	result, err := fn(ctx, a.activeBinder, srcDrag, dstDrag)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	if !result.Validation.IsValid {
		printlnFn("Rejected:", result.Validation.Reason)
		return
	}
	printlnFn(fmt.Sprintf("OK (%s, %d cards updated)", result.Validation.Action, len(result.Changes)))
}

func (a *App) add(ctx context.Context) {
	if !a.requireBinder() {
		return
	}

	name, err := GetSimpleText(a.reader, "Enter card name", os.Stdout)
	if err != nil || name == "" {
		printlnFn("Cancelled")
		return
	}

	payload, err := json.Marshal(map[string]string{"name": name})
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	placed, err := a.binders.AddCards(ctx, a.activeBinder, []json.RawMessage{payload}, a.activePage)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	if len(placed) == 0 {
		printlnFn("Binder is full, nothing added")
		return
	}
	printlnFn(fmt.Sprintf("Added %q at page %d slot %d",
		name, placed[0].Position.Page, placed[0].Position.Slot))
}

func (a *App) grid(ctx context.Context, args []string) {
	if !a.requireBinder() {
		return
	}
	if len(args) != 1 {
		printlnFn("Usage: grid <CxR> (e.g. grid 4x4)")
		return
	}
	if _, err := binder.ParseGridSize(args[0]); err != nil {
		printlnFn("Invalid grid size:", args[0])
		return
	}

	err := a.binders.UpdatePreferences(ctx, a.activeBinder, func(p *binder.Preferences) {
		p.GridSize = args[0]
	})
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	printlnFn("Grid size set to", args[0])
}

func (a *App) status(ctx context.Context) {
	if a.isLoggedIn() {
		printlnFn("Logged in as", a.auth.CurrentUserID())
	} else {
		printlnFn("Guest mode")
	}
	printlnFn("Connection:", string(a.Mode))

	if a.activeBinder == "" {
		return
	}
	pending, err := a.binders.PendingSync(ctx, a.activeBinder)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	if pending {
		printlnFn("Binder", a.activeBinder, "has unsynced changes")
	} else {
		printlnFn("Binder", a.activeBinder, "is in sync")
	}
}

func (a *App) sync(ctx context.Context) {
	if !a.requireBinder() {
		return
	}
	if err := a.binders.SaveToRemote(ctx, a.activeBinder); err != nil {
		log.Printf("sync failed: %v", err)
		return
	}
	printlnFn("Synced", a.activeBinder)
}

func (a *App) requireBinder() bool {
	if a.activeBinder == "" {
		printlnFn("No binder open, use: open <binder>")
		return false
	}
	return true
}

// dragIDForSlot encodes the drag identifier for the card occupying the
// overall slot, or for the empty slot itself.
func dragIDForSlot(snap *binder.Snapshot, g binder.Geometry, overallSlot int) (string, error) {
	pos, err := binder.PositionFromSlot(overallSlot, g)
	if err != nil {
		return "", err
	}
	if i := binder.CardAtPosition(snap.Cards, pos); i >= 0 {
		return binder.EncodeCardDrag(snap.Cards[i].ID, overallSlot), nil
	}
	return binder.EncodeEmptyDrag(overallSlot), nil
}

func cardLabel(c binder.CardEntry) string {
	var meta struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(c.Card, &meta); err == nil && meta.Name != "" {
		return meta.Name
	}
	return c.ID
}

package service

import (
	"log"
	"sync"

	"github.com/41vi4p/MediStock/internal/models"
	"github.com/41vi4p/MediStock/internal/repository"
)

// subscriptionBuffer is the per-subscriber channel depth. Consumers that
// fall behind lose intermediate snapshots, never the latest one.
const subscriptionBuffer = 8

// FamilySubscription is a live feed of one family's state for one user.
// Snapshots arrive on C after every committed mutation. A nil snapshot
// means the subscription ended: the family is gone or the user is no
// longer a member. C is closed after the nil.
type FamilySubscription struct {
	C chan *models.Family

	userID   string
	familyID string
	closed   bool
}

// FamilyWatcher keeps in-memory family snapshots synchronized with the
// database. Services call Notify after each committed mutation; the watcher
// reloads the family once and fans the fresh snapshot out to every
// subscriber. Subscribe/unsubscribe lifecycle is explicit, tied to the
// consumer's lifetime.
type FamilyWatcher struct {
	familyRepo *repository.FamilyRepository
	userRepo   *repository.UserRepository

	mu   sync.Mutex
	subs map[string]map[*FamilySubscription]struct{} // familyID -> subscriptions
}

// NewFamilyWatcher creates a new family watcher
func NewFamilyWatcher(familyRepo *repository.FamilyRepository, userRepo *repository.UserRepository) *FamilyWatcher {
	return &FamilyWatcher{
		familyRepo: familyRepo,
		userRepo:   userRepo,
		subs:       make(map[string]map[*FamilySubscription]struct{}),
	}
}

// Watch subscribes the given user to their current family. The current
// snapshot is delivered immediately. Fails with ErrNotInFamily when the
// user has no family to watch.
func (w *FamilyWatcher) Watch(userID string) (*FamilySubscription, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	user, err := w.userRepo.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.FamilyID == "" {
		return nil, ErrNotInFamily
	}

	family, err := w.familyRepo.GetByID(user.FamilyID)
	if err != nil {
		return nil, err
	}
	if family == nil {
		return nil, ErrFamilyNotFound
	}

	sub := &FamilySubscription{
		C:        make(chan *models.Family, subscriptionBuffer),
		userID:   userID,
		familyID: user.FamilyID,
	}

	w.mu.Lock()
	if w.subs[sub.familyID] == nil {
		w.subs[sub.familyID] = make(map[*FamilySubscription]struct{})
	}
	w.subs[sub.familyID][sub] = struct{}{}
	w.deliver(sub, family)
	w.mu.Unlock()

	return sub, nil
}

// Unsubscribe tears down a subscription. Safe to call more than once.
func (w *FamilyWatcher) Unsubscribe(sub *FamilySubscription) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.drop(sub)
}

// Notify reloads the family and republishes it to all subscribers. A
// subscriber whose user is no longer on the roster receives nil and is
// torn down, as is everyone when the family row is gone.
func (w *FamilyWatcher) Notify(familyID string) {
	w.mu.Lock()
	subs := w.subs[familyID]
	if len(subs) == 0 {
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	family, err := w.familyRepo.GetByID(familyID)
	if err != nil {
		log.Printf("Failed to load family %s for watchers: %v", familyID, err)
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	for sub := range w.subs[familyID] {
		if family == nil || family.MemberByUserID(sub.userID) == nil {
			w.deliver(sub, nil)
			w.drop(sub)
			continue
		}
		w.deliver(sub, family)
	}
}

// Close tears down every subscription
func (w *FamilyWatcher) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, subs := range w.subs {
		for sub := range subs {
			w.drop(sub)
		}
	}
}

// deliver sends a snapshot without blocking. If the subscriber's buffer is
// full the oldest pending snapshot is discarded; only the latest state
// matters. Caller holds w.mu.
func (w *FamilyWatcher) deliver(sub *FamilySubscription, family *models.Family) {
	if sub.closed {
		return
	}
	for {
		select {
		case sub.C <- family:
			return
		default:
			select {
			case <-sub.C:
			default:
			}
		}
	}
}

// drop removes and closes a subscription. Caller holds w.mu.
func (w *FamilyWatcher) drop(sub *FamilySubscription) {
	if sub.closed {
		return
	}
	sub.closed = true
	delete(w.subs[sub.familyID], sub)
	if len(w.subs[sub.familyID]) == 0 {
		delete(w.subs, sub.familyID)
	}
	close(sub.C)
}

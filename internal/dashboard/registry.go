package dashboard

import (
	"bytes"
	"container/list"
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/mirador-lab/project-mirador/internal/core/dataset"
	"github.com/mirador-lab/project-mirador/internal/core/profile"
)

// DefaultRegistryCapacity is the default number of built datasets kept
// in memory.
const DefaultRegistryCapacity = 32

// Dataset is one built record store plus its provenance.
type Dataset struct {
	ID          string
	Name        string
	Profile     profile.Profile
	Store       *dataset.Store
	Report      dataset.BuildReport
	Fingerprint string
	CreatedAt   time.Time
}

// Registry holds built datasets in memory, LRU-bounded. Store builds are
// memoized on the SHA-256 of (profile, raw input): re-uploading the same
// bytes returns the already-built dataset instead of re-running
// inference, and a singleflight group dedupes concurrent builds of the
// same fingerprint. Rebuilding is pure, so memoization is an
// optimization only.
type Registry struct {
	mu         sync.RWMutex
	capacity   int
	byID       map[string]*Dataset
	byPrint    map[string]*list.Element // fingerprint → LRU element
	order      *list.List               // front = most recently used
	buildGroup singleflight.Group
}

// NewRegistry creates a registry bounded to capacity datasets.
func NewRegistry(capacity int) *Registry {
	if capacity <= 0 {
		capacity = DefaultRegistryCapacity
	}
	return &Registry{
		capacity: capacity,
		byID:     make(map[string]*Dataset),
		byPrint:  make(map[string]*list.Element),
		order:    list.New(),
	}
}

// fingerprintOf keys the memoization: same bytes under a different
// profile must build a different store.
func fingerprintOf(p profile.Profile, raw []byte) string {
	h := sha256.New()
	h.Write([]byte(p.Name))
	h.Write([]byte{0})
	h.Write(raw)
	return fmt.Sprintf("%x", h.Sum(nil))
}

// buildResult carries a build out of the singleflight closure along
// with whether the closure constructed it or found it memoized.
type buildResult struct {
	ds    *Dataset
	built bool
}

// Register builds (or reuses) a dataset from raw CSV bytes. Identical
// input under the same profile returns the existing dataset, ID
// included, with created=false so callers can distinguish a fresh build
// from a memoized hit without inspecting registry state.
func (r *Registry) Register(name string, p profile.Profile, raw []byte) (ds *Dataset, created bool, err error) {
	fingerprint := fingerprintOf(p, raw)

	if ds, ok := r.lookup(fingerprint); ok {
		return ds, false, nil
	}

	result, err, _ := r.buildGroup.Do(fingerprint, func() (interface{}, error) {
		// Double-check after acquiring the singleflight slot.
		if ds, ok := r.lookup(fingerprint); ok {
			return buildResult{ds: ds}, nil
		}

		table, err := dataset.ReadTable(bytes.NewReader(raw))
		if err != nil {
			return nil, err
		}
		store, report, err := dataset.BuildFromTable(table, p.Columns)
		if err != nil {
			return nil, err
		}

		ds := &Dataset{
			ID:          uuid.New().String(),
			Name:        name,
			Profile:     p,
			Store:       store,
			Report:      report,
			Fingerprint: fingerprint,
			CreatedAt:   time.Now().UTC(),
		}
		r.put(ds)
		return buildResult{ds: ds, built: true}, nil
	})
	if err != nil {
		return nil, false, err
	}
	res := result.(buildResult)
	return res.ds, res.built, nil
}

// RegisterStore registers an already-built store (the boot-time
// simulated ledger takes this path — there is no raw input to
// fingerprint, so the ID doubles as the fingerprint).
func (r *Registry) RegisterStore(name string, p profile.Profile, store *dataset.Store, report dataset.BuildReport) *Dataset {
	ds := &Dataset{
		ID:        uuid.New().String(),
		Name:      name,
		Profile:   p,
		Store:     store,
		Report:    report,
		CreatedAt: time.Now().UTC(),
	}
	ds.Fingerprint = ds.ID
	r.put(ds)
	return ds
}

// Get returns the dataset with the given ID and marks it recently used.
func (r *Registry) Get(id string) (*Dataset, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ds, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	if elem, ok := r.byPrint[ds.Fingerprint]; ok {
		r.order.MoveToFront(elem)
	}
	return ds, true
}

// List returns all registered datasets, most recently used first.
func (r *Registry) List() []*Dataset {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Dataset, 0, r.order.Len())
	for elem := r.order.Front(); elem != nil; elem = elem.Next() {
		out = append(out, elem.Value.(*Dataset))
	}
	return out
}

// DatasetCount reports registry size for the health endpoint.
func (r *Registry) DatasetCount() int { return r.Len() }

// Len returns the number of registered datasets.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

func (r *Registry) lookup(fingerprint string) (*Dataset, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	elem, ok := r.byPrint[fingerprint]
	if !ok {
		return nil, false
	}
	r.order.MoveToFront(elem)
	return elem.Value.(*Dataset), true
}

func (r *Registry) put(ds *Dataset) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if elem, ok := r.byPrint[ds.Fingerprint]; ok {
		r.order.MoveToFront(elem)
		return
	}

	r.byID[ds.ID] = ds
	r.byPrint[ds.Fingerprint] = r.order.PushFront(ds)

	// Evict the least recently used dataset beyond capacity.
	for r.order.Len() > r.capacity {
		oldest := r.order.Back()
		evicted := oldest.Value.(*Dataset)
		r.order.Remove(oldest)
		delete(r.byPrint, evicted.Fingerprint)
		delete(r.byID, evicted.ID)
	}
}

package resource

import (
	"encoding/json"
	"sort"
	"sync"
)

// Store is the process-wide registry of named collections.
// Collections are created lazily on first reference, including reads;
// there is no collection-level deletion.
type Store struct {
	mu          sync.RWMutex
	collections map[string]*Collection
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		collections: make(map[string]*Collection),
	}
}

// GetOrCreate returns the collection registered under name, creating
// and registering an empty one if it does not exist. Never fails.
// Collection names are case-sensitive.
func (s *Store) GetOrCreate(name string) *Collection {
	s.mu.RLock()
	c, ok := s.collections[name]
	s.mu.RUnlock()
	if ok {
		return c
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another request may have created it between the RUnlock and Lock.
	if c, ok := s.collections[name]; ok {
		return c
	}

	c = &Collection{
		name:   name,
		items:  make(map[int]map[string]any),
		nextID: 1,
	}
	s.collections[name] = c
	return c
}

// Names returns all collection names in sorted order for deterministic
// output. Collections emptied by deletes remain listed.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.collections))
	for name := range s.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered collections.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collections)
}

// Item pairs an item id with its stored payload.
type Item struct {
	ID      int
	Payload map[string]any
}

// Merged returns a copy of the payload with the id merged in under "id".
// Mutating the result never affects the stored payload.
func (it Item) Merged() map[string]any {
	out := make(map[string]any, len(it.Payload)+1)
	for k, v := range it.Payload {
		out[k] = v
	}
	out["id"] = it.ID
	return out
}

// Collection is a named, independently-id-scoped set of JSON object
// payloads. All mutations are serialized on the collection's own lock;
// reads take copies so callers never alias internal state.
type Collection struct {
	mu     sync.RWMutex
	name   string
	items  map[int]map[string]any
	nextID int
}

// Name returns the collection name.
func (c *Collection) Name() string {
	return c.name
}

// Len returns the number of items currently stored.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// NextID returns the id the next created item will receive.
func (c *Collection) NextID() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.nextID
}

// Create stores payload under a freshly assigned id and returns it.
// Ids are strictly increasing and never reassigned, even after deletes.
// Returns a ValidationError when payload is nil or empty.
func (c *Collection) Create(payload map[string]any) (int, error) {
	if len(payload) == 0 {
		return 0, &ValidationError{Message: "request body must be a non-empty JSON object"}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.items[id] = deepCopy(payload)
	c.nextID++
	return id, nil
}

// Get returns a copy of the item stored under id.
func (c *Collection) Get(id int) (Item, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	payload, ok := c.items[id]
	if !ok {
		return Item{}, &NotFoundError{Collection: c.name, ID: id}
	}
	return Item{ID: id, Payload: deepCopy(payload)}, nil
}

// List returns copies of all items in ascending id order. Insertion
// order coincides with id order since ids are monotonic and never reused.
func (c *Collection) List() []Item {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := make([]int, 0, len(c.items))
	for id := range c.items {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	items := make([]Item, 0, len(ids))
	for _, id := range ids {
		items = append(items, Item{ID: id, Payload: deepCopy(c.items[id])})
	}
	return items
}

// Replace fully overwrites the payload stored under id (PUT semantics);
// keys absent from the new payload are dropped.
func (c *Collection) Replace(id int, payload map[string]any) (Item, error) {
	if len(payload) == 0 {
		return Item{}, &ValidationError{Message: "request body must be a non-empty JSON object"}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[id]; !ok {
		return Item{}, &NotFoundError{Collection: c.name, ID: id}
	}
	c.items[id] = deepCopy(payload)
	return Item{ID: id, Payload: deepCopy(payload)}, nil
}

// Patch shallow-merges partial's top-level keys into the stored payload,
// overwriting on collision and leaving other keys untouched.
func (c *Collection) Patch(id int, partial map[string]any) (Item, error) {
	if len(partial) == 0 {
		return Item{}, &ValidationError{Message: "request body must be a non-empty JSON object"}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	existing, ok := c.items[id]
	if !ok {
		return Item{}, &NotFoundError{Collection: c.name, ID: id}
	}

	merged := deepCopy(existing)
	for k, v := range deepCopy(partial) {
		merged[k] = v
	}
	c.items[id] = merged
	return Item{ID: id, Payload: deepCopy(merged)}, nil
}

// Delete removes the item stored under id. The id is never reassigned;
// a later Get on the same id reports NotFound.
func (c *Collection) Delete(id int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[id]; !ok {
		return &NotFoundError{Collection: c.name, ID: id}
	}
	delete(c.items, id)
	return nil
}

// deepCopy isolates a payload by round-tripping it through JSON.
// Payloads arrive from json.Unmarshal, so the round trip is lossless.
func deepCopy(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	b, err := json.Marshal(src)
	if err != nil {
		dst := make(map[string]any, len(src))
		for k, v := range src {
			dst[k] = v
		}
		return dst
	}
	var dst map[string]any
	if err := json.Unmarshal(b, &dst); err != nil {
		dst = make(map[string]any, len(src))
		for k, v := range src {
			dst[k] = v
		}
	}
	return dst
}

// internal/app/roster/store.go
package roster

import "github.com/dalemusser/peopledir/internal/domain/models"

// Store is the ordered, id-unique list of members the directory shows.
//
// A Store is a value: every mutation returns a new Store and leaves the
// receiver untouched, so a State snapshot can be handed to a renderer while
// the next event is being applied.
type Store struct {
	members []models.Member
	index   map[string]int
}

// NewStore builds a Store from a backend list. Duplicate ids collapse into
// the position of their first occurrence, holding the last value seen.
func NewStore(ms []models.Member) Store {
	s := Store{
		members: make([]models.Member, 0, len(ms)),
		index:   make(map[string]int, len(ms)),
	}
	for _, m := range ms {
		if i, ok := s.index[m.ID]; ok {
			s.members[i] = m
			continue
		}
		s.index[m.ID] = len(s.members)
		s.members = append(s.members, m)
	}
	return s
}

// Load replaces the whole content of the store.
func (s Store) Load(ms []models.Member) Store {
	return NewStore(ms)
}

// Insert appends m. When a member with the same id is already present it is
// replaced in place instead, so ids stay unique.
func (s Store) Insert(m models.Member) Store {
	if i, ok := s.index[m.ID]; ok {
		return s.set(i, m)
	}
	out := s.clone(1)
	out.index[m.ID] = len(out.members)
	out.members = append(out.members, m)
	return out
}

// Replace swaps the member stored under id for m, keeping its position.
// It reports false, and returns s unchanged, when id is not present.
func (s Store) Replace(id string, m models.Member) (Store, bool) {
	i, ok := s.index[id]
	if !ok {
		return s, false
	}
	if m.ID != id {
		// The replacement carries a new id; it must not collide with another row.
		if _, taken := s.index[m.ID]; taken {
			return s.Remove(id).Replace(m.ID, m)
		}
	}
	out := s.set(i, m)
	if m.ID != id {
		delete(out.index, id)
		out.index[m.ID] = i
	}
	return out, true
}

// Remove drops the member with the given id. The order of the remaining
// members is unchanged. Removing an unknown id is a no-op.
func (s Store) Remove(id string) Store {
	i, ok := s.index[id]
	if !ok {
		return s
	}
	ms := make([]models.Member, 0, len(s.members)-1)
	ms = append(ms, s.members[:i]...)
	ms = append(ms, s.members[i+1:]...)
	return NewStore(ms)
}

// Get returns the member with the given id.
func (s Store) Get(id string) (models.Member, bool) {
	i, ok := s.index[id]
	if !ok {
		return models.Member{}, false
	}
	return s.members[i], true
}

// All returns a copy of the members in store order.
func (s Store) All() []models.Member {
	out := make([]models.Member, len(s.members))
	copy(out, s.members)
	return out
}

// Len is the number of members held.
func (s Store) Len() int { return len(s.members) }

func (s Store) set(i int, m models.Member) Store {
	out := s.clone(0)
	out.members[i] = m
	return out
}

func (s Store) clone(extra int) Store {
	out := Store{
		members: make([]models.Member, len(s.members), len(s.members)+extra),
		index:   make(map[string]int, len(s.index)+extra),
	}
	copy(out.members, s.members)
	for k, v := range s.index {
		out.index[k] = v
	}
	return out
}

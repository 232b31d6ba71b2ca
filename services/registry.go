package services

import (
	"log"
	"sync"
)

// Registry tracks the live connections of this process: who is online
// and which sockets receive a given tournament's broadcasts. It is pure
// cache over the store and never the source of truth. One Registry is
// created in main and handed to the coordinator; there is no package
// state.
type Registry struct {
	mu sync.RWMutex

	// byUser and byConn form a bidirectional index so that close-time
	// cleanup is a lookup, not a scan over every identity.
	byUser map[string]*Connection
	byConn map[*Connection]string

	// tournaments is the fan-out index: tournament id -> member conns.
	tournaments map[string]map[*Connection]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byUser:      make(map[string]*Connection),
		byConn:      make(map[*Connection]string),
		tournaments: make(map[string]map[*Connection]struct{}),
	}
}

// Register stores the identity -> connection mapping. A newer connection
// for the same identity supersedes the older one, which is closed and
// dropped from every index.
func (r *Registry) Register(userID string, conn *Connection) {
	r.mu.Lock()
	old := r.byUser[userID]
	r.byUser[userID] = conn
	r.byConn[conn] = userID
	if old != nil {
		delete(r.byConn, old)
		r.removeFromAllTournamentsLocked(old)
	}
	r.mu.Unlock()

	if old != nil {
		log.Printf("⚠️  [REGISTRY] superseding connection for user %s (old conn %s)", userID, old.ID())
		old.Close()
	}
}

// Get returns the live connection for an identity, if any.
func (r *Registry) Get(userID string) (*Connection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, ok := r.byUser[userID]
	return conn, ok
}

// AddToTournament adds the connection to a tournament's fan-out set,
// creating the set on first use.
func (r *Registry) AddToTournament(tournamentID string, conn *Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.tournaments[tournamentID]
	if !ok {
		set = make(map[*Connection]struct{})
		r.tournaments[tournamentID] = set
	}
	set[conn] = struct{}{}
}

// RemoveFromTournament drops the connection from a fan-out set. Removing
// an absent member is a cheap no-op; an emptied set stays in place.
func (r *Registry) RemoveFromTournament(tournamentID string, conn *Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if set, ok := r.tournaments[tournamentID]; ok {
		delete(set, conn)
	}
}

// Members returns a snapshot of a tournament's fan-out set, safe to
// iterate without holding the registry lock.
func (r *Registry) Members(tournamentID string) []*Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set := r.tournaments[tournamentID]
	if len(set) == 0 {
		return nil
	}
	members := make([]*Connection, 0, len(set))
	for conn := range set {
		members = append(members, conn)
	}
	return members
}

// OnClose removes a connection from every index it appears in. Called
// exactly once when the transport goes away; committed store state is
// deliberately left untouched (the reconcile sweep picks it up later).
func (r *Registry) OnClose(conn *Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if userID, ok := r.byConn[conn]; ok {
		// Only unmap the identity if this is still its current conn; a
		// superseding connection may already own the slot.
		if r.byUser[userID] == conn {
			delete(r.byUser, userID)
		}
		delete(r.byConn, conn)
	}
	r.removeFromAllTournamentsLocked(conn)
}

func (r *Registry) removeFromAllTournamentsLocked(conn *Connection) {
	for _, set := range r.tournaments {
		delete(set, conn)
	}
}

// ActiveUserIDs lists every identity with a live connection. Used by the
// reconcile sweep to spot stale INGAME participants.
func (r *Registry) ActiveUserIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.byUser))
	for id := range r.byUser {
		ids = append(ids, id)
	}
	return ids
}

// Stats reports registry counters for the /stats endpoint.
func (r *Registry) Stats() map[string]any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fanout := make(map[string]int, len(r.tournaments))
	for id, set := range r.tournaments {
		fanout[id] = len(set)
	}
	return map[string]any{
		"connections": len(r.byUser),
		"tournaments": fanout,
	}
}

// CloseAll closes every live connection. Called on process shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	conns := make([]*Connection, 0, len(r.byConn))
	for conn := range r.byConn {
		conns = append(conns, conn)
	}
	r.byUser = make(map[string]*Connection)
	r.byConn = make(map[*Connection]string)
	r.tournaments = make(map[string]map[*Connection]struct{})
	r.mu.Unlock()

	for _, conn := range conns {
		conn.Close()
	}
	log.Printf("✅ [REGISTRY] closed %d connection(s)", len(conns))
}

package main

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const maxRoomNameLen = 30

var (
	ErrRoomNotFound = errors.New("room not found")
	ErrRoomFull     = errors.New("too many active rooms")
)

// Room is one hosted match that displays and a controller can attach to
type Room struct {
	ID       string
	Name     string
	Mode     GameMode
	Game     *Game
	passHash string

	mu         sync.Mutex
	lastActive time.Time
}

// Private reports whether joining requires a passcode
func (r *Room) Private() bool { return r.passHash != "" }

func (r *Room) touch(now time.Time) {
	r.mu.Lock()
	r.lastActive = now
	r.mu.Unlock()
}

func (r *Room) idleSince() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastActive
}

// RoomOptions configures a RoomManager
type RoomOptions struct {
	MaxRooms      int
	IdleTimeout   time.Duration
	MatchingDelay float64
}

// RoomManager handles creation, lookup and reaping of rooms
type RoomManager struct {
	mu      sync.RWMutex
	rooms   map[string]*Room
	opts    RoomOptions
	log     zerolog.Logger
	metrics *Metrics
}

// NewRoomManager creates a new RoomManager
func NewRoomManager(opts RoomOptions, log zerolog.Logger, metrics *Metrics) *RoomManager {
	return &RoomManager{
		rooms:   make(map[string]*Room),
		opts:    opts,
		log:     log,
		metrics: metrics,
	}
}

// CreateRoom creates a room and starts its game loop
func (rm *RoomManager) CreateRoom(name string, mode GameMode, passcode string) (*Room, error) {
	if name == "" {
		name = "Rugby Pitch"
	}
	if len(name) > maxRoomNameLen {
		name = name[:maxRoomNameLen]
	}
	if mode != ModePractice && mode != ModeMatch {
		mode = ModePractice
	}
	hash, err := HashPasscode(passcode)
	if err != nil {
		return nil, err
	}

	rm.mu.Lock()
	if len(rm.rooms) >= rm.opts.MaxRooms {
		rm.mu.Unlock()
		return nil, ErrRoomFull
	}
	id := uuid.NewString()
	log := rm.log.With().Str("room", id).Logger()
	cfg := DefaultConfig(mode)
	cfg.MatchingDelay = rm.opts.MatchingDelay
	room := &Room{
		ID:         id,
		Name:       name,
		Mode:       mode,
		Game:       NewGame(cfg, log, rm.metrics),
		passHash:   hash,
		lastActive: time.Now(),
	}
	rm.rooms[id] = room
	count := len(rm.rooms)
	rm.mu.Unlock()

	go room.Game.Run()
	rm.metrics.RoomCreated(mode)
	rm.metrics.SetActiveRooms(count)
	log.Info().Str("name", name).Int("mode", int(mode)).Bool("private", room.Private()).Msg("room created")
	return room, nil
}

// GetRoom returns a room by ID
func (rm *RoomManager) GetRoom(id string) (*Room, error) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	r, ok := rm.rooms[id]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return r, nil
}

// MarkActive resets a room's idle clock
func (rm *RoomManager) MarkActive(id string) {
	if r, err := rm.GetRoom(id); err == nil {
		r.touch(time.Now())
	}
}

// RemoveDisplay detaches a display; an emptied room starts idling
func (rm *RoomManager) RemoveDisplay(roomID, connID string) {
	r, err := rm.GetRoom(roomID)
	if err != nil {
		return
	}
	r.Game.RemoveDisplay(connID)
	r.touch(time.Now())
}

// ListRooms returns info about all active rooms
func (rm *RoomManager) ListRooms() []RoomInfo {
	rm.mu.RLock()
	list := make([]RoomInfo, 0, len(rm.rooms))
	for _, r := range rm.rooms {
		list = append(list, RoomInfo{
			ID:       r.ID,
			Name:     r.Name,
			Mode:     int(r.Mode),
			Displays: r.Game.DisplayCount(),
			Private:  r.Private(),
			Phase:    r.Game.Phase().String(),
		})
	}
	rm.mu.RUnlock()
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID < list[j].ID
	})
	return list
}

// Count returns the number of live rooms
func (rm *RoomManager) Count() int {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return len(rm.rooms)
}

// Reap stops rooms with no displays that have idled past the timeout
func (rm *RoomManager) Reap(now time.Time) int {
	var stale []*Room
	rm.mu.Lock()
	for id, r := range rm.rooms {
		if r.Game.DisplayCount() == 0 && now.Sub(r.idleSince()) >= rm.opts.IdleTimeout {
			stale = append(stale, r)
			delete(rm.rooms, id)
		}
	}
	count := len(rm.rooms)
	rm.mu.Unlock()

	for _, r := range stale {
		r.Game.Stop()
		rm.log.Info().Str("room", r.ID).Msg("idle room closed")
	}
	if len(stale) > 0 {
		rm.metrics.SetActiveRooms(count)
	}
	return len(stale)
}

// RunReaper reaps idle rooms until ctx is done
func (rm *RoomManager) RunReaper(ctx context.Context) {
	every := rm.opts.IdleTimeout / 2
	if every <= 0 {
		every = time.Second
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case now := <-ticker.C:
			rm.Reap(now)
		case <-ctx.Done():
			return
		}
	}
}

// StopAll stops every room's game loop
func (rm *RoomManager) StopAll() {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	for id, r := range rm.rooms {
		r.Game.Stop()
		delete(rm.rooms, id)
	}
	rm.metrics.SetActiveRooms(0)
}

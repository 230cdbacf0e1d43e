package game

import (
	"math/rand"
	"sort"
	"time"

	"github.com/RishithSahu/FunSnakes/internal/protocol"
)

// Death describes one collision fatality resolved during a tick. Score
// is the victim's score at the moment of death.
type Death struct {
	VictimID int
	KillerID int
	Score    int
}

// TickResult reports what a single tick changed, for logging and
// leaderboard recording.
type TickResult struct {
	Deaths    []Death
	Respawned []int
}

// World owns every snake, the food set and the respawn schedule.
// Exactly one goroutine (the server's driver) may call its methods;
// the single-writer discipline is the concurrency model, not locks.
type World struct {
	params  Params
	rng     *rand.Rand
	snakes  map[int]*Snake
	foods   []Vec
	pending map[int]time.Time
}

// NewWorld creates a world with a full food set. The rand source is
// injected so tests can run deterministically.
func NewWorld(p Params, rng *rand.Rand) *World {
	w := &World{
		params:  p,
		rng:     rng,
		snakes:  make(map[int]*Snake),
		pending: make(map[int]time.Time),
	}
	w.foods = make([]Vec, p.FoodCount)
	for i := range w.foods {
		w.foods[i] = w.randomFood()
	}
	return w
}

// Params returns the active simulation rules.
func (w *World) Params() Params {
	return w.params
}

// Snake returns the snake for a player id, or nil.
func (w *World) Snake(id int) *Snake {
	return w.snakes[id]
}

// Spawn installs a fresh snake for a new player. Placement retries
// random candidates until the whole body is at least SpawnSeparation
// away from every existing segment, then falls back to the remote
// corner region rather than looping forever.
func (w *World) Spawn(id int, name, color string, now time.Time) *Snake {
	size := w.params.WorldSize
	var center Vec
	placed := false
	for attempt := 0; attempt < w.params.SpawnAttempts; attempt++ {
		center = Vec{
			X: 200 + w.rng.Float64()*(size-400),
			Y: 200 + w.rng.Float64()*(size-400),
		}
		if w.isSeparated(w.buildBody(center, w.params.BaseLength)) {
			placed = true
			break
		}
	}
	if !placed {
		center = Vec{
			X: size - 500 + w.rng.Float64()*300,
			Y: size - 500 + w.rng.Float64()*300,
		}
	}
	s := w.newSnake(id, name, color, now)
	s.Segments = w.buildBody(center, w.params.BaseLength)
	w.snakes[id] = s
	return s
}

// SpawnWithProgress installs a snake with restored score and length for
// a reconnecting player. The body is rebuilt by walking backward from a
// fresh head along the initial direction; the safe-placement search is
// not used on this path.
func (w *World) SpawnWithProgress(id int, name, color string, score, length int, now time.Time) *Snake {
	s := w.newSnake(id, name, color, now)
	if score > 0 {
		s.Score = score
	}
	if length < w.params.BaseLength {
		length = w.params.BaseLength
	}
	if length > w.params.MaxLength {
		length = w.params.MaxLength
	}
	size := w.params.WorldSize
	center := Vec{
		X: 100 + w.rng.Float64()*(size-200),
		Y: 100 + w.rng.Float64()*(size-200),
	}
	s.Segments = w.buildBody(center, length)
	w.snakes[id] = s
	return s
}

// Remove deletes a player's snake outright. Disconnection is immediate
// removal, never the dead/respawn path; any pending respawn for the id
// is dropped too.
func (w *World) Remove(id int) {
	delete(w.snakes, id)
	delete(w.pending, id)
}

// SetDirection forwards a queued direction event to the player's snake.
func (w *World) SetDirection(id int, dx, dy float64) {
	if s, ok := w.snakes[id]; ok {
		s.SetDirection(dx, dy)
	}
}

// Tick advances the world one step: respawn dead players whose delay
// elapsed, move every living snake, resolve food pickups, then resolve
// collisions against the aliveness set captured before the scan so that
// simultaneous hits all see the same view.
func (w *World) Tick(now time.Time) TickResult {
	var result TickResult

	for id, diedAt := range w.pending {
		if now.Sub(diedAt) < w.params.RespawnDelay {
			continue
		}
		if old, ok := w.snakes[id]; ok {
			delete(w.snakes, id)
			fresh := w.Spawn(id, old.Name, old.Color, now)
			fresh.Score = old.Score / 2
			result.Respawned = append(result.Respawned, id)
		}
		delete(w.pending, id)
	}

	order := w.tickOrder()

	for _, s := range order {
		if !s.Alive || len(s.Segments) == 0 {
			continue
		}
		s.step(w.params)
		if i := w.foodAt(s.Segments[0]); i >= 0 {
			s.Score++
			s.grow()
			s.clampToMax(w.params)
			w.foods[i] = w.randomFood()
		} else {
			s.trim(w.params)
		}
	}

	aliveAtStart := make(map[int]bool, len(order))
	for _, s := range order {
		if s.Alive && len(s.Segments) > 0 {
			aliveAtStart[s.ID] = true
		}
	}
	for _, s := range order {
		if !aliveAtStart[s.ID] {
			continue
		}
		if now.Sub(s.CreatedAt) < w.params.GracePeriod {
			continue
		}
		for _, other := range order {
			if !aliveAtStart[other.ID] {
				continue
			}
			if !s.hits(other, w.params) {
				continue
			}
			s.Alive = false
			w.pending[s.ID] = now
			if other.ID != s.ID {
				other.Score += w.params.KillBonus
			}
			result.Deaths = append(result.Deaths, Death{
				VictimID: s.ID,
				KillerID: other.ID,
				Score:    s.Score,
			})
			break
		}
	}

	return result
}

// Snapshot serializes the full world into the wire view. The returned
// state carries PlayerID 0; the broadcaster stamps the recipient's id
// into a shallow copy per connection.
func (w *World) Snapshot() *protocol.WorldState {
	state := &protocol.WorldState{
		WorldSize: w.params.WorldSize,
		Snakes:    make([]protocol.SnakeState, 0, len(w.snakes)),
		Foods:     make([][2]float64, len(w.foods)),
	}
	for _, s := range w.tickOrder() {
		segments := make([][2]float64, len(s.Segments))
		for i, seg := range s.Segments {
			segments[i] = [2]float64{seg.X, seg.Y}
		}
		state.Snakes = append(state.Snakes, protocol.SnakeState{
			ID:       s.ID,
			Name:     s.Name,
			Color:    s.Color,
			Segments: segments,
			Score:    s.Score,
			Alive:    s.Alive,
		})
	}
	for i, f := range w.foods {
		state.Foods[i] = [2]float64{f.X, f.Y}
	}
	return state
}

// tickOrder returns all snakes sorted by id. Map iteration order is not
// stable; collision resolution and snapshots need a deterministic pass.
func (w *World) tickOrder() []*Snake {
	out := make([]*Snake, 0, len(w.snakes))
	for _, s := range w.snakes {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (w *World) newSnake(id int, name, color string, now time.Time) *Snake {
	return &Snake{
		ID:        id,
		Name:      name,
		Color:     color,
		Direction: Vec{X: 1, Y: 0},
		Speed:     w.params.SnakeSpeed,
		Alive:     true,
		CreatedAt: now,
	}
}

// buildBody walks backward from head along the initial direction at
// fixed spacing, wrapping as needed.
func (w *World) buildBody(head Vec, length int) []Vec {
	dir := Vec{X: 1, Y: 0}
	body := make([]Vec, length)
	for i := range body {
		body[i] = head.Add(dir.Scale(-float64(i) * w.params.SegmentSpacing)).Wrap(w.params.WorldSize)
	}
	return body
}

// isSeparated reports whether every segment of body keeps the minimum
// spawn separation from every segment of every existing snake.
func (w *World) isSeparated(body []Vec) bool {
	for _, other := range w.snakes {
		for _, os := range other.Segments {
			for _, bs := range body {
				if Dist(os, bs) < w.params.SpawnSeparation {
					return false
				}
			}
		}
	}
	return true
}

// foodAt returns the index of the first food within pickup radius of
// pos, or -1.
func (w *World) foodAt(pos Vec) int {
	for i, f := range w.foods {
		if Dist(pos, f) < w.params.FoodRadius {
			return i
		}
	}
	return -1
}

func (w *World) randomFood() Vec {
	return Vec{
		X: w.rng.Float64() * w.params.WorldSize,
		Y: w.rng.Float64() * w.params.WorldSize,
	}
}

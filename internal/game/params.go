package game

import "time"

// Params are the tunable simulation rules. Zero values are never valid;
// start from DefaultParams.
type Params struct {
	// WorldSize is the side length of the square toroidal arena.
	WorldSize float64

	// FoodCount is the constant number of food items in the world.
	FoodCount int

	// SnakeSpeed is the per-tick head displacement.
	SnakeSpeed float64

	// BaseLength is the segment count of a fresh snake. Target length
	// grows by one segment per 10 score, capped at MaxLength.
	BaseLength int
	MaxLength  int

	// SegmentSpacing is the distance between segments of a freshly
	// built body chain.
	SegmentSpacing float64

	// SnakeRadius drives collision detection; a hit is declared inside
	// 1.2× this radius. FoodRadius is the pickup distance.
	SnakeRadius float64
	FoodRadius  float64

	// FastRejectDist skips the full collision scan when two heads are
	// further apart than this Manhattan distance. SampleStep bounds the
	// scan cost by testing every Nth segment.
	FastRejectDist float64
	SampleStep     int

	RespawnDelay time.Duration
	GracePeriod  time.Duration
	KillBonus    int

	// Spawn placement: retry up to SpawnAttempts random candidates,
	// rejecting any body within SpawnSeparation of an existing snake,
	// then fall back to the remote corner region.
	SpawnAttempts   int
	SpawnSeparation float64
}

// DefaultParams returns the standard arena rules.
func DefaultParams() Params {
	return Params{
		WorldSize:       3000,
		FoodCount:       850,
		SnakeSpeed:      4,
		BaseLength:      5,
		MaxLength:       100,
		SegmentSpacing:  3,
		SnakeRadius:     10,
		FoodRadius:      15,
		FastRejectDist:  500,
		SampleStep:      2,
		RespawnDelay:    5 * time.Second,
		GracePeriod:     5 * time.Second,
		KillBonus:       10,
		SpawnAttempts:   20,
		SpawnSeparation: 50,
	}
}

// Package generator builds practice problems.
package generator

import (
	"math/rand"
	"time"

	"github.com/pnw-engineering/AdditionGame/internal/model"
	"github.com/pnw-engineering/AdditionGame/internal/progress"
)

// Rand is the random source a Generator draws from.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// Generator produces problems for each level.
type Generator struct {
	rnd Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed returns a deterministic Generator.
func NewWithSeed(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// NewWithSource wraps an existing random source.
func NewWithSource(rnd Rand) *Generator {
	return &Generator{rnd: rnd}
}

// Rand exposes the underlying source so callers can share it.
func (g *Generator) Rand() Rand {
	return g.rnd
}

// Recognition picks a uniformly random target digit.
func (g *Generator) Recognition() model.Problem {
	return model.Problem{
		Level:  model.LevelRecognition,
		Target: int(progress.SelectDigit(g.rnd)),
	}
}

// Addition picks the next addends from the addition matrix.
func (g *Generator) Addition(m *progress.AdditionMatrix) model.Problem {
	pair := progress.SelectBalanced(m, g.rnd)
	return model.Problem{
		Level:  model.LevelAddition,
		First:  pair.First,
		Second: pair.Second,
	}
}

// Next generates a problem for level.
func (g *Generator) Next(level model.Level, p *progress.Progress) model.Problem {
	if level == model.LevelAddition {
		return g.Addition(&p.Addition)
	}
	return g.Recognition()
}

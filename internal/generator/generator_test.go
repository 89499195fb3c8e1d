package generator

import (
	"testing"

	"github.com/pnw-engineering/AdditionGame/internal/model"
	"github.com/pnw-engineering/AdditionGame/internal/progress"
)

func TestSeededGeneratorIsDeterministic(t *testing.T) {
	a := NewWithSeed(99)
	b := NewWithSeed(99)
	p := progress.New(nil)
	for i := 0; i < 20; i++ {
		pa := a.Next(model.LevelAddition, p)
		pb := b.Next(model.LevelAddition, p)
		if pa != pb {
			t.Fatalf("step %d: %+v != %+v", i, pa, pb)
		}
	}
}

func TestNextByLevel(t *testing.T) {
	g := NewWithSeed(1)
	p := progress.New(nil)
	rec := g.Next(model.LevelRecognition, p)
	if rec.Level != model.LevelRecognition || rec.Target < 0 || rec.Target > 9 {
		t.Fatalf("unexpected recognition problem: %+v", rec)
	}
	add := g.Next(model.LevelAddition, p)
	if add.Level != model.LevelAddition {
		t.Fatalf("unexpected addition problem: %+v", add)
	}
	if add.CorrectAnswer() != add.First+add.Second {
		t.Fatalf("unexpected correct answer for %+v", add)
	}
}

func TestAdditionFollowsMatrix(t *testing.T) {
	g := NewWithSeed(5)
	p := progress.New(nil)
	for i := 0; i < progress.Size; i++ {
		for j := 0; j < progress.Size; j++ {
			p.Addition.Tries[i][j] = 1
		}
	}
	p.Addition.Tries[8][2] = 0
	got := g.Addition(&p.Addition)
	if got.First != 8 || got.Second != 2 {
		t.Fatalf("expected 8 + 2, got %+v", got)
	}
}

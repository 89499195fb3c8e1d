// Package progress tracks per-item attempt and error counts and picks the
// next item to practice.
package progress

import "github.com/pnw-engineering/AdditionGame/internal/model"

// Size is the number of digits on each axis.
const Size = 10

// Item identifies one practice cell. It is either a Digit or a Pair.
type Item interface {
	Level() model.Level
	isItem()
}

// Digit is a recognition item.
type Digit int

// Level implements Item.
func (Digit) Level() model.Level { return model.LevelRecognition }

func (Digit) isItem() {}

// Pair is an addition item.
type Pair struct {
	First  int
	Second int
}

// Level implements Item.
func (Pair) Level() model.Level { return model.LevelAddition }

func (Pair) isItem() {}

// RecognitionMatrix holds counts per digit.
type RecognitionMatrix struct {
	Tries  [Size]int `json:"tries"`
	Errors [Size]int `json:"errors"`
}

// AdditionMatrix holds counts per (first, second) operand pair.
type AdditionMatrix struct {
	Tries  [Size][Size]int `json:"tries"`
	Errors [Size][Size]int `json:"errors"`
}

// Progress owns the matrices of every level.
type Progress struct {
	Recognition RecognitionMatrix
	Addition    AdditionMatrix

	onChange func(model.Level)
}

// New returns zero-filled progress. onChange may be nil; when set it is
// called after every successful mutation.
func New(onChange func(model.Level)) *Progress {
	return &Progress{onChange: onChange}
}

// SetOnChange replaces the change callback.
func (p *Progress) SetOnChange(fn func(model.Level)) {
	p.onChange = fn
}

// RecordTry counts one attempt at item.
func (p *Progress) RecordTry(item Item) error {
	cell, err := p.cell(item, false)
	if err != nil {
		return err
	}
	*cell++
	p.notify(item.Level())
	return nil
}

// RecordError counts one wrong answer for item.
func (p *Progress) RecordError(item Item) error {
	cell, err := p.errorCell(item)
	if err != nil {
		return err
	}
	*cell = max(0, *cell+1)
	p.notify(item.Level())
	return nil
}

// DecrementError lowers the error count for item, never below zero.
func (p *Progress) DecrementError(item Item) error {
	cell, err := p.errorCell(item)
	if err != nil {
		return err
	}
	*cell = max(0, *cell-1)
	p.notify(item.Level())
	return nil
}

// Tries returns the attempt count for item.
func (p *Progress) Tries(item Item) (int, error) {
	cell, err := p.cell(item, false)
	if err != nil {
		return 0, err
	}
	return *cell, nil
}

// Errors returns the error count for item.
func (p *Progress) Errors(item Item) (int, error) {
	cell, err := p.errorCell(item)
	if err != nil {
		return 0, err
	}
	return *cell, nil
}

// Reset zeroes the matrix of one level.
func (p *Progress) Reset(level model.Level) error {
	switch level {
	case model.LevelRecognition:
		p.Recognition = RecognitionMatrix{}
	case model.LevelAddition:
		p.Addition = AdditionMatrix{}
	default:
		return &ValidationError{Field: "level", Value: int(level)}
	}
	p.notify(level)
	return nil
}

func (p *Progress) errorCell(item Item) (*int, error) {
	return p.cell(item, true)
}

// cell resolves item to its tries or errors counter.
func (p *Progress) cell(item Item, errs bool) (*int, error) {
	switch it := item.(type) {
	case Digit:
		if err := checkIndex("digit", int(it)); err != nil {
			return nil, err
		}
		if errs {
			return &p.Recognition.Errors[it], nil
		}
		return &p.Recognition.Tries[it], nil
	case Pair:
		if err := checkIndex("first", it.First); err != nil {
			return nil, err
		}
		if err := checkIndex("second", it.Second); err != nil {
			return nil, err
		}
		if errs {
			return &p.Addition.Errors[it.First][it.Second], nil
		}
		return &p.Addition.Tries[it.First][it.Second], nil
	default:
		return nil, &ValidationError{Field: "item", Value: -1}
	}
}

func (p *Progress) notify(level model.Level) {
	if p.onChange != nil {
		p.onChange(level)
	}
}

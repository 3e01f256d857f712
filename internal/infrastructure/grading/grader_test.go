package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alem-hub/classlist/internal/domain/assignment"
)

func TestRandom_StaysInRange(t *testing.T) {
	g := NewRandom(42)
	seen := make(map[int]bool)

	for i := 0; i < 5000; i++ {
		grade := g.NextGrade()
		assert.GreaterOrEqual(t, grade, assignment.MinGrade)
		assert.LessOrEqual(t, grade, assignment.MaxGrade)
		seen[grade] = true
	}

	// Both ends of the inclusive range are reachable.
	assert.True(t, seen[assignment.MinGrade])
	assert.True(t, seen[assignment.MaxGrade])
}

func TestRandom_SeedIsReproducible(t *testing.T) {
	a, b := NewRandom(7), NewRandom(7)
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.NextGrade(), b.NextGrade())
	}
}

func TestFixed_Cycles(t *testing.T) {
	g := Fixed(60, 40)
	assert.Equal(t, []int{60, 40, 60}, []int{g.NextGrade(), g.NextGrade(), g.NextGrade()})

	assert.Equal(t, assignment.MinGrade, Fixed().NextGrade())
}

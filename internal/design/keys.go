package design

import (
	"fmt"
	"math/rand/v2"
)

// KeyAssignment maps the two semantic responses to physical keys.
// It is drawn once per session.
type KeyAssignment struct {
	Cat string `json:"cat"`
	Dog string `json:"dog"`
}

// DrawKeyAssignment counterbalances the response keys with a single binary draw.
func DrawKeyAssignment(rng *rand.Rand, keys [2]string) KeyAssignment {
	return AssignKeys(rng.IntN(2), keys)
}

// AssignKeys returns the assignment for a known draw: 0 maps Cat to keys[0],
// 1 maps Cat to keys[1].
func AssignKeys(draw int, keys [2]string) KeyAssignment {
	if draw == 0 {
		return KeyAssignment{Cat: keys[0], Dog: keys[1]}
	}
	return KeyAssignment{Cat: keys[1], Dog: keys[0]}
}

// Keys returns the candidate response keys.
func (k KeyAssignment) Keys() []string {
	return []string{k.Cat, k.Dog}
}

// Key returns the physical key for a semantic response.
func (k KeyAssignment) Key(c Category) (string, error) {
	switch c {
	case CategoryCat:
		return k.Cat, nil
	case CategoryDog:
		return k.Dog, nil
	default:
		return "", fmt.Errorf("no response key for category %q", c)
	}
}

// Meaning maps a physical key back to its semantic response.
func (k KeyAssignment) Meaning(key string) (Category, bool) {
	switch key {
	case k.Cat:
		return CategoryCat, true
	case k.Dog:
		return CategoryDog, true
	default:
		return "", false
	}
}

// Package catalog picks a tone-matched reply for a sentiment class
package catalog

import (
	"math/rand/v2"
	"sync"

	"sentibot/internal/core/sentiment"
)

// Catalog maps the scored classes to their reply lists
type Catalog struct {
	mu      sync.Mutex
	rng     *rand.Rand
	replies map[sentiment.Class][]string
}

// New builds a Catalog; a nil src seeds from the runtime
func New(positive, negative, neutral []string, src rand.Source) *Catalog {
	var rng *rand.Rand
	if src != nil {
		rng = rand.New(src)
	}
	return &Catalog{
		rng: rng,
		replies: map[sentiment.Class][]string{
			sentiment.Positive: clone(positive),
			sentiment.Negative: clone(negative),
			sentiment.Neutral:  clone(neutral),
		},
	}
}

// Pick returns a uniformly chosen reply; ok is false for error or unknown classes
func (c *Catalog) Pick(class sentiment.Class) (string, bool) {
	lst := c.replies[class]
	if len(lst) == 0 {
		return "", false
	}
	return lst[c.intn(len(lst))], true
}

// Replies returns a copy of the list for class
func (c *Catalog) Replies(class sentiment.Class) []string { return clone(c.replies[class]) }

func (c *Catalog) intn(n int) int {
	if c.rng == nil {
		return rand.IntN(n)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rng.IntN(n)
}

func clone(in []string) []string { return append([]string(nil), in...) }

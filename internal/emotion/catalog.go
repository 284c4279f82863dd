package emotion

import (
	"regexp"
	"sort"
	"strings"
	"sync"
)

const (
	Joy     = "joy"
	Sadness = "sadness"
	Anger   = "anger"
	Fear    = "fear"
	Disgust = "disgust"
	Neutral = "neutral"
)

const (
	baseMatchScore = 0.3
	scoreCeiling   = 1.0
)

// Modifier scales every emotion score of a text when Phrase occurs in it.
type Modifier struct {
	Phrase     string  `json:"phrase"`
	Multiplier float64 `json:"multiplier"`
}

// Declaration order doubles as the tie-break order for Primary.
var emotionPatterns = []struct {
	emotion  string
	patterns []string
}{
	{emotion: Joy, patterns: []string{
		`\b(happy|glad|joy|excited|thrilled|delighted|pleased|great|wonderful|amazing|fantastic)\b`,
		`\b(love|adore|enjoy|like|favorite|best|excellent|outstanding|brilliant)\b`,
		`\b(smile|laugh|fun|enjoyment|pleasure|satisfaction|contentment)\b`,
	}},
	{emotion: Sadness, patterns: []string{
		`\b(sad|unhappy|disappointed|depressed|miserable|sorrow|grief|melancholy)\b`,
		`\b(upset|hurt|broken|defeated|hopeless|lonely|isolated|abandoned)\b`,
		`\b(cry|tears|weep|mourn|regret|remorse|guilt|shame)\b`,
	}},
	{emotion: Anger, patterns: []string{
		`\b(angry|mad|furious|enraged|irritated|annoyed|frustrated|outraged)\b`,
		`\b(hate|despise|loathe|disgust|contempt|rage|wrath|fury)\b`,
		`\b(yell|scream|shout|explode|boil|steam|fume|seethe)\b`,
	}},
	{emotion: Fear, patterns: []string{
		`\b(afraid|scared|terrified|frightened|panicked|anxious|worried|nervous)\b`,
		`\b(horror|dread|terror|panic|alarm|distress|unease|apprehension)\b`,
		`\b(threat|danger|risk|hazard|peril|menace|intimidation)\b`,
	}},
	{emotion: Disgust, patterns: []string{
		`\b(disgust|disgusted|disgusting|repulsed|revolted|sickened|nauseated|appalled|horrified)\b`,
		`\b(gross|nasty|filthy|dirty|contaminated|polluted|corrupt)\b`,
		`\b(abhor|detest|loathe|despise|abominate|execrate)\b`,
	}},
}

// Scanned in this order; the first phrase found wins.
var intensityModifiers = []Modifier{
	{Phrase: "very", Multiplier: 1.5},
	{Phrase: "really", Multiplier: 1.4},
	{Phrase: "extremely", Multiplier: 1.8},
	{Phrase: "incredibly", Multiplier: 1.7},
	{Phrase: "absolutely", Multiplier: 1.6},
	{Phrase: "slightly", Multiplier: 0.7},
	{Phrase: "somewhat", Multiplier: 0.8},
	{Phrase: "kind of", Multiplier: 0.6},
}

// Catalog holds the compiled emotion vocabulary and the intensity table.
// It is never mutated after construction.
type Catalog struct {
	emotions  []string
	patterns  map[string][]*regexp.Regexp
	modifiers []Modifier
}

var (
	defaultCatalog     *Catalog
	defaultCatalogOnce sync.Once
)

// DefaultCatalog returns the process-wide catalog, compiling it on first use.
func DefaultCatalog() *Catalog {
	defaultCatalogOnce.Do(func() {
		defaultCatalog = newCatalog()
	})
	return defaultCatalog
}

func newCatalog() *Catalog {
	c := &Catalog{
		emotions:  make([]string, 0, len(emotionPatterns)),
		patterns:  make(map[string][]*regexp.Regexp, len(emotionPatterns)),
		modifiers: append([]Modifier(nil), intensityModifiers...),
	}
	for _, item := range emotionPatterns {
		c.emotions = append(c.emotions, item.emotion)
		compiled := make([]*regexp.Regexp, 0, len(item.patterns))
		for _, p := range item.patterns {
			compiled = append(compiled, regexp.MustCompile(p))
		}
		c.patterns[item.emotion] = compiled
	}
	return c
}

func (c *Catalog) Emotions() []string {
	return append([]string(nil), c.emotions...)
}

func (c *Catalog) Modifiers() []Modifier {
	return append([]Modifier(nil), c.modifiers...)
}

// Patterns returns the source expressions of an emotion's vocabulary.
func (c *Catalog) Patterns(emotion string) []string {
	compiled := c.patterns[emotion]
	out := make([]string, 0, len(compiled))
	for _, re := range compiled {
		out = append(out, re.String())
	}
	return out
}

func (c *Catalog) intensity(text string) float64 {
	for _, m := range c.modifiers {
		if strings.Contains(text, m.Phrase) {
			return m.Multiplier
		}
	}
	return 1.0
}

// rankOrder is the catalog order followed by any unknown labels, sorted.
func (c *Catalog) rankOrder(scores map[string]float64) []string {
	order := append([]string(nil), c.emotions...)
	var extra []string
	for k := range scores {
		if _, ok := c.patterns[k]; !ok {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return append(order, extra...)
}

package challenge

import "strings"

// emojiMoods maps an exact (trimmed) emoji input to its mood; several emoji alias one mood.
var emojiMoods = map[string]Mood{
	"😊": MoodHappy,
	"🙂": MoodHappy,
	"😃": MoodHappy,
	"😢": MoodSad,
	"😥": MoodSad,
	"😴": MoodTired,
	"😫": MoodTired,
	"🤩": MoodExcited,
	"😄": MoodExcited,
}

type keywordBucket struct {
	mood     Mood
	keywords []string
}

// keywordBuckets are checked in order; the first bucket with a contained keyword wins.
var keywordBuckets = []keywordBucket{
	{mood: MoodHappy, keywords: []string{"happy", "good"}},
	{mood: MoodTired, keywords: []string{"tired", "sleep"}},
	{mood: MoodExcited, keywords: []string{"excited", "great"}},
	{mood: MoodSad, keywords: []string{"sad", "down"}},
}

// Classifier maps free text or an emoji to a mood category.
type Classifier struct {
	rng Rand
}

// NewClassifier returns a Classifier that draws unrecognized input from rng.
func NewClassifier(rng Rand) *Classifier {
	if rng == nil {
		rng = DefaultRand()
	}
	return &Classifier{rng: rng}
}

// Classify never fails: input matching neither an emoji nor a keyword yields a mood chosen
// uniformly at random from KnownMoods.
func (c *Classifier) Classify(raw string) Mood {
	text := strings.ToLower(strings.TrimSpace(raw))

	if mood, ok := emojiMoods[text]; ok {
		return mood
	}

	for _, bucket := range keywordBuckets {
		for _, kw := range bucket.keywords {
			if strings.Contains(text, kw) {
				return bucket.mood
			}
		}
	}

	return KnownMoods[c.rng.IntN(len(KnownMoods))]
}

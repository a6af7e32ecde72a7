package intent

import (
	"regexp"
	"sort"
	"strings"
)

const (
	patternWeight = 1.0
	synonymWeight = 0.5
)

var tokenRe = regexp.MustCompile(`[a-z0-9']+`)

// Candidate is one scored intent, kept for diagnostics and tests.
type Candidate struct {
	Intent string            `json:"intent"`
	Score  float64           `json:"score"`
	Params map[string]string `json:"params,omitempty"`
}

// Result is the outcome of a single classification. Identical input
// always yields an identical Result.
type Result struct {
	Intent     string            `json:"intent"`
	Confidence float64           `json:"confidence"`
	Params     map[string]string `json:"params,omitempty"`
	Candidates []Candidate       `json:"candidates,omitempty"`
}

// Classifier is a pure function over the injected tables. It holds no
// mutable state and is safe for concurrent use.
type Classifier struct {
	table *Table
	syn   *Synonyms
}

// New creates a classifier over the given tables.
func New(table *Table, syn *Synonyms) *Classifier {
	return &Classifier{table: table, syn: syn}
}

// NewDefault creates a classifier over the shipped tables.
func NewDefault() *Classifier {
	table := DefaultTable()
	return New(table, DefaultSynonyms(table))
}

// Classify maps free text to exactly one intent.
//
// Scoring: every satisfied pattern adds 1.0 to its intent, every synonym
// token/phrase hit adds 0.5. Fixed phrases match before single tokens and
// consume their words. The first satisfied pattern of an intent
// supplies its extracted parameters. Ties break on the declaration order
// of the table. Confidence is best/(best+runnerUp+1), so an uncontested
// intent approaches 1.0 and ambiguous input stays well below it. A zero
// best score yields the unknown sentinel at confidence 0.
func (c *Classifier) Classify(input string) Result {
	normalized := strings.ToLower(strings.TrimSpace(input))

	scores := make([]float64, c.table.Len())
	params := make([]map[string]string, c.table.Len())

	// Pattern pass, in declaration order.
	for i, def := range c.table.Definitions() {
		for _, p := range def.Patterns {
			m := p.Expr.FindStringSubmatch(normalized)
			if m == nil {
				continue
			}
			scores[i] += patternWeight
			if p.Param != "" && len(m) > 1 && m[1] != "" && params[i] == nil {
				params[i] = map[string]string{p.Param: strings.TrimSpace(m[1])}
			} else if params[i] == nil {
				params[i] = map[string]string{}
			}
		}
	}

	// Synonym pass: fixed phrases first, which mask their matched spans;
	// the token lookup then runs on the remainder.
	phraseScores, masked := c.syn.phraseHits(normalized)
	for mapped, n := range phraseScores {
		scores[c.table.Position(mapped)] += synonymWeight * float64(n)
	}
	for _, token := range tokenRe.FindAllString(masked, -1) {
		if mapped, ok := c.syn.LookupToken(token); ok {
			scores[c.table.Position(mapped)] += synonymWeight
		}
	}

	// Selection: strict greater-than keeps the earliest declared intent
	// on equal scores.
	best, runnerUp := -1, -1
	for i := range scores {
		if scores[i] <= 0 {
			continue
		}
		switch {
		case best == -1 || scores[i] > scores[best]:
			runnerUp = best
			best = i
		case runnerUp == -1 || scores[i] > scores[runnerUp]:
			runnerUp = i
		}
	}

	if best == -1 {
		return Result{Intent: IntentUnknown, Confidence: 0}
	}

	var candidates []Candidate
	for i, def := range c.table.Definitions() {
		if scores[i] <= 0 {
			continue
		}
		p := params[i]
		if p != nil && len(p) == 0 {
			p = nil
		}
		candidates = append(candidates, Candidate{Intent: def.Name, Score: scores[i], Params: p})
	}
	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].Score > candidates[b].Score
	})

	runnerUpScore := 0.0
	if runnerUp != -1 {
		runnerUpScore = scores[runnerUp]
	}
	confidence := scores[best] / (scores[best] + runnerUpScore + 1)
	if confidence < 0 {
		confidence = 0
	} else if confidence > 1 {
		confidence = 1
	}

	selected := params[best]
	if selected != nil && len(selected) == 0 {
		selected = nil
	}

	return Result{
		Intent:     c.table.Definitions()[best].Name,
		Confidence: confidence,
		Params:     selected,
		Candidates: candidates,
	}
}

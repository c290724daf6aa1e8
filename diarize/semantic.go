package diarize

import (
	"strings"
	"unicode/utf8"

	"github.com/skillsenselab/diarkit/logger"
	"github.com/skillsenselab/diarkit/validation"
)

// SemanticConfig names the heuristic constants of the semantic pass.
type SemanticConfig struct {
	// EarlySegments counts how many opening segments get EarlyWeight in
	// role scoring; the greeting and problem statement carry the
	// strongest role signal.
	EarlySegments int     `mapstructure:"early_segments" validate:"gte=0"`
	EarlyWeight   float64 `mapstructure:"early_weight" validate:"gte=1"`

	// StrongKeywordCount is the number of other-role keywords that
	// relabels a whole segment.
	StrongKeywordCount int `mapstructure:"strong_keyword_count" validate:"gte=1"`

	// Sandwich smoothing: a segment wedged between two segments of the
	// other speaker is absorbed when shorter than SandwichMaxDuration
	// seconds or at most SandwichMaxWords words, and semantically neutral.
	SandwichMaxDuration float64 `mapstructure:"sandwich_max_duration" validate:"gt=0"`
	SandwichMaxWords    int     `mapstructure:"sandwich_max_words" validate:"gte=1"`

	// SplitMinOffset is the minimum character offset of a boundary phrase
	// for a mid-segment split; phrases at the very start indicate a plain
	// attribution error instead.
	SplitMinOffset int `mapstructure:"split_min_offset" validate:"gte=0"`
}

// DefaultSemanticConfig returns the tuned defaults.
func DefaultSemanticConfig() SemanticConfig {
	return SemanticConfig{
		EarlySegments:       5,
		EarlyWeight:         2.0,
		StrongKeywordCount:  2,
		SandwichMaxDuration: 1.5,
		SandwichMaxWords:    3,
		SplitMinOffset:      5,
	}
}

// RoleCorrector fixes attribution errors in a diarized segment list using
// the text: it decides which speaker is the service manager and which is
// the client, relabels segments carrying strong other-role vocabulary,
// splits segments hiding a turn boundary, and smooths insignificant
// wedged segments.
type RoleCorrector struct {
	cfg   SemanticConfig
	vocab Vocabulary
	log   *logger.Logger
}

// NewRoleCorrector validates the config and returns a corrector.
func NewRoleCorrector(cfg SemanticConfig, vocab Vocabulary, log *logger.Logger) (*RoleCorrector, error) {
	if err := validation.Validate(cfg); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &RoleCorrector{cfg: cfg, vocab: vocab, log: log.WithComponent("semantic")}, nil
}

// Correct returns the corrected segment list and the number of segments
// whose label changed. The input slice is not modified.
func (c *RoleCorrector) Correct(segments []Segment) ([]Segment, int) {
	if len(segments) == 0 {
		return segments, 0
	}

	managerID, clientID := c.identifyRoles(segments)
	c.log.Info("semantic roles identified", logger.Fields(
		"manager_id", managerID,
		"client_id", clientID,
	))

	corrected, changes := c.relabelAndSplit(segments, managerID, clientID)
	smoothed, smoothChanges := c.smooth(corrected, managerID, clientID)
	return smoothed, changes + smoothChanges
}

// identifyRoles sums weighted keyword hits per speaker. The speaker with
// the higher service-side score becomes the manager; a tie resolves to
// SPEAKER_01.
func (c *RoleCorrector) identifyRoles(segments []Segment) (managerID, clientID string) {
	managerScore := map[string]float64{}
	for i, seg := range segments {
		text := cleanText(seg.Text)
		weight := 1.0
		if i < c.cfg.EarlySegments {
			weight = c.cfg.EarlyWeight
		}
		for _, term := range c.vocab.Manager {
			if containsTerm(text, term) {
				managerScore[seg.Speaker] += weight
			}
		}
	}

	if managerScore[Speaker01] >= managerScore[Speaker02] {
		return Speaker01, Speaker02
	}
	return Speaker02, Speaker01
}

// relabelAndSplit scans segments in order, splitting client segments that
// hide a manager question mid-text and relabeling segments dominated by
// the other role's vocabulary.
func (c *RoleCorrector) relabelAndSplit(segments []Segment, managerID, clientID string) ([]Segment, int) {
	out := make([]Segment, 0, len(segments))
	changes := 0

	for _, seg := range segments {
		text := cleanText(seg.Text)

		if seg.Speaker == clientID {
			if first, second, ok := c.trySplit(seg, text, managerID, clientID); ok {
				out = append(out, first, second)
				changes++
				continue
			}
		}

		relabeled := seg
		switch seg.Speaker {
		case clientID:
			if c.strongManagerSignal(text, seg.Text) {
				relabeled.Speaker = managerID
			}
		case managerID:
			if c.strongClientSignal(text) {
				relabeled.Speaker = clientID
			}
		}
		if relabeled.Speaker != seg.Speaker {
			changes++
			c.log.Debug("segment relabeled", logger.Fields(
				logger.FieldSpeaker, relabeled.Speaker,
				"text", seg.Text,
			))
		}
		out = append(out, relabeled)
	}
	return out, changes
}

// trySplit looks for a boundary phrase at a non-initial position and, when
// found, splits the segment at the time offset proportional to the
// phrase's character index: text before it stays with the client, text
// from it onward goes to the manager.
func (c *RoleCorrector) trySplit(seg Segment, text string, managerID, clientID string) (Segment, Segment, bool) {
	for _, phrase := range c.vocab.SplitPhrases {
		idx := indexTerm(text, phrase)
		if idx <= c.cfg.SplitMinOffset {
			continue
		}

		splitTime := seg.Start + seg.Duration()*float64(idx)/float64(len(text))

		first := seg
		first.Text = strings.TrimSpace(seg.Text[:idx])
		first.End = splitTime
		first.Speaker = clientID

		second := seg
		second.Text = strings.TrimSpace(seg.Text[idx:])
		second.Start = splitTime
		second.Speaker = managerID

		return first, second, true
	}
	return Segment{}, Segment{}, false
}

// strongManagerSignal reports whether a client-labeled segment clearly
// belongs to the service side. rawText keeps punctuation for the
// question-mark check.
func (c *RoleCorrector) strongManagerSignal(text, rawText string) bool {
	if c.countTerms(text, c.vocab.Manager) >= c.cfg.StrongKeywordCount {
		return true
	}
	// Callback promise: "I will find out ... call you back".
	if containsTerm(text, "i will find out") && containsTerm(text, "call you back") {
		return true
	}
	// A price quote, as opposed to a price question.
	if containsTerm(text, "cost") && containsTerm(text, "dollars") && !strings.Contains(rawText, "?") {
		return true
	}
	// Explicit self-identification as the shop.
	if containsTerm(text, "service") && containsTerm(text, "center") {
		return true
	}
	for _, phrase := range c.vocab.SplitPhrases {
		if containsTerm(text, phrase) {
			return true
		}
	}
	return false
}

// strongClientSignal reports whether a manager-labeled segment clearly
// belongs to the customer side.
func (c *RoleCorrector) strongClientSignal(text string) bool {
	if c.countTerms(text, c.vocab.Client) >= c.cfg.StrongKeywordCount {
		return true
	}
	for _, brand := range c.vocab.CarBrands {
		if containsTerm(text, brand) {
			return true
		}
	}
	// An explicit price question.
	if containsTerm(text, "how much") && containsTerm(text, "cost") {
		return true
	}
	return false
}

// smooth applies the sandwich rule: a segment wedged between two segments
// of one other speaker is reassigned to that speaker when insignificant.
// Short acknowledgement replies are protected; they are plausible real
// turns.
func (c *RoleCorrector) smooth(segments []Segment, managerID, clientID string) ([]Segment, int) {
	if len(segments) < 3 {
		return segments, 0
	}

	out := make([]Segment, 0, len(segments))
	out = append(out, segments[0])
	changes := 0

	for i := 1; i < len(segments)-1; i++ {
		curr := segments[i]
		prev := out[len(out)-1]
		next := segments[i+1]

		if prev.Speaker == next.Speaker && curr.Speaker != prev.Speaker {
			text := cleanText(curr.Text)
			wordCount := len(strings.Fields(text))
			isShort := curr.Duration() < c.cfg.SandwichMaxDuration || wordCount <= c.cfg.SandwichMaxWords
			if isShort && c.isNeutral(text, curr.Speaker, managerID) && !c.isAcknowledgement(text, wordCount) {
				c.log.Debug("sandwich smoothing", logger.Fields(
					logger.FieldSpeaker, prev.Speaker,
					"text", curr.Text,
				))
				curr.Speaker = prev.Speaker
				changes++
			}
		}
		out = append(out, curr)
	}
	out = append(out, segments[len(segments)-1])
	return out, changes
}

// isNeutral reports that the text carries no keywords of the segment's
// own assigned role.
func (c *RoleCorrector) isNeutral(text, speaker, managerID string) bool {
	ownVocab := c.vocab.Client
	if speaker == managerID {
		ownVocab = c.vocab.Manager
	} else {
		// Brands count as client vocabulary.
		for _, brand := range c.vocab.CarBrands {
			if containsTerm(text, brand) {
				return false
			}
		}
	}
	for _, term := range ownVocab {
		if containsTerm(text, term) {
			return false
		}
	}
	return true
}

// isAcknowledgement reports a short reply built around a yes/no/thanks
// class token.
func (c *RoleCorrector) isAcknowledgement(text string, wordCount int) bool {
	if wordCount > c.cfg.SandwichMaxWords {
		return false
	}
	for _, ack := range c.vocab.Acknowledgements {
		if containsTerm(text, ack) {
			return true
		}
	}
	return false
}

func (c *RoleCorrector) countTerms(text string, terms []string) int {
	count := 0
	for _, term := range terms {
		if containsTerm(text, term) {
			count++
		}
	}
	return count
}

// cleanText lowercases ASCII letters and replaces everything else except
// digits and the ASCII apostrophe with spaces. A replaced rune becomes as
// many space bytes as it occupied, so byte offsets found in the cleaned
// text stay valid for slicing the raw text at a split.
func cleanText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r >= 'A' && r <= 'Z':
			b.WriteByte(byte(r) + ('a' - 'A'))
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '\'':
			b.WriteByte(byte(r))
		default:
			for n := 0; n < size; n++ {
				b.WriteByte(' ')
			}
		}
		i += size
	}
	return b.String()
}

// indexTerm returns the character index of term inside text, matching only
// on word boundaries, or -1.
func indexTerm(text, term string) int {
	if term == "" {
		return -1
	}
	for from := 0; ; {
		idx := strings.Index(text[from:], term)
		if idx < 0 {
			return -1
		}
		idx += from
		end := idx + len(term)
		startOK := idx == 0 || text[idx-1] == ' '
		endOK := end == len(text) || text[end] == ' '
		if startOK && endOK {
			return idx
		}
		from = idx + 1
	}
}

func containsTerm(text, term string) bool {
	return indexTerm(text, term) >= 0
}

package spell

import "sync"

// rankedWords is the embedded dictionary, ordered by descending corpus
// frequency. The order is the correction ranking: when two candidates are
// the same edit distance away, the earlier (more frequent) word wins.
var rankedWords = []string{
	"the", "be", "to", "of", "and", "a", "in", "that", "have", "i",
	"it", "for", "not", "on", "with", "he", "as", "you", "do", "at",
	"this", "but", "his", "by", "from", "they", "we", "say", "her", "she",
	"or", "an", "will", "my", "one", "all", "would", "there", "their", "what",
	"so", "up", "out", "if", "about", "who", "get", "which", "go", "me",
	"when", "make", "can", "like", "time", "no", "just", "him", "know", "take",
	"people", "into", "year", "your", "good", "some", "could", "them", "see", "other",
	"than", "then", "now", "look", "only", "come", "its", "over", "think", "also",
	"back", "after", "use", "two", "how", "our", "work", "first", "well", "way",
	"even", "new", "want", "because", "any", "these", "give", "day", "most", "us",
	"was", "were", "are", "been", "being", "is", "has", "had", "did", "does",
	"said", "made", "went", "came", "found", "called", "where", "here", "why", "more",
	"very", "much", "many", "before", "through", "between", "under", "during", "again", "against",
	"while", "should", "still", "such", "each", "those", "same", "both", "last", "long",
	"great", "little", "own", "old", "right", "big", "high", "different", "small", "large",
	"next", "early", "young", "important", "few", "public", "bad", "able", "water", "power",
	"problem", "problems", "hand", "part", "place", "case", "week", "company", "system", "systems",
	"program", "question", "questions", "government", "number", "night", "point", "home", "world", "room",
	"fact", "month", "lot", "study", "book", "eye", "job", "word", "words", "business",
	"issue", "side", "kind", "head", "house", "service", "friend", "father", "mother", "hour",
	"game", "line", "end", "member", "law", "car", "city", "community", "name", "team",
	"minute", "idea", "body", "information", "nothing", "area", "state", "story", "result", "change",
	"morning", "reason", "research", "moment", "report", "reports", "letter", "office", "document", "documents",
	"contact", "today", "tomorrow", "yesterday", "meeting", "message", "project", "process", "answer", "detail",
	"details", "review", "request", "response", "notice", "record", "records", "schedule", "address", "subject",
	"vehicle", "vehicles", "guidance", "crossing", "journey", "travel", "ocean", "sea", "ship", "flight",
	"arrival", "departure", "distance", "direction", "course", "speed", "weather", "condition", "conditions", "plan",
	"relax", "dream", "sleep", "rest", "read", "write", "walk", "swim", "listen", "speak",
	"complete", "continue", "finish", "start", "begin", "remain", "ready", "clear", "simple", "certain",
	"received", "sent", "signed", "dated", "noted", "provided", "filed", "stated", "submitted", "issued",
	"text", "page", "pages", "section", "chapter", "title", "figure", "table", "summary", "content",
	"link", "email", "site", "online", "arrived", "delivered", "returned", "visited", "reached", "terminal",
	"late", "soon", "never", "always", "often", "once", "away", "above", "below", "around",
}

// knownMisspellings maps frequent OCR/typing misspellings straight to their
// correction. Checked before any edit-distance search.
var knownMisspellings = map[string]string{
	"teh":        "the",
	"adn":        "and",
	"taht":       "that",
	"recieve":    "receive",
	"recieved":   "received",
	"seperate":   "separate",
	"occured":    "occurred",
	"untill":     "until",
	"wich":       "which",
	"becuase":    "because",
	"definately": "definitely",
	"goverment":  "government",
	"documnet":   "document",
	"adress":     "address",
	"sucess":     "success",
}

// ocrConfusions lists glyph pairs OCR engines swap inside words. Used to
// generate cheap one-substitution variants before the edit-distance scan.
var ocrConfusions = map[rune][]rune{
	'l': {'i', '1'},
	'i': {'l', '1'},
	'1': {'l', 'i'},
	'o': {'0'},
	'0': {'o'},
	'm': {'n'},
	'n': {'m'},
	's': {'5'},
	'5': {'s'},
	'z': {'2'},
	'2': {'z'},
}

type dictionary struct {
	ranked []string
	set    map[string]struct{}
}

var (
	dictOnce sync.Once
	dict     *dictionary
)

// loadDictionary builds the shared dictionary exactly once. The result is
// read-only afterwards and safe to share across concurrent pipelines.
func loadDictionary() *dictionary {
	dictOnce.Do(func() {
		set := make(map[string]struct{}, len(rankedWords))
		for _, w := range rankedWords {
			set[w] = struct{}{}
		}
		dict = &dictionary{ranked: rankedWords, set: set}
	})
	return dict
}

// DictionaryChecker suggests corrections from the embedded ranked word list
// using the known-misspelling table, OCR variant generation, and a bounded
// edit-distance search, in that order.
type DictionaryChecker struct{}

// NewDictionaryChecker returns a checker backed by the shared dictionary.
func NewDictionaryChecker() *DictionaryChecker {
	return &DictionaryChecker{}
}

func (c *DictionaryChecker) Name() string { return "dictionary" }

// Known reports whether word (lowercase) is already a dictionary word.
func (c *DictionaryChecker) Known(word string) bool {
	_, ok := loadDictionary().set[word]
	return ok
}

// maxEditDistance bounds the correction search. Anything further away than
// two edits is more likely a word the dictionary simply lacks.
const maxEditDistance = 2

// Suggest returns the best-ranked correction for a lowercase word, or false
// when no acceptable correction exists.
func (c *DictionaryChecker) Suggest(word string) (string, bool) {
	if word == "" {
		return "", false
	}
	d := loadDictionary()

	if fixed, ok := knownMisspellings[word]; ok {
		return fixed, true
	}

	for _, variant := range confusionVariants(word) {
		if _, ok := d.set[variant]; ok {
			return variant, true
		}
	}

	best := ""
	bestDist := maxEditDistance + 1
	for _, known := range d.ranked {
		if diff := len(known) - len(word); diff < -maxEditDistance || diff > maxEditDistance {
			continue
		}
		if dist := editDistance(word, known); dist < bestDist {
			bestDist = dist
			best = known
		}
	}

	if best == "" || bestDist > maxEditDistance {
		return "", false
	}
	return best, true
}

// confusionVariants generates every single-substitution variant of word
// using the OCR confusion table, preserving input order for determinism.
func confusionVariants(word string) []string {
	var variants []string
	runes := []rune(word)
	for i, r := range runes {
		subs, ok := ocrConfusions[r]
		if !ok {
			continue
		}
		for _, sub := range subs {
			v := make([]rune, len(runes))
			copy(v, runes)
			v[i] = sub
			variants = append(variants, string(v))
		}
	}
	return variants
}

// editDistance is a two-row Levenshtein over runes.
func editDistance(a, b string) int {
	if a == b {
		return 0
	}
	ar, br := []rune(a), []rune(b)
	if len(ar) == 0 {
		return len(br)
	}
	if len(br) == 0 {
		return len(ar)
	}

	prev := make([]int, len(br)+1)
	curr := make([]int, len(br)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ar); i++ {
		curr[0] = i
		for j := 1; j <= len(br); j++ {
			cost := 1
			if ar[i-1] == br[j-1] {
				cost = 0
			}
			curr[j] = min(min(prev[j]+1, curr[j-1]+1), prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(br)]
}

package termmine

// stopwords are common English words excluded from terminology mining
// even when tagged as nouns. The tagger occasionally labels function
// words and generic nouns NN; filtering here keeps the candidate list
// domain-specific.
var stopwords = map[string]bool{
	"able": true, "about": true, "above": true, "all": true, "also": true,
	"and": true, "any": true, "anyone": true, "anything": true, "are": true,
	"back": true, "because": true, "been": true, "before": true, "being": true,
	"below": true, "between": true, "both": true, "but": true, "can": true,
	"case": true, "cases": true, "chapter": true, "com": true, "could": true,
	"day": true, "days": true, "did": true, "does": true, "doing": true,
	"done": true, "down": true, "during": true, "each": true, "end": true,
	"etc": true, "example": true, "examples": true, "fact": true, "few": true,
	"following": true, "for": true, "from": true, "further": true, "get": true,
	"gets": true, "getting": true, "had": true, "has": true, "have": true,
	"having": true, "her": true, "here": true, "hers": true, "him": true,
	"his": true, "how": true, "information": true, "into": true, "its": true,
	"itself": true, "just": true, "kind": true, "kinds": true, "let": true,
	"lets": true, "like": true, "lot": true, "lots": true, "made": true,
	"make": true, "makes": true, "making": true, "many": true, "may": true,
	"might": true, "more": true, "most": true, "much": true, "must": true,
	"need": true, "needs": true, "new": true, "not": true, "note": true,
	"nothing": true, "now": true, "number": true, "numbers": true, "off": true,
	"once": true, "one": true, "ones": true, "only": true, "onto": true,
	"other": true, "others": true, "our": true, "ours": true, "out": true,
	"over": true, "own": true, "part": true, "parts": true, "people": true,
	"place": true, "places": true, "point": true, "same": true, "section": true,
	"see": true, "set": true, "sets": true, "she": true, "should": true,
	"side": true, "since": true, "some": true, "something": true, "such": true,
	"than": true, "that": true, "the": true, "their": true, "theirs": true,
	"them": true, "then": true, "there": true, "these": true, "they": true,
	"thing": true, "things": true, "this": true, "those": true, "through": true,
	"time": true, "times": true, "under": true, "until": true, "use": true,
	"used": true, "uses": true, "using": true, "very": true, "want": true,
	"was": true, "way": true, "ways": true, "were": true, "what": true,
	"when": true, "where": true, "which": true, "while": true, "who": true,
	"whom": true, "why": true, "will": true, "with": true, "within": true,
	"without": true, "word": true, "words": true, "would": true, "year": true,
	"years": true, "you": true, "your": true, "yours": true,
}

func isStopword(term string) bool {
	return stopwords[term]
}

package subject

// questionPrefixes are stripped from the start of a question before any other
// rule runs. Only the longest matching entry is removed; see [sortedPrefixes].
var questionPrefixes = []string{
	"what is", "what are", "explain", "tell me about", "describe",
	"how does", "how do", "can you explain", "please explain",
	"what is the", "what are the", "define", "give me information about",
	"i want to know about", "i would like to learn about",
	"show me", "display", "illustrate", "demonstrate", "tell me",
	"can you tell me about", "could you explain", "would you mind explaining",
}

// gerunds maps common single-verb "how to" actions to their -ing form.
var gerunds = map[string]string{
	"bake":   "baking",
	"cook":   "cooking",
	"write":  "writing",
	"read":   "reading",
	"run":    "running",
	"swim":   "swimming",
	"dance":  "dancing",
	"sing":   "singing",
	"draw":   "drawing",
	"paint":  "painting",
	"build":  "building",
	"create": "creating",
	"make":   "making",
	"fix":    "fixing",
	"repair": "repairing",
	"learn":  "learning",
	"teach":  "teaching",
	"study":  "studying",
}

// keyNouns are domain nouns that usually anchor the subject of a long question.
var keyNouns = toSet(
	"algorithm", "process", "system", "technology", "method", "technique",
	"theory", "concept", "principle", "law", "function", "structure",
	"mechanism", "procedure", "approach", "model", "framework", "design",
	"architecture", "component", "element", "feature", "aspect", "property",
	"characteristic", "attribute", "quality", "trait", "behavior", "pattern",
	"relationship", "connection", "interaction", "effect", "impact", "result",
	"outcome", "benefit", "advantage", "disadvantage", "limitation", "challenge",
	"problem", "solution", "application", "implementation", "example", "case",
	"computer", "machine", "device", "engine", "robot", "software", "program",
	"network", "internet", "web", "database", "server", "cloud", "ai", "intelligence",
	"brain", "mind", "thought", "idea", "philosophy", "science",
	"mathematics", "physics", "chemistry", "biology", "medicine", "health",
	"business", "economics", "finance", "market", "investment", "trading",
	"history", "culture", "art", "music", "literature", "poetry", "writing",
	"climate", "weather", "geography", "planet", "animal", "plant", "cell",
	"dna", "gene", "evolution", "gravity", "energy", "light", "sound",
	"communication", "language", "education", "learning", "development",
	"revolution", "war", "peace", "government", "politics", "justice",
	"religion", "belief", "faith", "tradition", "custom", "society",
	"economy", "industry", "production", "manufacturing", "engineering",
	"construction", "film",
	"psychology", "sociology", "anthropology", "archaeology", "astronomy",
	"geology", "oceanography", "meteorology", "ecology", "environment",
	"nutrition", "diet", "exercise", "fitness", "sport", "game", "entertainment",
)

// fillerWords carry no visual meaning and are dropped by [Clean].
var fillerWords = toSet(
	"the", "a", "an", "is", "are", "was", "were", "be", "been", "being",
	"have", "has", "had", "do", "does", "did", "will", "would", "could",
	"should", "may", "might", "can", "about", "what", "how", "why", "when",
	"where", "which", "who", "this", "that", "these", "those", "it", "its",
)

func toSet(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

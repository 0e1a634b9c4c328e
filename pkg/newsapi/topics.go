package newsapi

var suggestedTopics = []string{
	"Technology",
	"Artificial Intelligence",
	"Climate Change",
	"Elections",
	"Stock Market",
	"Space Exploration",
	"Health & Fitness",
	"Sports",
	"Cryptocurrency",
	"Entertainment",
}

// SuggestedTopics returns the fixed, ordered list of popular search topics.
// It never touches the network.
func SuggestedTopics() []string {
	out := make([]string, len(suggestedTopics))
	copy(out, suggestedTopics)
	return out
}

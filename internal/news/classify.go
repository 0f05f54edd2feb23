package news

import "strings"

var modelKeywords = []string{
	"model", "llm", "gpt", "claude", "gemini", "llama", "mistral", "release",
	"benchmark", "multimodal", "image generation", "video generation", "audio",
	"foundation model", "language model", "diffusion", "flux", "sora",
}

var toolKeywords = []string{
	"tool", "app", "api", "product", "launch", "update", "feature", "copilot",
	"cursor", "perplexity", "midjourney", "runway", "elevenlabs", "assistant",
	"plugin", "integration", "platform", "service", "sdk", "agent",
}

var openSourceKeywords = []string{
	"open source", "open-source", "github", "hugging face", "arxiv", "paper",
	"repo", "repository", "weights", "checkpoint", "fine-tuning", "finetuning",
	"dataset", "research", "preprint", "stars", "trending",
}

// Order matters: tags are reported in this order, not in text order.
var tagCandidates = []string{
	"GPT-4", "Claude", "Gemini", "Llama", "Mistral", "FLUX", "Sora",
	"Open Source", "Research", "API", "Multimodal", "Fine-tuning",
	"Benchmark", "Agent", "RAG", "LLM", "Vision",
}

// Scores holds lexicon hit counts for one text.
type Scores struct {
	Models     int
	Tools      int
	OpenSource int
}

// Score counts how many keywords of each lexicon occur in the combined text.
// Each keyword counts at most once.
func Score(title, description string) Scores {
	text := combine(title, description)
	return Scores{
		Models:     countHits(text, modelKeywords),
		Tools:      countHits(text, toolKeywords),
		OpenSource: countHits(text, openSourceKeywords),
	}
}

// Category applies the precedence rule: open source wins ties with either
// other lexicon, models wins ties with tools.
func (s Scores) Category() Category {
	if s.OpenSource >= s.Models && s.OpenSource >= s.Tools {
		return CategoryOpenSource
	}
	if s.Models >= s.Tools {
		return CategoryModels
	}
	return CategoryTools
}

// Classify assigns one of models, tools or opensource.
func Classify(title, description string) Category {
	return Score(title, description).Category()
}

// ExtractTags returns up to MaxTags known entity names found in the text.
func ExtractTags(title, description string) []string {
	text := combine(title, description)
	tags := make([]string, 0, MaxTags)
	for _, candidate := range tagCandidates {
		if len(tags) == MaxTags {
			break
		}
		if strings.Contains(text, strings.ToLower(candidate)) {
			tags = append(tags, candidate)
		}
	}
	return tags
}

func combine(title, description string) string {
	return strings.ToLower(title + " " + description)
}

func countHits(text string, keywords []string) int {
	hits := 0
	for _, k := range keywords {
		if strings.Contains(text, k) {
			hits++
		}
	}
	return hits
}

package tools

import (
	"regexp"
	"strings"

	"github.com/Rorical/CosmicDialog/internal/models"
)

var (
	searchIntent    = regexp.MustCompile(`(?i)search|google|look\s?up`)
	calculateIntent = regexp.MustCompile(`(?i)calc|calculate|=|\d+\s*[+\-*/]`)
	memoryIntent    = regexp.MustCompile(`(?i)remember|note|save`)

	arithmeticRun = regexp.MustCompile(`[\d+\-*/().\s]+`)
)

// Classify maps free-form text to the tools it asks for, in fixed priority
// order: search, calculate, memory. It has no side effects.
func Classify(text string) []models.ToolInvocation {
	var calls []models.ToolInvocation

	if searchIntent.MatchString(text) {
		calls = append(calls, models.ToolInvocation{Name: WebSearch, Arguments: text})
	}
	if calculateIntent.MatchString(text) {
		calls = append(calls, models.ToolInvocation{Name: MathCalculate, Arguments: Expression(text)})
	}
	if memoryIntent.MatchString(text) {
		calls = append(calls, models.ToolInvocation{Name: MemorySave, Arguments: text})
	}

	return calls
}

// Expression extracts the longest run of arithmetic characters that holds at
// least one digit. The first run wins ties. Without such a run the whole text
// is returned.
func Expression(text string) string {
	best := ""
	for _, run := range arithmeticRun.FindAllString(text, -1) {
		run = strings.TrimSpace(run)
		if !strings.ContainsAny(run, "0123456789") {
			continue
		}
		if len(run) > len(best) {
			best = run
		}
	}
	if best == "" {
		return text
	}
	return best
}

// Names lists the tool names of calls in order
func Names(calls []models.ToolInvocation) []string {
	names := make([]string, len(calls))
	for i, call := range calls {
		names[i] = call.Name
	}
	return names
}

package core

import (
	"fmt"
	"strings"
)

const (
	noToolsNecessary = "- No tools were necessary"
	noExternalCalls  = "- No external calls required"
)

func planContent(toolNames []string) string {
	tools := strings.Join(toolNames, ", ")
	if tools == "" {
		tools = "none"
	}
	return fmt.Sprintf("Plan:\n1. Understand the request\n2. Use appropriate tools (%s)\n3. Compose a clear answer with references or steps", tools)
}

func executionContent(summary string) string {
	if summary == "" {
		summary = noToolsNecessary
	}
	return "Execution Summary:\n" + summary
}

func answerContent(summary string) string {
	if summary == "" {
		summary = noExternalCalls
	}

	var b strings.Builder
	b.WriteString("## Answer\n\n")
	b.WriteString("Here’s what I found and how to proceed:\n\n")
	b.WriteString(summary)
	b.WriteString("\n\n> Tip: You can use markdown — like **bold**, _italics_, lists, and code.\n\n")
	b.WriteString("Example code:\n\n")
	b.WriteString("```go\n")
	b.WriteString("func hello(name string) string {\n")
	b.WriteString("\treturn \"Hello, \" + name + \"!\"\n")
	b.WriteString("}\n\n")
	b.WriteString("fmt.Println(hello(\"world\"))\n")
	b.WriteString("```")
	return b.String()
}

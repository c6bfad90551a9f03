package inference

import (
	"strings"
)

// InferCommand guesses the subcommand when the first argument isn't one of
// known: "+id" adds a tool and any other bare word searches for it.
func InferCommand(args []string, known []string) (string, []string) {
	if len(args) == 0 {
		return "", nil
	}

	first := args[0]
	if strings.HasPrefix(first, "-") {
		return "", args
	}
	for _, k := range known {
		if first == k {
			return "", args
		}
	}

	// +react +vitest
	if strings.HasPrefix(first, "+") && len(first) > 1 {
		rest := make([]string, 0, len(args))
		for _, a := range args {
			rest = append(rest, strings.TrimPrefix(a, "+"))
		}
		return "add", rest
	}

	return "search", args
}

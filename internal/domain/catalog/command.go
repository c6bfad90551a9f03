package catalog

import "strings"

// InstallCommand is the parsed form of a tool's install command.
type InstallCommand struct {
	Raw         string
	Init        bool
	Packages    []string
	DevPackages []string
}

var (
	initPrefixes = [][]string{{"npx"}, {"npm", "create"}, {"npm", "init"}}
	addVerbs     = map[string]bool{"install": true, "i": true, "add": true}
	devFlags     = map[string]bool{"-D": true, "--save-dev": true}
)

// ParseInstallCommand recognizes the run-once generator shape (npx, npm
// create) and the add-package shape (npm install/i/add). Commands chained with
// && are inspected segment by segment, so one command may be both.
func ParseInstallCommand(cmd string) InstallCommand {
	ic := InstallCommand{Raw: cmd}

	fields := strings.Fields(cmd)
	for _, prefix := range initPrefixes {
		if hasTokens(fields, prefix) {
			ic.Init = true
			break
		}
	}

	for _, segment := range strings.Split(cmd, "&&") {
		tokens := strings.Fields(segment)
		if len(tokens) < 2 || tokens[0] != "npm" || !addVerbs[tokens[1]] {
			continue
		}
		dev := false
		var specs []string
		for _, tok := range tokens[2:] {
			if devFlags[tok] {
				dev = true
				continue
			}
			if strings.HasPrefix(tok, "-") {
				continue
			}
			specs = append(specs, tok)
		}
		if dev {
			ic.DevPackages = append(ic.DevPackages, specs...)
		} else {
			ic.Packages = append(ic.Packages, specs...)
		}
	}
	return ic
}

// Recognized reports whether the command matched any known shape.
func (c InstallCommand) Recognized() bool {
	return c.Init || len(c.Packages) > 0 || len(c.DevPackages) > 0
}

func hasTokens(fields, prefix []string) bool {
	if len(fields) < len(prefix) {
		return false
	}
	for i, p := range prefix {
		if fields[i] != p {
			return false
		}
	}
	return true
}

package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/chainkit-labs/hardhat-create-app/internal/ux"
)

var usage = []struct {
	script string
	help   string
}{
	{"compile", "Compiles the contracts."},
	{"test", "Runs the tests."},
	{"test:watch", "Runs the tests in watch mode."},
}

// defines reports whether the generated package.json has script. Without a
// recorded script list every usage entry is assumed present.
func (o *Outcome) defines(script string) bool {
	return o.Scripts == nil || slices.Contains(o.Scripts, script)
}

// Summary returns the success message for outcome. Only scripts the project
// defines are advertised.
func Summary(outcome *Outcome) string {
	runScript := func(s string) string {
		if outcome.Adapter != nil {
			return outcome.Adapter.RunScriptCommand(s)
		}
		return "npm run " + s
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\nSuccess! Created %s at %s.\n\n", outcome.Name, outcome.Root)
	b.WriteString("Inside that directory, you can run several commands:\n\n")
	for _, u := range usage {
		if !outcome.defines(u.script) {
			continue
		}
		fmt.Fprintf(&b, "  %s\n    %s\n\n", runScript(u.script), u.help)
	}
	b.WriteString("We suggest that you begin by typing:\n\n")
	fmt.Fprintf(&b, "  cd %s\n", outcome.Name)
	first := "test"
	if !outcome.defines(first) {
		first = "compile"
	}
	fmt.Fprintf(&b, "  %s\n\n", runScript(first))
	b.WriteString("Happy hacking!\n")
	return b.String()
}

// WriteSummary prints the success message, highlighting the headline.
func WriteSummary(w io.Writer, outcome *Outcome) {
	text := Summary(outcome)
	headline := fmt.Sprintf("Success! Created %s at %s.", outcome.Name, outcome.Root)
	fmt.Fprint(w, strings.Replace(text, headline, ux.Styles.Success.Render(headline), 1))
}

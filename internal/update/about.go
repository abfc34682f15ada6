package update

import (
	"fmt"

	"github.com/sandeepkv93/countdown/internal/views"
)

// Version is set by the command line entry point.
var Version = "dev"

const aboutMarkdown = `# countdown

A countdown timer for the terminal, version **%s**.

* Start with a duration like ` + "`300`, `5:00`, `1h30m`" + ` or a time like ` + "`until 17:30`" + `.
* Every window keeps its own timer; closing a running one leaves it detached.
* Press ` + "`m`" + ` for options and ` + "`/`" + ` for commands.
`

func aboutText() string {
	return views.RenderMarkdown(fmt.Sprintf(aboutMarkdown, Version))
}

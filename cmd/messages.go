package cmd

import (
	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// outputLanguage is the language of human-readable command output.
var outputLanguage = language.English

const msgAppended = "Appended %d IDs to %s\n"

func init() {
	_ = message.Set(outputLanguage, msgAppended,
		plural.Selectf(1, "%d",
			plural.One, "Appended %[1]d ID to %[2]s\n",
			plural.Other, "Appended %[1]d IDs to %[2]s\n",
		))
}

// printer returns a printer that localizes numbers and plurals in human
// output.
func printer() *message.Printer {
	return message.NewPrinter(outputLanguage)
}

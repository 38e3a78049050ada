package prompt

import (
	"fmt"

	"cjk-translator/internal/types"
)

// BuildSystemPrompt returns the system prompt for a translation call.
// The formatting instruction depends on whether output goes to a file
// or to the console.
func BuildSystemPrompt(source, target types.Language, format types.OutputFormat) string {
	var formattingInstruction string
	switch format {
	case types.OutputPDF, types.OutputTXT, types.OutputFile:
		formattingInstruction = "Use proper paragraph breaks and standard text formatting suitable for file output. " +
			"Use actual line breaks (not \\n characters) to separate paragraphs and sections naturally."
	default:
		formattingInstruction = `You can format and line break the output yourself using "\n" for line breaks in console output.`
	}

	return fmt.Sprintf(
		"Follow the instructions carefully. Please act as a professional translator from %[1]s "+
			"to %[2]s. I will provide you with text from a document, and your task is "+
			"to translate it from %[1]s to %[2]s. Please only output the translation and do not "+
			"output any irrelevant content. If there are garbled characters or other non-standard text "+
			"content, delete the garbled characters. "+
			"%[3]s "+
			`You may be provided with "--Context: " and the text from either the document's abstract or `+
			`a sample of text from the previous page. You will also be provided with "--Current Page: " `+
			"which includes the extracted characters of the current page. Only output the %[2]s translation of "+
			`the "--Current Page: ". Do not output the context, nor the "--Context: " and "--Current Page: " `+
			"labels.",
		source, target, formattingInstruction)
}

// BuildUserPrompt returns the user prompt carrying the process text
// produced by BuildProcessText.
func BuildUserPrompt(source, target types.Language, processText string) string {
	return fmt.Sprintf(
		`Translate only the %[1]s text of the "--Current Page: " to %[2]s, without outputting any other `+
			`content, and without outputting anything related to "--Context: ", if provided. Do not provide `+
			`any prompts to the user, for example: "This is the translation of the current page.":`+"\n",
		source, target) + processText
}

package questiongen

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const pageBreak = "\n\n---\n\n"

const systemPrompt = `You are a programming tutor writing a short practice quiz for a lesson the learner just read.

Rules:
- Write exactly 5 questions based only on the lesson content provided.
- Mix question types. Use at least two of: single_choice, boolean, reorder.
- single_choice: 3 or 4 options, exactly one correct. correct_answer holds that option text verbatim.
- boolean: a statement the learner marks true or false. options is empty. correct_answer is ["true"] or ["false"].
- reorder: 3 to 6 items (code lines or steps) listed in shuffled order in options. correct_answer lists the same items in the correct order.
- Keep code in questions short. Use plain text, no Markdown headings.
- The explanation should say briefly why the answer is correct.`

// buildUserMessage renders the lesson context. Content longer than maxChars
// is cut at a page boundary where possible.
func buildUserMessage(courseTitle, lessonTitle, content string, maxChars int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Course: %s\n", courseTitle)
	fmt.Fprintf(&b, "Lesson: %s\n", lessonTitle)
	b.WriteString("\nLesson content:\n")
	b.WriteString(truncateContent(content, maxChars))
	return b.String()
}

func truncateContent(content string, maxChars int) string {
	if maxChars <= 0 || len(content) <= maxChars {
		return content
	}
	end := maxChars
	for end > 0 && !utf8.RuneStart(content[end]) {
		end--
	}
	cut := content[:end]
	if i := strings.LastIndex(cut, pageBreak); i > 0 {
		return cut[:i]
	}
	return cut
}

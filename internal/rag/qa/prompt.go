package qa

import (
	"strings"

	"github.com/akolanti/docqa/internal/domain/commonModels"
)

const fewShotPrompt = `Create a final answer to the given questions using the provided document excerpts (in no particular order) as references.
ALWAYS include a "SOURCES" section in your answer including only the sources of the highest probability to answer the question.

If you are unable to answer the question, simply state NULL.
IMPORTANT: Final answer in the language of the user question. If the question is in German answer in German.
IMPORTANT: End your answer with a probability between low, medium and high to reflect how confident you are that your answer is correct. If there are no sources the probability is automatically low.
IMPORTANT: Do not attempt to fabricate an answer and leave the SOURCES section empty.
IMPORTANT: Answer as detailed as possible.

QUESTION: What is the purpose of ARPA-H?
=========
Content: More support for patients and families.
To get there, I call on Congress to fund ARPA-H, the Advanced Research Projects Agency for Health.
It's based on DARPA, the Defense Department project that led to the Internet, GPS, and so much more.
ARPA-H will have a singular purpose: to drive breakthroughs in cancer, Alzheimer's, diabetes, and more.
Source: 1-32
Content: While we're at it, let's make sure every American can get the health care they need.
We've already made historic investments in health care.
Source: 1-33
Content: The V.A. is pioneering new ways of linking toxic exposures to disease, already helping veterans get the care they deserve.
Source: 1-30
Content: ARPA-H is a medical breakthrough.
Source: 1-34
=========
FINAL ANSWER: The purpose of ARPA-H is to drive breakthroughs in cancer, Alzheimer's, diabetes, and more. <Probability: high>
SOURCES: 1-32, 1-34

`

// RenderPrompt stuffs every excerpt, labelled with its citation key, into the
// grounding prompt.
func RenderPrompt(question string, docs []*commonModels.Doc) string {
	var b strings.Builder
	b.WriteString(fewShotPrompt)
	b.WriteString("QUESTION: ")
	b.WriteString(question)
	b.WriteString("\n=========\n")
	for _, d := range docs {
		b.WriteString("Content: ")
		b.WriteString(d.PageContent)
		b.WriteString("\nSource: ")
		b.WriteString(d.Source())
		b.WriteString("\n")
	}
	b.WriteString("=========\nFINAL ANSWER:")
	return b.String()
}

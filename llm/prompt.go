package llm

import "fmt"

// SystemPrompt frames the model as a careful legal analyst. Answers must
// stay inside the supplied context and cite sources.
const SystemPrompt = `You are an expert legal analyst assistant. Your role is to provide accurate, well-reasoned analysis of legal documents, case law, and statutes.

Guidelines:
1. Base your answers ONLY on the provided context
2. Cite specific cases, statutes, or document sections when possible
3. Acknowledge when information is incomplete or unclear
4. Use precise legal terminology
5. Structure complex answers with clear headings
6. Distinguish between holdings, dicta, and your analysis

If the context doesn't contain sufficient information to answer the question, clearly state that and explain what additional information would be needed.`

// BuildPrompt assembles the user message from the question and the
// retrieved (possibly compressed) context.
func BuildPrompt(question, context string) string {
	return fmt.Sprintf(`Based on the following legal documents and context, please answer this question:

QUESTION: %s

CONTEXT:
%s

Please provide a comprehensive answer based on the context above. Cite specific sources when possible.`, question, context)
}

// AnalyzeCaseQuestion renders the canned question used by the
// analyze_case operation.
func AnalyzeCaseQuestion(caseName string) string {
	return fmt.Sprintf(`Provide a comprehensive analysis of %s including:
1. Key facts of the case
2. Legal issues presented
3. Court's holding and reasoning
4. Significance and precedential value
5. Any notable dissents or concurrences`, caseName)
}

// CompareCasesQuestion renders the canned question used by the
// compare_cases operation.
func CompareCasesQuestion(case1, case2 string) string {
	return fmt.Sprintf(`Compare and contrast %s and %s:
1. How do the facts differ?
2. What legal principles does each case establish?
3. How do the holdings relate to each other?
4. Are there any conflicts or tensions between the cases?
5. Which case would be more applicable in different scenarios?`, case1, case2)
}

// FindPrecedentsQuestion renders the canned question used by the
// find_precedents operation.
func FindPrecedentsQuestion(legalIssue string) string {
	return fmt.Sprintf(`Find and analyze relevant case law precedents for the following legal issue:

%s

For each relevant precedent:
1. Cite the case name and citation
2. Explain how it relates to this issue
3. Note the holding and key reasoning
4. Assess its current validity and strength as precedent`, legalIssue)
}

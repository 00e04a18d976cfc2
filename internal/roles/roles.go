// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package roles defines the pipeline roles and their prompt registry.
//
// The registry is a static table built at init and never mutated, so it is
// safe to share across concurrent requests. Each role carries a fixed system
// prompt encoding its behavioral constraints and a user-prompt template
// rendered over the fields the orchestrator supplies for that stage.
package roles

import "text/template"

// Role is a fixed stage identity. The set is closed: roles are declared here
// and never constructed dynamically.
type Role string

const (
	// QueryRefiner rewrites the raw question into a search-optimized query.
	QueryRefiner Role = "query_refiner"

	// Researcher synthesizes a draft answer from the search results.
	Researcher Role = "researcher"

	// Validator checks the draft for safety and produces the final answer.
	Validator Role = "validator"
)

// All returns every pipeline role in stage order.
func All() []Role {
	return []Role{QueryRefiner, Researcher, Validator}
}

// Spec is one role's prompt definition.
type Spec struct {
	// System is the fixed system prompt for the role.
	System string

	// User is the user-prompt template. Recognized fields depend on the
	// role: QueryRefiner takes {question}, Researcher takes {question,
	// query, web_results, literature_results}, Validator takes {draft}.
	User *template.Template
}

// For returns the prompt spec for role. An unknown role is a programming
// error, not a runtime failure: the enumeration is closed, so For panics.
func For(role Role) Spec {
	spec, ok := registry[role]
	if !ok {
		panic("roles: no prompt registered for role " + string(role))
	}
	return spec
}

var registry = map[Role]Spec{
	QueryRefiner: {
		System: "You are an expert medical search query optimizer. Your goal is to " +
			"transform user questions into precise and effective search queries for " +
			"medical research.",
		User: template.Must(template.New("query_refiner").Parse(
			`Refine the following medical search query to make it more precise and effective for a search engine.
Focus on using accurate medical terminology, adding relevant keywords, and formulating it for direct search result relevance (e.g., symptoms, treatments, drug info, disease mechanisms).
The output should be only the refined query string, with no additional text or explanation.

Original medical query: '{{.question}}'

Refined medical query for search engine:`)),
	},

	Researcher: {
		System: "You are a careful medical research assistant. You summarize medical " +
			"information strictly from the sources provided, you never invent facts, " +
			"and you always emphasize that the information is educational, not advice.",
		User: template.Must(template.New("researcher").Parse(
			`Analyze this medical question and the search information provided.
You have a strict limit of approximately 1000 tokens for the final output. Adjust detail level, brevity, and formatting accordingly to fit this constraint.

Original question: {{.question}}

Refined search query: {{.query}}

Web search results:
{{.web_results}}

Biomedical literature results (PubMed):
{{.literature_results}}

Based on the search results, extract and summarize the most relevant and reliable medical information. Focus on information from reputable medical sources like Mayo Clinic, WebMD, NIH, or medical journals.

Identify key points about:
- Symptoms or conditions mentioned
- Potential causes
- Treatment options
- When to seek medical care

If the search results are inconclusive, contradictory, or if information on a particular key point is scarce, state this clearly. Do not invent information. If the question is outside the scope of general medical knowledge, state that appropriately.

Remember to emphasize that this information is for educational purposes only.`)),
	},

	Validator: {
		System: "You are a medical content safety reviewer. You ensure responses are " +
			"safe, educational, and carry a clear disclaimer before they reach users.",
		User: template.Must(template.New("validator").Parse(
			`You are validating a medical response to ensure it meets safety and quality standards before presenting it to users.
You have a strict limit of approximately 1000 tokens for the final output. Adjust detail level, brevity, and formatting accordingly to fit this constraint.

Here is the draft response:

{{.draft}}

Perform the following checks:
1. Do not provide specific medical diagnoses or treatment advice.
2. Include a strong disclaimer advising users to consult a qualified healthcare professional.
3. Ensure the content is safe, medically accurate, and educational, not misleading or harmful.
4. Use clear, concise language suitable for a general audience. Briefly explain any medical terms if needed.
5. Keep the content focused and avoid unnecessary elaboration.

Once validated, transform the response into an HTML snippet for display in a user interface. Just include the HTML, do not add a code fence.

Formatting instructions:
- Use <h2> tags for section headings like Symptoms, Potential Causes, Treatment Options, When to Seek Medical Care
- Use bullet points (<ul><li>) for readability where appropriate
- Include this strong disclaimer: <strong>This information is for educational purposes only and should not be considered medical advice. Always consult a qualified healthcare professional for diagnosis and treatment.</strong>

Only return the final HTML output. Do not include explanation or additional commentary.`)),
	},
}

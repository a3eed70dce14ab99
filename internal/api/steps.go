package api

import "net/http"

// Step is one stage of the analytic hierarchy process.
type Step struct {
	Order       int    `json:"order"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Endpoint    string `json:"endpoint,omitempty"`
}

var steps = []Step{
	{1, "Define the Goal", "Clearly identify the goal of the decision-making process to focus your analysis.",
		"POST /api/v1/decisions"},
	{2, "Structure the Hierarchy", "Break down the decision problem into a hierarchy: Goal, Criteria, Subcriteria, and Alternatives.",
		"POST /api/v1/decisions/{id}/nodes/{nodeID}/children"},
	{3, "Pairwise Comparisons", "Perform pairwise comparisons of criteria and alternatives to assign relative importance.",
		"PUT /api/v1/decisions/{id}/groups/{level}/{parentID}/judgments"},
	{4, "Calculate Priority Vectors", "Use mathematical methods to calculate priority vectors from pairwise comparison matrices.",
		"GET /api/v1/decisions/{id}/groups/{level}/{parentID}"},
	{5, "Check for Consistency", "Ensure consistency in judgments by calculating the Consistency Ratio (CR).",
		"GET /api/v1/decisions/{id}/report"},
	{6, "Aggregate Results", "Combine priority vectors to derive the final scores for each alternative.",
		"GET /api/v1/decisions/{id}/ranking"},
	{7, "Make the Final Decision", "Select the best alternative based on the scores and prioritize your options.",
		"GET /api/v1/decisions/{id}/ranking"},
}

func Steps(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, steps)
}

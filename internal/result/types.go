package result

// TestCase is the per-test results file an agent benchmark writes into each
// test directory of a run.
type TestCase struct {
	TestDir                    string  `json:"testdir"`
	TestCase                   string  `json:"testcase"`
	Model                      string  `json:"model,omitempty"`
	EditFormat                 string  `json:"edit_format,omitempty"`
	TestsOutcomes              []bool  `json:"tests_outcomes"`
	CostUSD                    float64 `json:"cost"`
	DurationS                  float64 `json:"duration"`
	PromptTokens               int     `json:"prompt_tokens"`
	CompletionTokens           int     `json:"completion_tokens"`
	TestTimeouts               int     `json:"test_timeouts"`
	NumErrorOutputs            int     `json:"num_error_outputs"`
	NumUserAsks                int     `json:"num_user_asks"`
	NumExhaustedContextWindows int     `json:"num_exhausted_context_windows"`
	NumMalformedResponses      int     `json:"num_malformed_responses"`
	SyntaxErrors               int     `json:"syntax_errors"`
	IndentationErrors          int     `json:"indentation_errors"`
	LazyComments               int     `json:"lazy_comments"`
}

// Task 5.5: agent variant dispatch.
package agent

// Dispatch keys accepted in a model's modal_dispatch argument.
const (
	DispatchDefault  = "default"
	DispatchSQLAgent = "sql_agent"
)

// Dispatch builds the agent variant named by kind. Unknown kinds fall back
// to the default conversational agent; only the default variant produces a
// description record.
func Dispatch(kind string, opts Options) (*Agent, *Description, error) {
	switch kind {
	case DispatchSQLAgent:
		a, err := NewSQL(opts)
		return a, nil, err
	default:
		return NewDefault(opts)
	}
}

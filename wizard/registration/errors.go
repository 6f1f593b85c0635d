package registration

import "acadeemia/wizard/workflow"

// Rule names the check that rejected a wizard step.
type Rule string

const (
	RuleRequired  Rule = "required"
	RuleMatch     Rule = "match"
	RuleLength    Rule = "length"
	RuleFormat    Rule = "format"
	RuleDuplicate Rule = "duplicate"
	RuleInput     Rule = "input"
)

// ValidationError is a rejected step input. The session stays on Step.
type ValidationError struct {
	Step    workflow.StepID `json:"step"`
	Rule    Rule            `json:"rule"`
	Field   string          `json:"field,omitempty"`
	Message string          `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(step workflow.StepID, rule Rule, field, message string) *ValidationError {
	return &ValidationError{Step: step, Rule: rule, Field: field, Message: message}
}

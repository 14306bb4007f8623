package ircerr

const (
	codeRuleInvalidAction = iota + 1
	codeRuleInvalidIndex
)

func RuleInvalidAction(action string) *Error {
	return New(CategoryRule, codeRuleInvalidAction, "invalid rule action: "+action)
}

func RuleInvalidIndex() *Error {
	return New(CategoryRule, codeRuleInvalidIndex, "invalid rule index")
}

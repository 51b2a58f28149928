package ast

import "fmt"

// ParseError is a structured parse-stage failure, mirroring the teacher's
// logchefql.ParseError: a stable Code plus a user-facing Message. Every
// textual error listed in spec.md §7 is produced through this type so a
// caller can match on Code or print Message directly.
type ParseError struct {
	Code    string
	Message string
}

func (e *ParseError) Error() string { return e.Message }

// Error codes, one per distinct failure named in spec.md §7.
const (
	ErrUnknownOperator         = "UNKNOWN_OPERATOR"
	ErrMissingOperatorOrValue  = "MISSING_OPERATOR_OR_VALUE"
	ErrQuantifierNotSupported  = "QUANTIFIER_NOT_SUPPORTED"
	ErrExpectedListFormat      = "EXPECTED_LIST_FORMAT"
	ErrFieldMustBeString       = "FIELD_MUST_BE_STRING"
	ErrInvalidJSONPathSyntax   = "INVALID_JSON_PATH_SYNTAX"
	ErrLimitNotNonNegative     = "LIMIT_NOT_NON_NEGATIVE_INTEGER"
	ErrOffsetNotNonNegative    = "OFFSET_NOT_NON_NEGATIVE_INTEGER"
	ErrRelationshipNotFound    = "RELATIONSHIP_NOT_FOUND"
	ErrRelationshipAmbiguous   = "RELATIONSHIP_AMBIGUOUS"
	ErrUnclosedParenthesis     = "UNCLOSED_PARENTHESIS"
	ErrUnexpectedClosingParen  = "UNEXPECTED_CLOSING_PARENTHESIS"
	ErrUnexpectedToken         = "UNEXPECTED_TOKEN"
	ErrEmptyFieldName          = "EMPTY_FIELD_NAME"
	ErrInvalidFieldName        = "INVALID_FIELD_NAME"
	ErrLogicMustBeParenthesized = "LOGIC_EXPRESSION_MUST_BE_WRAPPED_IN_PARENTHESES"
	ErrInvalidNestedLogic      = "INVALID_NESTED_LOGIC"
	ErrInvalidFilterFormat     = "INVALID_FILTER_FORMAT"
	ErrInvalidOrderOptions     = "INVALID_ORDER_OPTIONS"
	ErrInvalidIsPayload        = "INVALID_IS_PAYLOAD"
)

func newErr(code, format string, args ...interface{}) *ParseError {
	return &ParseError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func NewUnknownOperator(name string) *ParseError {
	return newErr(ErrUnknownOperator, "unknown operator: %s", name)
}

func NewMissingOperatorOrValue() *ParseError {
	return newErr(ErrMissingOperatorOrValue, "missing operator or value")
}

func NewQuantifierNotSupported(op Operator) *ParseError {
	return newErr(ErrQuantifierNotSupported, "operator %s does not support quantifiers", op)
}

func NewExpectedListFormat() *ParseError {
	return newErr(ErrExpectedListFormat, "expected list format: (item1,item2,…)")
}

func NewFieldMustBeString() *ParseError {
	return newErr(ErrFieldMustBeString, "field must be a string")
}

func NewInvalidJSONPathSyntax() *ParseError {
	return newErr(ErrInvalidJSONPathSyntax, "invalid JSON path syntax")
}

func NewLimitNotNonNegative() *ParseError {
	return newErr(ErrLimitNotNonNegative, "limit must be a non-negative integer")
}

func NewOffsetNotNonNegative() *ParseError {
	return newErr(ErrOffsetNotNonNegative, "offset must be a non-negative integer")
}

func NewRelationshipNotFound(name string) *ParseError {
	return newErr(ErrRelationshipNotFound, "relationship '%s' not found", name)
}

func NewRelationshipAmbiguous(name string) *ParseError {
	return newErr(ErrRelationshipAmbiguous, "relationship '%s' is ambiguous, use hint", name)
}

func NewUnclosedParenthesis() *ParseError {
	return newErr(ErrUnclosedParenthesis, "unclosed parenthesis")
}

func NewUnclosedParenthesisInLogic() *ParseError {
	return newErr(ErrUnclosedParenthesis, "unclosed parenthesis in logic expression")
}

func NewUnexpectedClosingParen() *ParseError {
	return newErr(ErrUnexpectedClosingParen, "unexpected closing parenthesis")
}

func NewUnexpectedToken(tok string) *ParseError {
	return newErr(ErrUnexpectedToken, "unexpected token: %s", tok)
}

func NewEmptyFieldName() *ParseError {
	return newErr(ErrEmptyFieldName, "empty field name")
}

func NewInvalidFieldName(name string) *ParseError {
	return newErr(ErrInvalidFieldName, "invalid field name: %s", name)
}

func NewLogicMustBeParenthesized() *ParseError {
	return newErr(ErrLogicMustBeParenthesized, "logic expression must be wrapped in parentheses")
}

func NewInvalidNestedLogic(detail string) *ParseError {
	return newErr(ErrInvalidNestedLogic, "invalid nested logic: %s", detail)
}

func NewInvalidFilterFormat(detail string) *ParseError {
	return newErr(ErrInvalidFilterFormat, "invalid filter format: %s", detail)
}

func NewInvalidOrderOptions(detail string) *ParseError {
	return newErr(ErrInvalidOrderOptions, "invalid order options: %s", detail)
}

// NewInvalidIsPayload reports an `is` filter whose payload is not one of
// null/not_null/true/false/unknown. spec.md §4.1 defers this check to the
// emitter; §7's error taxonomy does not name a literal string for it, so
// this follows the taxonomy's "invalid X" convention (see DESIGN.md).
func NewInvalidIsPayload(payload string) *ParseError {
	return newErr(ErrInvalidIsPayload, "invalid is payload: %s", payload)
}

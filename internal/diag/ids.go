package diag

// ID enumerates every diagnostic this compiler can produce. Each has a
// fixed level and message template, looked up from definitions.
type ID int

const (
	// Lexer diagnostics.
	LexerIllegalCharacter ID = iota + 1
	LexerUnterminatedString
	LexerUnterminatedComment
	LexerInvalidEscapeSequence
	LexerInvalidNumericLiteral

	// Parser diagnostics (names fixed by the external interface table).
	ParserExpectedName
	ParserExpectedToken
	ParserModifierGivenTwice
	ParserModuleIgnored
	ParserUnendedNamespaceDecl
	ParserExpectedClassMember
	ParserExpectedNamespaceMember
	ParserExpectedPrimaryExpression
	ParserExpectedVariableName
	ParserInvalidMemberAccess
	ParserUnexpectedToken
	ParserExpectedStatement

	// Semantic diagnostics (names fixed by the external interface table).
	SemaDuplicateClassName
	SemaNamespaceNotFound
	SemaUnresolvedClass
	SemaAmbiguousClass
	SemaInvalidNamespaceMemberName
	SemaDuplicateGlobalVariableName
	SemaPreviousDeclaration
	SemaUndeclaredIdentifier
	SemaRedeclaredLocal
	SemaCannotConvert
	SemaInvalidLValue
	SemaInvalidOperandTypes
	SemaNotInstantiable
	SemaWrongArgumentCount
	SemaBreakOutsideLoop
	SemaContinueOutsideLoop
	SemaReturnValueMismatch
	SemaDuplicateFunctionSignature
	SemaUnresolvedFunction
)

// Level and message-template definition for a diagnostic id.
type definition struct {
	Level    Level
	Code     string
	Template string
}

// definitions is the fixed table of id -> (level, code, template). Every id
// above must have an entry here.
var definitions = map[ID]definition{
	LexerIllegalCharacter:      {Error, "L0001", "illegal character %s"},
	LexerUnterminatedString:    {Error, "L0002", "unterminated string literal"},
	LexerUnterminatedComment:   {Error, "L0003", "unterminated comment"},
	LexerInvalidEscapeSequence: {Error, "L0004", "invalid escape sequence %s"},
	LexerInvalidNumericLiteral: {Error, "L0005", "invalid numeric literal %s"},

	ParserExpectedName:              {Error, "P0001", "expected a name, got %s"},
	ParserExpectedToken:             {Error, "P0002", "expected %s, got %s"},
	ParserModifierGivenTwice:        {Warning, "P0003", "modifier %s given more than once"},
	ParserModuleIgnored:             {Warning, "P0004", "%module directive is ignored"},
	ParserUnendedNamespaceDecl:      {Error, "P0005", "namespace declaration %s is never closed"},
	ParserExpectedClassMember:       {Error, "P0006", "expected a class member, got %s"},
	ParserExpectedNamespaceMember:   {Error, "P0007", "expected a namespace member, got %s"},
	ParserExpectedPrimaryExpression: {Error, "P0008", "expected a primary expression, got %s"},
	ParserExpectedVariableName:      {Error, "P0009", "expected a variable name, got %s"},
	ParserInvalidMemberAccess:       {Error, "P0010", "invalid member access %s"},
	ParserUnexpectedToken:           {Error, "P0011", "unexpected token %s"},
	ParserExpectedStatement:         {Error, "P0012", "expected a statement, got %s"},

	SemaDuplicateClassName:          {Error, "S0001", "duplicate class name %s"},
	SemaNamespaceNotFound:           {Error, "S0002", "namespace %s not found"},
	SemaUnresolvedClass:             {Error, "S0003", "unresolved class %s"},
	SemaAmbiguousClass:              {Error, "S0004", "ambiguous class %s"},
	SemaInvalidNamespaceMemberName:  {Error, "S0005", "invalid namespace member name %s"},
	SemaDuplicateGlobalVariableName: {Error, "S0006", "duplicate global variable name %s"},
	SemaPreviousDeclaration:         {Info, "S0007", "previous declaration of %s is here"},
	SemaUndeclaredIdentifier:        {Error, "S0008", "undeclared identifier %s"},
	SemaRedeclaredLocal:             {Error, "S0009", "local variable %s already declared in this scope"},
	SemaCannotConvert:               {Error, "S0010", "cannot convert from %s to %s"},
	SemaInvalidLValue:               {Error, "S0011", "expression is not assignable"},
	SemaInvalidOperandTypes:         {Error, "S0012", "invalid operand types %s and %s for %s"},
	SemaNotInstantiable:             {Error, "S0013", "%s cannot be instantiated"},
	SemaWrongArgumentCount:          {Error, "S0014", "expected %s arguments, got %s"},
	SemaBreakOutsideLoop:            {Error, "S0015", "break outside of a loop"},
	SemaContinueOutsideLoop:         {Error, "S0016", "continue outside of a loop"},
	SemaReturnValueMismatch:         {Error, "S0017", "cannot return %s from a function returning %s"},
	SemaDuplicateFunctionSignature:  {Error, "S0018", "function %s already declared with this signature"},
	SemaUnresolvedFunction:          {Error, "S0019", "unresolved function %s"},
}

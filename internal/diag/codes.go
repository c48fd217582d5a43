package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Lexical
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004

	// Syntax
	SynUnexpectedToken   Code = 2001
	SynExpectIdentifier  Code = 2002
	SynExpectLBrace      Code = 2003
	SynExpectRBrace      Code = 2004
	SynExpectRParen      Code = 2005
	SynExpectExpression  Code = 2006
	SynExpectColonAssign Code = 2007
	SynExpectLiteral     Code = 2008
	SynCallTargetNotName Code = 2009

	// Analysis
	AnaUnresolvedIdent    Code = 3001
	AnaDuplicateDecl      Code = 3002
	AnaArityMismatch      Code = 3003
	AnaLiteralArgWanted   Code = 3004
	AnaAssignToFunction   Code = 3005
	AnaAssignUndeclared   Code = 3006
	AnaLoopControlOutside Code = 3007
	AnaLeaveOutsideFunc   Code = 3008
	AnaShadowedBuiltin    Code = 3009
	AnaValueMismatch      Code = 3010

	// Optimizer
	OptPreconditionFailed Code = 4001
	OptLimitExhausted     Code = 4002
	OptUnknownPass        Code = 4003
)

func (c Code) String() string {
	return fmt.Sprintf("ZYL%04d", uint16(c))
}

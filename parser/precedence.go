package parser

import "github.com/saraswati-lib/saraswati/internal/token"

// Precedence order for operators
const (
	_ int = iota
	LOWEST
	ASSIGN      // = += -= ...
	TERNARY     // ? :
	NULLISH     // ??
	OR          // ||
	AND         // &&
	BITOR       // |
	BITXOR      // ^
	BITAND      // &
	EQUALS      // == != === !==
	LESSGREATER // < > <= >= in instanceof
	SHIFT       // << >> >>>
	SUM         // + or -
	PRODUCT     // * / %
	POWER       // **
	PREFIX      // -X !X typeof X
	POSTFIX     // X++ X--
	CALL        // f(X) x.y x[y] x?.y
	HIGHEST
)

// Precedences for each token type
var precedences = map[token.Type]int{
	token.ASSIGN:          ASSIGN,
	token.PLUS_EQUALS:     ASSIGN,
	token.MINUS_EQUALS:    ASSIGN,
	token.ASTERISK_EQUALS: ASSIGN,
	token.SLASH_EQUALS:    ASSIGN,
	token.MOD_EQUALS:      ASSIGN,
	token.NULLISH_EQUALS:  ASSIGN,
	token.QUESTION:        TERNARY,
	token.NULLISH:         NULLISH,
	token.OR:              OR,
	token.AND:             AND,
	token.BITOR:           BITOR,
	token.CARET:           BITXOR,
	token.AMPERSAND:       BITAND,
	token.EQ:              EQUALS,
	token.NOT_EQ:          EQUALS,
	token.EQ_STRICT:       EQUALS,
	token.NOT_EQ_STRICT:   EQUALS,
	token.LT:              LESSGREATER,
	token.LT_EQUALS:       LESSGREATER,
	token.GT:              LESSGREATER,
	token.GT_EQUALS:       LESSGREATER,
	token.IN:              LESSGREATER,
	token.INSTANCEOF:      LESSGREATER,
	token.LT_LT:           SHIFT,
	token.GT_GT:           SHIFT,
	token.GT_GT_GT:        SHIFT,
	token.PLUS:            SUM,
	token.MINUS:           SUM,
	token.ASTERISK:        PRODUCT,
	token.SLASH:           PRODUCT,
	token.MOD:             PRODUCT,
	token.POW:             POWER,
	token.PLUS_PLUS:       POSTFIX,
	token.MINUS_MINUS:     POSTFIX,
	token.LPAREN:          CALL,
	token.PERIOD:          CALL,
	token.QUESTION_DOT:    CALL,
	token.LBRACKET:        CALL,
}

// rightAssociative operators bind their right operand at one level lower.
var rightAssociative = map[token.Type]bool{
	token.POW: true,
}

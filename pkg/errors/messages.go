package errors

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys. The English text is the key itself; other languages are
// registered in the default x/text catalog below.
const (
	MsgUnexpectedChar   = "unexpected character %q"
	MsgExpected         = "expected %s but found %s"
	MsgUnexpected       = "unexpected token %s"
	MsgNotAssignable    = "type %s is not assignable to %s"
	MsgUndeclaredVar    = "variable %s is not declared"
	MsgUndeclaredType   = "type %s is not declared"
	MsgNotCallable      = "%s is not a function"
	MsgArity            = "function %s expects %d arguments, but %d were given"
	MsgMethodArity      = "method %s expects %d arguments, but %d were given"
	MsgUndeclaredProp   = "property %s is not declared on %s"
	MsgUndeclaredMethod = "method %s is not declared on %s"
	MsgUnknownNamedArg  = "function %s has no parameter named %s"
	MsgConstAssign      = "cannot assign to constant %s"
	MsgInvalidTarget    = "invalid assignment target %s"
	MsgBinaryOperand    = "operator %s cannot be applied to %s and %s"
	MsgUnaryOperand     = "operator %s cannot be applied to %s"
	MsgReturnOutside    = "return statement outside of a function"
	MsgCircularAlias    = "type alias %s circularly references itself"
	MsgNotIterable      = "type %s is not iterable"
	MsgMissingMember    = "class %s does not implement %s: missing %s"
	MsgThisOutside      = "this is only available inside a class"
	MsgNotConstructible = "%s is not a class"
	MsgTypeArity        = "type %s expects %d type arguments, but %d were given"
)

// English is the language used by Error().
var English = language.English

var portuguese = map[string]string{
	MsgUnexpectedChar:   "caractere inesperado %q",
	MsgExpected:         "Era esperado %s mas foi encontrado %s",
	MsgUnexpected:       "Token inesperado %s",
	MsgNotAssignable:    "O tipo %s não é um sub-tipo de %s",
	MsgUndeclaredVar:    "A variável %s não foi declarada",
	MsgUndeclaredType:   "O tipo %s não foi declarado",
	MsgNotCallable:      "%s não é uma função",
	MsgArity:            "A função %s espera %d argumentos, mas %d foram passados",
	MsgMethodArity:      "O método %s espera %d argumentos, mas %d foram passados",
	MsgUndeclaredProp:   "A propriedade %s não foi declarada na classe %s",
	MsgUndeclaredMethod: "O método %s não foi declarado na classe %s",
	MsgUnknownNamedArg:  "A função %s não possui o parâmetro %s",
	MsgConstAssign:      "Não é possível atribuir à constante %s",
	MsgInvalidTarget:    "Alvo de atribuição inválido %s",
	MsgBinaryOperand:    "O operador %s não pode ser aplicado a %s e %s",
	MsgUnaryOperand:     "O operador %s não pode ser aplicado a %s",
	MsgReturnOutside:    "return fora de uma função",
	MsgCircularAlias:    "O tipo %s referencia a si mesmo",
	MsgNotIterable:      "O tipo %s não é iterável",
	MsgMissingMember:    "A classe %s não implementa %s: falta %s",
	MsgThisOutside:      "this só pode ser usado dentro de uma classe",
	MsgNotConstructible: "%s não é uma classe",
	MsgTypeArity:        "O tipo %s espera %d argumentos de tipo, mas %d foram passados",
}

func init() {
	for key, msg := range portuguese {
		if err := message.SetString(language.BrazilianPortuguese, key, msg); err != nil {
			panic(err)
		}
	}
}

// ParseLocale maps a config/flag value ("en", "pt-BR", ...) to a supported tag.
// Unknown values fall back to English.
func ParseLocale(s string) language.Tag {
	if s == "" {
		return English
	}
	tag, err := language.Parse(s)
	if err != nil {
		return English
	}
	matcher := language.NewMatcher([]language.Tag{English, language.BrazilianPortuguese})
	_, idx, _ := matcher.Match(tag)
	if idx == 1 {
		return language.BrazilianPortuguese
	}
	return English
}

func sprintf(tag language.Tag, key string, args ...any) string {
	return message.NewPrinter(tag).Sprintf(key, args...)
}

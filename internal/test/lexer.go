// Package test provides a random-token source generator used to seed lexer and
// parser benchmarks without hand-writing large fixture files.
package test

import (
	"math/rand"
	"strings"
)

// validTokens lists a lexeme for every kind the lexer recognizes: keywords, every
// operator and delimiter except ';', identifiers, and literals across all supported
// numeric bases. The list is itself ';'-separated, so its "];;;," run yields two
// empty entries rather than a semicolon. Generalized from the teacher's eight-token toy grammar to the full token
// alphabet so random-token benchmarks exercise every scanning path, not just
// function/brace/string handling.
const validTokens = "int;float;string;bool;char;void;" +
	"if;else;while;for;do;switch;case;default;break;continue;return;" +
	"function;var;const;" +
	"class;struct;enum;interface;implements;extends;public;private;protected;static;final;abstract;virtual;override;" +
	"try;catch;finally;throw;" +
	"import;export;module;namespace;" +
	"true;false;null;undefined;" +
	"x;y;count;result;únicódeShouldBeVàlid;_identifier;" +
	"0;42;0xFF;0b1010;0o17;1.5;1.5e-10;.5;1.;" +
	"\"a string\";\"with \\\"escapes\\\" and \\n a newline\";\"\";" +
	"'a';'\\n';" +
	"+;-;*;/;%;**;++;--;" +
	"=;+=;-=;*=;/=;%=;**=;" +
	"==;!=;===;<;<=;>;>=;" +
	"&&;||;!;" +
	"&;|;^;~;<<;>>;&=;|=;^=;<<=;>>=;" +
	"(;);{;};[;];;;,;.;:;::;->;?;...;#;" +
	"// a line comment\n;" +
	"/* a block comment */;\n"

// GetRandomTokens returns size randomly chosen lexemes joined by spaces. The result
// is not grammatically valid source -- it exercises the lexer's scanning paths and
// the parser's error-recovery paths, not a well-formed program.
func GetRandomTokens(size int) string {
	return GetRandomTokensWithSep(size, " ")
}

// GetRandomTokensWithSep is GetRandomTokens with a caller-chosen separator between
// lexemes.
func GetRandomTokensWithSep(size int, sep string) string {
	valid := strings.Split(validTokens, ";")

	toks := make([]string, 0, size)
	for len(toks) < size {
		toks = append(toks, valid[rand.Intn(len(valid))])
	}

	return strings.Join(toks, sep)
}

package internal

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

type Config struct {
	BadgerFilepath  string `env:"BADGER_FILEPATH,required=true"`
	LogLevel        string `env:"LOG_LEVEL,required=true"`
	CensoredWords   string `env:"CENSORED_WORDS"`
	CharReplacement string `env:"CHARACTER_REPLACEMENT,default=*"`
	TreeIndent      int    `env:"TREE_INDENT,default=4"`
}

// Words splits CENSORED_WORDS on commas, dropping blanks.
func (c Config) Words() []string {
	words := lo.Map(strings.Split(c.CensoredWords, ","), func(w string, _ int) string {
		return strings.TrimSpace(w)
	})
	return lo.Compact(words)
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}

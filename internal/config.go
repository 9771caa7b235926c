package internal

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Config is the process configuration, sourced from the environment.
type Config struct {
	LogLevel        string `env:"LOG_LEVEL,default=INFO" validate:"required"`
	HistoryLimit    int    `env:"HISTORY_LIMIT,default=1000" validate:"gt=0"`
	CharReplacement string `env:"CHARACTER_REPLACEMENT,default=*" validate:"required"`
	Colours         bool   `env:"COLOURS,default=true"`
	WebsocketEnable bool   `env:"WEBSOCKET_ENABLE,default=false"`
	WebsocketURL    string `env:"WEBSOCKET_URL"`
}

func (c Config) Validate() error {
	return validate.Struct(c)
}

// CharacterRune enforces that the masking replacement is a single character.
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

package service

import (
	"errors"
	"strings"

	"github.com/manifoldco/promptui"

	"confdesk-cli/ledger"
)

// PromptCity asks for a city name when the command was invoked without one.
func PromptCity() (string, error) {
	prompt := promptui.Prompt{
		Label: "City",
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return errors.New("city is required")
			}
			return nil
		},
	}
	city, err := prompt.Run()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(city), nil
}

// PromptDate asks for a YYYY-MM-DD date when the command was invoked
// without one.
func PromptDate(label string) (string, error) {
	prompt := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			_, err := ledger.ParseDate(strings.TrimSpace(input))
			return err
		},
	}
	value, err := prompt.Run()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(value), nil
}

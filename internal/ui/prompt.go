package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// Prompter asks for values on the terminal.
type Prompter interface {
	Int(label string, def, min, max int) (int, error)
	Confirm(label string) (bool, error)
}

// Terminal prompts with promptui.
type Terminal struct{}

// Int asks for an integer in [min, max]. max < min leaves the range open above.
func (Terminal) Int(label string, def, min, max int) (int, error) {
	prompt := promptui.Prompt{
		Label:    label,
		Default:  strconv.Itoa(def),
		Validate: intValidator(min, max),
	}

	raw, err := prompt.Run()
	if err != nil {
		return 0, fmt.Errorf("prompt %q: %w", label, err)
	}
	return strconv.Atoi(strings.TrimSpace(raw))
}

// Confirm asks a yes/no question.
func (Terminal) Confirm(label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}

	if _, err := prompt.Run(); err != nil {
		if err == promptui.ErrAbort {
			return false, nil
		}
		return false, fmt.Errorf("prompt %q: %w", label, err)
	}
	return true, nil
}

func intValidator(min, max int) promptui.ValidateFunc {
	return func(input string) error {
		n, err := strconv.Atoi(strings.TrimSpace(input))
		if err != nil {
			return fmt.Errorf("enter a whole number")
		}
		if n < min {
			return fmt.Errorf("must be at least %d", min)
		}
		if max >= min && n > max {
			return fmt.Errorf("must be at most %d", max)
		}
		return nil
	}
}

// Package prompt asks the user for values the compose file leaves open.
package prompt

import (
	"context"
	"fmt"
	"strconv"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
)

// Asker shows a prompt and stores the answer in response.
type Asker func(p survey.Prompt, response any) error

// NewAsker returns an Asker reading from the terminal.
func NewAsker() Asker {
	return func(p survey.Prompt, response any) error {
		return survey.AskOne(p, response, survey.WithIcons(func(icons *survey.IconSet) {
			icons.Question.Format = "blue+b"
			icons.SelectFocus.Format = "blue+b"
			icons.Help.Format = "black+h"
			icons.Help.Text = "Hint:"
		}))
	}
}

// Resolver asks for the value of variables that are not set.
type Resolver struct {
	ask Asker
}

func NewResolver(ask Asker) *Resolver {
	return &Resolver{ask: ask}
}

func (r *Resolver) Resolve(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var value string
	err := r.ask(&survey.Input{
		Message: fmt.Sprintf("%s is not set. Value:", color.CyanString(name)),
		Help:    "The compose file references this variable but it is not set in the environment or .env file.",
	}, &value)
	if err != nil {
		return "", fmt.Errorf("asking for %s: %w", name, err)
	}
	return value, nil
}

// PortSelector asks which port should receive ingress traffic.
type PortSelector struct {
	ask Asker
}

func NewPortSelector(ask Asker) *PortSelector {
	return &PortSelector{ask: ask}
}

func (s *PortSelector) SelectPort(ctx context.Context, service string, ports []int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(ports) == 0 {
		return 0, fmt.Errorf("no ports to select from for %s", service)
	}

	options := make([]string, 0, len(ports))
	for _, p := range ports {
		options = append(options, strconv.Itoa(p))
	}

	var idx int
	err := s.ask(&survey.Select{
		Message: fmt.Sprintf("Which port of %s should receive ingress traffic?", color.CyanString(service)),
		Options: options,
		Default: options[0],
	}, &idx)
	if err != nil {
		return 0, fmt.Errorf("selecting port for %s: %w", service, err)
	}
	if idx < 0 || idx >= len(ports) {
		return 0, fmt.Errorf("selected option %d is out of range", idx)
	}
	return ports[idx], nil
}

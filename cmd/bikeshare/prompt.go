package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"bikeshare/internal/config"
	"bikeshare/pkg/contracts/domain"
)

type prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{scanner: bufio.NewScanner(in), out: out}
}

// ask prints question and returns the next answer, lowercased and trimmed.
// It returns io.EOF once input is exhausted.
func (p *prompter) ask(question string) (string, error) {
	fmt.Fprintf(p.out, "\n%s\n", question)
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", fmt.Errorf("read answer: %w", err)
		}
		return "", io.EOF
	}
	return strings.ToLower(strings.TrimSpace(p.scanner.Text())), nil
}

// choose asks until valid accepts the answer
func (p *prompter) choose(question, invalid string, valid func(string) bool) (string, error) {
	for {
		answer, err := p.ask(question)
		if err != nil {
			return "", err
		}
		if valid(answer) {
			return answer, nil
		}
		fmt.Fprintf(p.out, "\n%s\n", invalid)
	}
}

// confirm reports whether the answer is "yes"
func (p *prompter) confirm(question string) (bool, error) {
	answer, err := p.ask(question)
	if err != nil {
		return false, err
	}
	return answer == "yes", nil
}

func (p *prompter) askFilters(reg *config.Registry) (domain.FilterSpec, error) {
	city, err := p.choose(
		fmt.Sprintf("Choose a city you would like to see data for:\n    %s", strings.Join(reg.CityIDs(), ", ")),
		"Invalid city: Please type the name of a city from the list",
		reg.HasCity)
	if err != nil {
		return domain.FilterSpec{}, err
	}

	month, err := p.choose(
		fmt.Sprintf("Choose a month you would like to see data for:\n    %s\n    Type \"all\" to see data for all months.", strings.Join(reg.Months(), ", ")),
		"Invalid month: Please type the name of a month in the list, or \"all\"",
		reg.ValidMonth)
	if err != nil {
		return domain.FilterSpec{}, err
	}

	day, err := p.choose(
		fmt.Sprintf("Choose a day you would like to see data for:\n    %s\n    Type \"all\" to see data for all days.", strings.Join(reg.Weekdays(), ", ")),
		"Invalid day: Please type the name of a day, or \"all\"",
		reg.ValidDay)
	if err != nil {
		return domain.FilterSpec{}, err
	}

	fmt.Fprintf(p.out, "\n%s\n", rule)
	return domain.FilterSpec{City: city, Month: month, Day: day}, nil
}

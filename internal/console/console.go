// Package console implements the interactive prompts: artist disambiguation
// during sync, and the split/merge management dialogs.
package console

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/franz/mishmash/internal/util"
)

// Console reads answers line by line. EOF (ctrl-D) surfaces as
// util.ErrPromptExit from every prompt.
type Console struct {
	in  *bufio.Scanner
	out io.Writer
}

// New returns a console on stdin/stdout.
func New() *Console {
	return NewWith(os.Stdin, os.Stdout)
}

// NewWith returns a console on the given streams.
func NewWith(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewScanner(in), out: out}
}

// Printf writes to the console output.
func (c *Console) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *Console) readLine() (string, error) {
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", util.ErrPromptExit
	}
	return strings.TrimSpace(c.in.Text()), nil
}

// Prompt asks for a line of input. An empty answer returns the default.
func (c *Console) Prompt(label, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(c.out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(c.out, "%s: ", label)
	}
	line, err := c.readLine()
	if err != nil {
		return "", err
	}
	if line == "" {
		return def, nil
	}
	return line, nil
}

// PromptRequired re-asks until the answer is non-empty.
func (c *Console) PromptRequired(label, def string) (string, error) {
	for {
		line, err := c.Prompt(label, def)
		if err != nil {
			return "", err
		}
		if line != "" {
			return line, nil
		}
	}
}

// PromptInt re-asks until the answer is an integer in [min, max].
func (c *Console) PromptInt(label string, min, max int) (int, error) {
	for {
		line, err := c.Prompt(label, "")
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(line)
		if err != nil || n < min || n > max {
			fmt.Fprintf(c.out, "Enter a number between %d and %d\n", min, max)
			continue
		}
		return n, nil
	}
}

// PromptIntList parses a comma or space separated list of integers in
// [min, max], re-asking until at least one valid number is given.
func (c *Console) PromptIntList(label string, min, max int) ([]int, error) {
	for {
		line, err := c.Prompt(label, "")
		if err != nil {
			return nil, err
		}

		var nums []int
		ok := line != ""
		for _, field := range strings.FieldsFunc(line, func(r rune) bool {
			return r == ',' || r == ' '
		}) {
			n, err := strconv.Atoi(field)
			if err != nil || n < min || n > max {
				ok = false
				break
			}
			nums = append(nums, n)
		}
		if !ok || len(nums) == 0 {
			fmt.Fprintf(c.out, "Enter numbers between %d and %d\n", min, max)
			continue
		}
		return nums, nil
	}
}

// PromptCountry asks for a country and normalizes it to iso3, re-asking when
// the name is not recognized. Empty input means no country.
func (c *Console) PromptCountry(label, def string) (string, error) {
	for {
		line, err := c.Prompt(label, def)
		if err != nil {
			return "", err
		}
		if line == "" {
			return "", nil
		}
		iso3, err := util.NormalizeCountry(line, util.CountryISO3)
		if err != nil {
			fmt.Fprintf(c.out, "Unknown country: %s\n", line)
			continue
		}
		return iso3, nil
	}
}

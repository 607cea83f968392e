package wizard

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/joshyorko/sstui/common"
	"github.com/joshyorko/sstui/pretty"
)

const (
	UNIX_NEWLINE    = "\n"
	WINDOWS_NEWLINE = "\r\n"

	newline = '\n'
)

// stdin is replaced in tests.
var stdin io.Reader = os.Stdin

type Validator func(string) bool

func memberValidation(members []string, erratic string) Validator {
	return func(input string) bool {
		for _, member := range members {
			if input == member {
				return true
			}
		}
		common.Stdout("%s%s%s\n\n", pretty.Red, erratic, pretty.Reset)
		return false
	}
}

func ask(question, defaults string, validator Validator) (string, error) {
	source := bufio.NewReader(stdin)
	for {
		common.Stdout("%s? %s%s %s[%s]:%s ", pretty.Green, pretty.White, question, pretty.Grey, defaults, pretty.Reset)
		reply, err := source.ReadString(newline)
		common.Stdout("\n")
		if err != nil {
			return "", err
		}
		if reply == UNIX_NEWLINE || reply == WINDOWS_NEWLINE {
			reply = defaults
		}
		reply = strings.TrimSpace(reply)
		if !validator(reply) {
			continue
		}
		return reply, nil
	}
}

// ValidateSelection accepts either option value or its 1-based number.
func ValidateSelection(options []string) Validator {
	return func(input string) bool {
		if indexOf(options, input) >= 0 {
			return true
		}
		var listing strings.Builder
		for index, option := range options {
			if index > 0 {
				listing.WriteString(", ")
			}
			fmt.Fprintf(&listing, "%d) %s", index+1, option)
		}
		common.Stdout("%sInvalid selection. Choose from: %s%s\n\n", pretty.Red, listing.String(), pretty.Reset)
		return false
	}
}

func indexOf(options []string, input string) int {
	for index, option := range options {
		if input == option {
			return index
		}
	}
	if number, err := strconv.Atoi(input); err == nil && number >= 1 && number <= len(options) {
		return number - 1
	}
	return -1
}

// ShowOptions displays a numbered list of options before prompting the user.
func ShowOptions(options []string) {
	for index, option := range options {
		common.Stdout("  %d) %s\n", index+1, option)
	}
}

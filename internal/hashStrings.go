package internal

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// formatTemplate replaces each {} of template, left to right, with the
// textual value of the next argument. Placeholders without an argument
// are kept and extra arguments are ignored.
func formatTemplate(template string, arguments []interface{}) string {
	var sb strings.Builder
	rest := template
	for _, arg := range arguments {
		i := strings.Index(rest, "{}")
		if i < 0 {
			break
		}
		sb.WriteString(rest[:i])
		sb.WriteString(printObj(arg))
		rest = rest[i+2:]
	}
	sb.WriteString(rest)
	return sb.String()
}

func defineStrings(t builtinTable) {
	t.define("string#len", 1, 1, func(exec *exec, arguments []interface{}) (interface{}, error) {
		s, err := argString("string#len", arguments, 0)
		if err != nil {
			return nil, err
		}
		return hashNumber(utf8.RuneCountInString(s)), nil
	})

	t.define("string#slice", 3, 3, func(exec *exec, arguments []interface{}) (interface{}, error) {
		s, err := argString("string#slice", arguments, 0)
		if err != nil {
			return nil, err
		}
		start, err := argInt("string#slice", arguments, 1)
		if err != nil {
			return nil, err
		}
		end, err := argInt("string#slice", arguments, 2)
		if err != nil {
			return nil, err
		}
		runes := []rune(s)
		if end < start {
			return nil, fmt.Errorf("%w: string#slice from %d to %d", errInvalidRange, start, end)
		}
		if start < 0 || end > len(runes) {
			return nil, fmt.Errorf("%w: string#slice from %d to %d of length %d", errIndexOutOfRange, start, end, len(runes))
		}
		return hashString(runes[start:end]), nil
	})

	t.define("string#index_of", 2, 2, func(exec *exec, arguments []interface{}) (interface{}, error) {
		s, err := argString("string#index_of", arguments, 0)
		if err != nil {
			return nil, err
		}
		sub, err := argString("string#index_of", arguments, 1)
		if err != nil {
			return nil, err
		}
		i := strings.Index(s, sub)
		if i < 0 {
			return hashNumber(-1), nil
		}
		return hashNumber(utf8.RuneCountInString(s[:i])), nil
	})

	t.define("string#split", 2, 2, func(exec *exec, arguments []interface{}) (interface{}, error) {
		s, err := argString("string#split", arguments, 0)
		if err != nil {
			return nil, err
		}
		sep, err := argString("string#split", arguments, 1)
		if err != nil {
			return nil, err
		}
		parts := strings.Split(s, sep)
		elements := make([]interface{}, len(parts))
		for i, part := range parts {
			elements[i] = hashString(part)
		}
		return newArray(elements), nil
	})

	t.define("string#trim", 1, 1, func(exec *exec, arguments []interface{}) (interface{}, error) {
		s, err := argString("string#trim", arguments, 0)
		if err != nil {
			return nil, err
		}
		return hashString(strings.TrimSpace(s)), nil
	})

	t.define("string#format", 1, -1, func(exec *exec, arguments []interface{}) (interface{}, error) {
		template, err := argString("string#format", arguments, 0)
		if err != nil {
			return nil, err
		}
		return hashString(formatTemplate(template, arguments[1:])), nil
	})

	t.define("string#concat", 1, -1, func(exec *exec, arguments []interface{}) (interface{}, error) {
		var sb strings.Builder
		for _, arg := range arguments {
			sb.WriteString(printObj(arg))
		}
		return hashString(sb.String()), nil
	})

	t.define("string#upper", 1, 1, func(exec *exec, arguments []interface{}) (interface{}, error) {
		s, err := argString("string#upper", arguments, 0)
		if err != nil {
			return nil, err
		}
		return hashString(strings.ToUpper(s)), nil
	})

	t.define("string#lower", 1, 1, func(exec *exec, arguments []interface{}) (interface{}, error) {
		s, err := argString("string#lower", arguments, 0)
		if err != nil {
			return nil, err
		}
		return hashString(strings.ToLower(s)), nil
	})

	t.define("string#to_number", 1, 1, func(exec *exec, arguments []interface{}) (interface{}, error) {
		s, err := argString("string#to_number", arguments, 0)
		if err != nil {
			return nil, err
		}
		n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, nil
		}
		return hashNumber(n), nil
	})
}

package jsonpointer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type partType string

const (
	partTypeKey   partType = "key"
	partTypeIndex partType = "index"
)

type navigationPart struct {
	Type  partType
	Value string
}

func (n navigationPart) unescapeValue() string {
	return unescape(n.Value)
}

func (n navigationPart) getIndex() int {
	index, _ := strconv.Atoi(n.Value)
	return index
}

var (
	invalidEscapeRegex = regexp.MustCompile(`~([^01]|$)`)
	digitOnlyRegex     = regexp.MustCompile("^[0-9]+$")
)

func (j JSONPointer) getNavigationStack() ([]navigationPart, error) {
	if len(j) == 0 {
		return nil, nil
	}

	if !strings.HasPrefix(string(j), "/") {
		return nil, fmt.Errorf("jsonpointer must start with /: %s", string(j))
	}

	strParts := strings.Split(strings.TrimPrefix(string(j), "/"), "/")
	stack := make([]navigationPart, 0, len(strParts))

	for _, part := range strParts {
		if invalidEscapeRegex.MatchString(part) {
			return nil, fmt.Errorf("jsonpointer part contains an invalid escape sequence: %s", string(j))
		}

		if digitOnlyRegex.MatchString(part) && (len(part) == 1 || part[0] != '0') {
			stack = append(stack, navigationPart{
				Type:  partTypeIndex,
				Value: part,
			})
			continue
		}

		stack = append(stack, navigationPart{
			Type:  partTypeKey,
			Value: part,
		})
	}

	return stack, nil
}

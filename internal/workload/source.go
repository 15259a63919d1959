package workload

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/aryankumar/forkjoin/internal/util"
	"gopkg.in/yaml.v3"
)

// Range returns the integers lo..hi inclusive as element tokens.
// An inverted range yields an empty, non-nil sequence.
func Range(lo, hi int) []string {
	if hi < lo {
		return []string{}
	}

	out := make([]string, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		out = append(out, strconv.Itoa(i))
	}
	return out
}

// ParseRange parses "lo:hi" and returns the inclusive range
func ParseRange(spec string) ([]string, error) {
	lo, hi, ok := strings.Cut(strings.TrimSpace(spec), ":")
	if !ok {
		return nil, util.NewValidationError("range", spec, "expected the form lo:hi")
	}

	start, err := strconv.Atoi(strings.TrimSpace(lo))
	if err != nil {
		return nil, util.NewValidationError("range", spec, "lower bound is not an integer")
	}

	end, err := strconv.Atoi(strings.TrimSpace(hi))
	if err != nil {
		return nil, util.NewValidationError("range", spec, "upper bound is not an integer")
	}

	if end < start {
		return nil, util.NewValidationError("range", spec, "upper bound is below lower bound")
	}

	return Range(start, end), nil
}

// ParseValues trims each value and drops empty ones
func ParseValues(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// elementsFile is the mapping form of an element file
type elementsFile struct {
	Elements []interface{} `yaml:"elements"`
}

// LoadFile reads elements from a YAML or JSON file.
// The file holds either a top-level list of scalars or a mapping with an
// "elements" list.
func LoadFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, util.WrapErrorf(err, "failed to read element file %s", path)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: failed to parse %s: %v", util.ErrInvalidInput, path, err)
	}

	var raw []interface{}
	if len(root.Content) > 0 && root.Content[0].Kind == yaml.MappingNode {
		var f elementsFile
		if err := root.Decode(&f); err != nil {
			return nil, fmt.Errorf("%w: failed to decode %s: %v", util.ErrInvalidInput, path, err)
		}
		raw = f.Elements
	} else if len(root.Content) > 0 {
		if err := root.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: %s must contain a list of scalars: %v", util.ErrInvalidInput, path, err)
		}
	}

	out := make([]string, 0, len(raw))
	for i, v := range raw {
		switch v.(type) {
		case map[string]interface{}, []interface{}, nil:
			return nil, fmt.Errorf("%w: %s element %d is not a scalar", util.ErrInvalidInput, path, i)
		}
		out = append(out, fmt.Sprint(v))
	}
	return out, nil
}
